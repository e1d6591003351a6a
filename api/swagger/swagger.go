package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Classroom API",
        "description": "Submission, grading and attendance backend with QR identity resolution",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Entregas", "description": "Assignment submissions and grading"},
        {"name": "Asistencias", "description": "Attendance records"},
        {"name": "QR", "description": "QR-driven identity resolution"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with username and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/entregas": {
            "post": {
                "tags": ["Entregas"],
                "summary": "Submit work for an assignment",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "tarea_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "comentario", "in": "formData", "type": "string"},
                    {"name": "archivo", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate submission"}
                }
            }
        },
        "/entregas/{id}": {
            "get": {
                "tags": ["Entregas"],
                "summary": "Get a submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Entregas"],
                "summary": "Withdraw the caller's submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entregas/{id}/archivo": {
            "get": {
                "tags": ["Entregas"],
                "summary": "Download the submission file",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/entregas/{id}/calificar": {
            "put": {
                "tags": ["Entregas"],
                "summary": "Grade a submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entregas/tarea/{tareaId}": {
            "get": {
                "tags": ["Entregas"],
                "summary": "List submissions for an assignment",
                "parameters": [
                    {"name": "tareaId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entregas/tarea/{tareaId}/mi-entrega": {
            "get": {
                "tags": ["Entregas"],
                "summary": "Get the caller's submission for an assignment",
                "parameters": [
                    {"name": "tareaId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entregas/mis-entregas": {
            "get": {
                "tags": ["Entregas"],
                "summary": "List the caller's submissions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entregas/sin-calificar": {
            "get": {
                "tags": ["Entregas"],
                "summary": "List submissions without a grade",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entregas/calificadas": {
            "get": {
                "tags": ["Entregas"],
                "summary": "List submissions graded by the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asistencias": {
            "post": {
                "tags": ["Asistencias"],
                "summary": "Mark attendance for a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asistencias/{id}": {
            "get": {
                "tags": ["Asistencias"],
                "summary": "Get an attendance record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asistencias/grupo/{grupoId}": {
            "get": {
                "tags": ["Asistencias"],
                "summary": "List attendance for a group on a date",
                "parameters": [
                    {"name": "grupoId", "in": "path", "required": true, "type": "integer"},
                    {"name": "fecha", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asistencias/grupo/{grupoId}/exportar": {
            "get": {
                "tags": ["Asistencias"],
                "summary": "Export the group attendance sheet",
                "parameters": [
                    {"name": "grupoId", "in": "path", "required": true, "type": "integer"},
                    {"name": "fecha", "in": "query", "type": "string"},
                    {"name": "formato", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/asistencias/usuario/{usuarioId}": {
            "get": {
                "tags": ["Asistencias"],
                "summary": "List a student's attendance history",
                "parameters": [
                    {"name": "usuarioId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/qr/decodificar": {
            "post": {
                "tags": ["QR"],
                "summary": "Resolve a scanned code to a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QRDecodeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No user matches the scanned code"}
                }
            }
        },
        "/qr/asistencia": {
            "post": {
                "tags": ["QR"],
                "summary": "Register attendance from a scanned code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QRAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/qr/calificar": {
            "post": {
                "tags": ["QR"],
                "summary": "Grade a submission after verifying ownership",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QRGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Scanned identity does not own the submission"}
                }
            }
        },
        "/qr/agregar-grupo": {
            "post": {
                "tags": ["QR"],
                "summary": "Enroll the scanned student in a group",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QREnrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "nombre_usuario": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["nombre_usuario", "password"]
        },
        "GradeRequest": {
            "type": "object",
            "properties": {
                "calificacion": {"type": "number", "minimum": 0, "maximum": 100},
                "retroalimentacion": {"type": "string"}
            },
            "required": ["calificacion"]
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "usuario_id": {"type": "integer"},
                "grupo_id": {"type": "integer"},
                "fecha": {"type": "string"},
                "estado": {"type": "string", "enum": ["presente", "ausente", "justificado"]},
                "observaciones": {"type": "string"}
            },
            "required": ["usuario_id", "grupo_id"]
        },
        "QRDecodeRequest": {
            "type": "object",
            "properties": {
                "qr_data": {"type": "string"}
            },
            "required": ["qr_data"]
        },
        "QRAttendanceRequest": {
            "type": "object",
            "properties": {
                "qr_data": {"type": "string"},
                "grupo_id": {"type": "integer"},
                "fecha": {"type": "string"},
                "estado": {"type": "string", "enum": ["presente", "ausente", "justificado"]},
                "observaciones": {"type": "string"}
            },
            "required": ["qr_data", "grupo_id"]
        },
        "QRGradeRequest": {
            "type": "object",
            "properties": {
                "qr_data": {"type": "string"},
                "entrega_id": {"type": "integer"},
                "calificacion": {"type": "number", "minimum": 0, "maximum": 100},
                "retroalimentacion": {"type": "string"}
            },
            "required": ["qr_data", "entrega_id", "calificacion"]
        },
        "QREnrollRequest": {
            "type": "object",
            "properties": {
                "qr_data": {"type": "string"},
                "grupo_id": {"type": "integer"}
            },
            "required": ["qr_data", "grupo_id"]
        },
        "Submission": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "tarea_id": {"type": "integer"},
                "alumno_id": {"type": "integer"},
                "comentario": {"type": "string"},
                "nombre_archivo": {"type": "string"},
                "tipo_archivo": {"type": "string"},
                "tamano_archivo": {"type": "integer"},
                "fecha_entrega": {"type": "string"},
                "calificacion": {"type": "number"},
                "retroalimentacion": {"type": "string"},
                "profesor_id": {"type": "integer"},
                "fecha_calificacion": {"type": "string"}
            }
        },
        "AttendanceRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "usuario_id": {"type": "integer"},
                "grupo_id": {"type": "integer"},
                "fecha": {"type": "string"},
                "estado": {"type": "string"},
                "observaciones": {"type": "string"}
            }
        },
        "ResolvedIdentity": {
            "type": "object",
            "properties": {
                "alumno_id": {"type": "integer"},
                "nombre_completo": {"type": "string"},
                "nombre_usuario": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
