package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edulink-mx/classroom-api/internal/models"
)

// GroupRepository owns group existence lookups and the member set.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByID returns a group by identifier.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	const query = `SELECT id, nombre, created_at FROM grupos WHERE id = $1 LIMIT 1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group by id: %w", err)
	}
	return &group, nil
}

// IsMember reports whether the user already belongs to the group.
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM grupo_miembros WHERE grupo_id = $1 AND usuario_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, groupID, userID); err != nil {
		return false, fmt.Errorf("check group membership: %w", err)
	}
	return exists, nil
}

// AddMember enrolls the user into the group. Adding an existing member is a
// no-op thanks to ON CONFLICT DO NOTHING.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	const query = `INSERT INTO grupo_miembros (grupo_id, usuario_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}
