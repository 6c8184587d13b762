package memberdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a member, membership or change record is not found.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateLicense is returned when a membership license number is already
// used by a current membership of the same club.
var ErrDuplicateLicense = errors.New("membership license number already used in this club")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new member repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetMemberByUUID retrieves a member.
func (r *Impl) GetMemberByUUID(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*Member, error) {
	db = r.resolveDB(db)
	member := new(Member)
	err := db.NewSelect().
		Model(member).
		Where("uuid = ?", memberUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member by UUID: %w", err)
	}
	return member, nil
}

// ListMembers retrieves all members ordered by surname, name.
func (r *Impl) ListMembers(ctx context.Context, db bun.IDB) ([]*Member, error) {
	db = r.resolveDB(db)
	var members []*Member
	err := db.NewSelect().
		Model(&members).
		Order("surname ASC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateMember inserts a new member.
func (r *Impl) CreateMember(ctx context.Context, db bun.IDB, member *Member) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(member).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// UpdateMember persists changes to an existing member.
func (r *Impl) UpdateMember(ctx context.Context, db bun.IDB, member *Member) error {
	db = r.resolveDB(db)
	member.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(member).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
