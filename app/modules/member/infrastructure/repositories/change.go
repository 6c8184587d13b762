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

// GetMemberChangeByUUID retrieves a member change record.
func (r *Impl) GetMemberChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*MemberChange, error) {
	db = r.resolveDB(db)
	change := new(MemberChange)
	err := db.NewSelect().
		Model(change).
		Where("uuid = ?", changeUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member change by UUID: %w", err)
	}
	return change, nil
}

// CreateMemberChange inserts a new member change record.
func (r *Impl) CreateMemberChange(ctx context.Context, db bun.IDB, change *MemberChange) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(change).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create member change: %w", err)
	}
	return nil
}

// UpdateMemberChange persists changes to a member change record.
func (r *Impl) UpdateMemberChange(ctx context.Context, db bun.IDB, change *MemberChange) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(change).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update member change: %w", err)
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

// PendingMemberChangesUpTo returns the member's pending change records with
// created_at <= createdAt, oldest first.
func (r *Impl) PendingMemberChangesUpTo(ctx context.Context, db bun.IDB, memberUUID uuid.UUID, createdAt time.Time) ([]*MemberChange, error) {
	db = r.resolveDB(db)
	var changes []*MemberChange
	err := db.NewSelect().
		Model(&changes).
		Where("member_uuid = ?", memberUUID).
		Where("status = ?", ChangeStatusPending).
		Where("created_at <= ?", createdAt).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending member changes: %w", err)
	}
	return changes, nil
}

// GetMembershipChangeByUUID retrieves a membership change record.
func (r *Impl) GetMembershipChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*MembershipChange, error) {
	db = r.resolveDB(db)
	change := new(MembershipChange)
	err := db.NewSelect().
		Model(change).
		Where("uuid = ?", changeUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership change by UUID: %w", err)
	}
	return change, nil
}

// CurrentMembershipChangeOf returns the membership change owned by the given
// member change, or (nil, nil) if there is none.
func (r *Impl) CurrentMembershipChangeOf(ctx context.Context, db bun.IDB, memberChangeUUID uuid.UUID) (*MembershipChange, error) {
	db = r.resolveDB(db)
	change := new(MembershipChange)
	err := db.NewSelect().
		Model(change).
		Where("member_change_uuid = ?", memberChangeUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership change of member change: %w", err)
	}
	return change, nil
}

// CreateMembershipChange inserts a new membership change record.
func (r *Impl) CreateMembershipChange(ctx context.Context, db bun.IDB, change *MembershipChange) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(change).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create membership change: %w", err)
	}
	return nil
}

// UpdateMembershipChange persists changes to a membership change record.
func (r *Impl) UpdateMembershipChange(ctx context.Context, db bun.IDB, change *MembershipChange) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(change).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update membership change: %w", err)
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
