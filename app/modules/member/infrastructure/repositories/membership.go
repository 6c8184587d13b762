package memberdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fstb-swiss/fstb-admin/internal/bundb"
)

// GetMembershipByUUID retrieves a membership.
func (r *Impl) GetMembershipByUUID(ctx context.Context, db bun.IDB, membershipUUID uuid.UUID) (*Membership, error) {
	db = r.resolveDB(db)
	membership := new(Membership)
	err := db.NewSelect().
		Model(membership).
		Where("uuid = ?", membershipUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership by UUID: %w", err)
	}
	return membership, nil
}

// CurrentMembershipOf returns the member's membership with no transfer date,
// or (nil, nil) if the member has none.
func (r *Impl) CurrentMembershipOf(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*Membership, error) {
	db = r.resolveDB(db)
	membership := new(Membership)
	err := db.NewSelect().
		Model(membership).
		Where("member_uuid = ?", memberUUID).
		Where("transfer_date IS NULL").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current membership: %w", err)
	}
	return membership, nil
}

// CreateMembership inserts a new membership.
func (r *Impl) CreateMembership(ctx context.Context, db bun.IDB, membership *Membership) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(membership).Exec(ctx)
	if err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicateLicense
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// UpdateMembership persists changes to an existing membership.
func (r *Impl) UpdateMembership(ctx context.Context, db bun.IDB, membership *Membership) error {
	db = r.resolveDB(db)
	membership.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(membership).
		WherePK().
		Exec(ctx)
	if err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicateLicense
		}
		return fmt.Errorf("failed to update membership: %w", err)
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

// UsedMembershipLicenseNumbers returns the license numbers of the club's
// current memberships.
func (r *Impl) UsedMembershipLicenseNumbers(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]int, error) {
	db = r.resolveDB(db)
	var numbers []int
	err := db.NewSelect().
		Model((*Membership)(nil)).
		Column("license_no").
		Where("club_uuid = ?", clubUUID).
		Where("transfer_date IS NULL").
		Order("license_no ASC").
		Scan(ctx, &numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to get used membership license numbers: %w", err)
	}
	return numbers, nil
}
