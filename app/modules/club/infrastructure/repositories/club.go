package clubdb

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

// ErrNotFound is returned when a club is not found.
var ErrNotFound = errors.New("club not found")

// ErrDuplicateLicense is returned when a club license number is already assigned.
var ErrDuplicateLicense = errors.New("club license number already assigned")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new club repository.
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

// GetByUUID retrieves a club by its UUID.
func (r *Impl) GetByUUID(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("uuid = ?", clubUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by UUID: %w", err)
	}
	return club, nil
}

// GetByLicenseNo retrieves a club by its federation license number.
func (r *Impl) GetByLicenseNo(ctx context.Context, db bun.IDB, licenseNo int) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("license_no = ?", licenseNo).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club by license number: %w", err)
	}
	return club, nil
}

// List retrieves all clubs ordered by license number.
func (r *Impl) List(ctx context.Context, db bun.IDB) ([]*Club, error) {
	db = r.resolveDB(db)
	var clubs []*Club
	err := db.NewSelect().
		Model(&clubs).
		Order("license_no ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

// Create inserts a new club. A unique-constraint violation on license_no is
// mapped to ErrDuplicateLicense.
func (r *Impl) Create(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(club).Exec(ctx)
	if err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicateLicense
		}
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// Update persists changes to an existing club.
func (r *Impl) Update(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	club.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(club).
		WherePK().
		Exec(ctx)
	if err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicateLicense
		}
		return fmt.Errorf("failed to update club: %w", err)
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

// UsedLicenseNumbers returns every license number currently assigned to a club.
func (r *Impl) UsedLicenseNumbers(ctx context.Context, db bun.IDB) ([]int, error) {
	db = r.resolveDB(db)
	var numbers []int
	err := db.NewSelect().
		Model((*Club)(nil)).
		Column("license_no").
		Order("license_no ASC").
		Scan(ctx, &numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to get used club license numbers: %w", err)
	}
	return numbers, nil
}
