package clubdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for club persistence.
type Repository interface {
	// GetByUUID retrieves a club by its UUID.
	GetByUUID(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*Club, error)

	// GetByLicenseNo retrieves a club by its federation license number.
	GetByLicenseNo(ctx context.Context, db bun.IDB, licenseNo int) (*Club, error)

	// List retrieves all clubs ordered by license number.
	List(ctx context.Context, db bun.IDB) ([]*Club, error)

	// Create inserts a new club.
	Create(ctx context.Context, db bun.IDB, club *Club) error

	// Update persists changes to an existing club.
	Update(ctx context.Context, db bun.IDB, club *Club) error

	// UsedLicenseNumbers returns every license number currently assigned to a club.
	UsedLicenseNumbers(ctx context.Context, db bun.IDB) ([]int, error)
}
