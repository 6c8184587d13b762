package memberdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for member, membership and change-record
// persistence. Lookups that may legitimately find nothing (current membership,
// current membership change) return (nil, nil) rather than ErrNotFound so the
// transition engine can branch on absence.
type Repository interface {
	// GetMemberByUUID retrieves a member.
	GetMemberByUUID(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*Member, error)

	// ListMembers retrieves all members ordered by surname, name.
	ListMembers(ctx context.Context, db bun.IDB) ([]*Member, error)

	// CreateMember inserts a new member.
	CreateMember(ctx context.Context, db bun.IDB, member *Member) error

	// UpdateMember persists changes to an existing member.
	UpdateMember(ctx context.Context, db bun.IDB, member *Member) error

	// GetMembershipByUUID retrieves a membership.
	GetMembershipByUUID(ctx context.Context, db bun.IDB, membershipUUID uuid.UUID) (*Membership, error)

	// CurrentMembershipOf returns the member's membership with no transfer
	// date, or (nil, nil) if the member has none.
	CurrentMembershipOf(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*Membership, error)

	// CreateMembership inserts a new membership. A duplicate
	// (club, license_no) among current memberships maps to ErrDuplicateLicense.
	CreateMembership(ctx context.Context, db bun.IDB, membership *Membership) error

	// UpdateMembership persists changes to an existing membership, with the
	// same ErrDuplicateLicense mapping as CreateMembership.
	UpdateMembership(ctx context.Context, db bun.IDB, membership *Membership) error

	// UsedMembershipLicenseNumbers returns the license numbers of the club's
	// current memberships.
	UsedMembershipLicenseNumbers(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]int, error)

	// GetMemberChangeByUUID retrieves a member change record.
	GetMemberChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*MemberChange, error)

	// CreateMemberChange inserts a new member change record.
	CreateMemberChange(ctx context.Context, db bun.IDB, change *MemberChange) error

	// UpdateMemberChange persists changes to a member change record.
	UpdateMemberChange(ctx context.Context, db bun.IDB, change *MemberChange) error

	// PendingMemberChangesUpTo returns the member's pending change records
	// with created_at <= createdAt, oldest first.
	PendingMemberChangesUpTo(ctx context.Context, db bun.IDB, memberUUID uuid.UUID, createdAt time.Time) ([]*MemberChange, error)

	// GetMembershipChangeByUUID retrieves a membership change record.
	GetMembershipChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*MembershipChange, error)

	// CurrentMembershipChangeOf returns the membership change owned by the
	// given member change, or (nil, nil) if there is none.
	CurrentMembershipChangeOf(ctx context.Context, db bun.IDB, memberChangeUUID uuid.UUID) (*MembershipChange, error)

	// CreateMembershipChange inserts a new membership change record.
	CreateMembershipChange(ctx context.Context, db bun.IDB, change *MembershipChange) error

	// UpdateMembershipChange persists changes to a membership change record.
	UpdateMembershipChange(ctx context.Context, db bun.IDB, change *MembershipChange) error
}
