package clubservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	trace []string

	GetByUUIDFunc          func(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*clubdb.Club, error)
	GetByLicenseNoFunc     func(ctx context.Context, db bun.IDB, licenseNo int) (*clubdb.Club, error)
	ListFunc               func(ctx context.Context, db bun.IDB) ([]*clubdb.Club, error)
	CreateFunc             func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	UpdateFunc             func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	UsedLicenseNumbersFunc func(ctx context.Context, db bun.IDB) ([]int, error)
}

func NewFakeClubRepo() *FakeClubRepo {
	return &FakeClubRepo{
		trace: []string{},
	}
}

func (f *FakeClubRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeClubRepo) GetByUUID(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*clubdb.Club, error) {
	f.record("GetByUUID")
	if f.GetByUUIDFunc != nil {
		return f.GetByUUIDFunc(ctx, db, clubUUID)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) GetByLicenseNo(ctx context.Context, db bun.IDB, licenseNo int) (*clubdb.Club, error) {
	f.record("GetByLicenseNo")
	if f.GetByLicenseNoFunc != nil {
		return f.GetByLicenseNoFunc(ctx, db, licenseNo)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) List(ctx context.Context, db bun.IDB) ([]*clubdb.Club, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeClubRepo) Create(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, club)
	}
	return nil
}

func (f *FakeClubRepo) Update(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, club)
	}
	return nil
}

func (f *FakeClubRepo) UsedLicenseNumbers(ctx context.Context, db bun.IDB) ([]int, error) {
	f.record("UsedLicenseNumbers")
	if f.UsedLicenseNumbersFunc != nil {
		return f.UsedLicenseNumbersFunc(ctx, db)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeClubRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ clubdb.Repository = (*FakeClubRepo)(nil)
