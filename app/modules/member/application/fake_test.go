package memberservice

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
)

// ------------------------
// Fake Member Repo
// ------------------------

// FakeMemberRepo is an in-memory Repository. Reads and writes go against the
// maps so multi-step engine tests can run end to end; individual methods can
// still be overridden through the Func fields.
type FakeMemberRepo struct {
	trace []string

	Members           map[uuid.UUID]*memberdb.Member
	Memberships       map[uuid.UUID]*memberdb.Membership
	MemberChanges     map[uuid.UUID]*memberdb.MemberChange
	MembershipChanges map[uuid.UUID]*memberdb.MembershipChange

	CreateMemberFunc           func(ctx context.Context, db bun.IDB, member *memberdb.Member) error
	UpdateMemberFunc           func(ctx context.Context, db bun.IDB, member *memberdb.Member) error
	CreateMembershipFunc       func(ctx context.Context, db bun.IDB, membership *memberdb.Membership) error
	UpdateMembershipFunc       func(ctx context.Context, db bun.IDB, membership *memberdb.Membership) error
	CreateMemberChangeFunc     func(ctx context.Context, db bun.IDB, change *memberdb.MemberChange) error
	CreateMembershipChangeFunc func(ctx context.Context, db bun.IDB, change *memberdb.MembershipChange) error
}

func NewFakeMemberRepo() *FakeMemberRepo {
	return &FakeMemberRepo{
		trace:             []string{},
		Members:           map[uuid.UUID]*memberdb.Member{},
		Memberships:       map[uuid.UUID]*memberdb.Membership{},
		MemberChanges:     map[uuid.UUID]*memberdb.MemberChange{},
		MembershipChanges: map[uuid.UUID]*memberdb.MembershipChange{},
	}
}

func (f *FakeMemberRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeMemberRepo) GetMemberByUUID(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*memberdb.Member, error) {
	f.record("GetMemberByUUID")
	if m, ok := f.Members[memberUUID]; ok {
		return m, nil
	}
	return nil, memberdb.ErrNotFound
}

func (f *FakeMemberRepo) ListMembers(ctx context.Context, db bun.IDB) ([]*memberdb.Member, error) {
	f.record("ListMembers")
	out := make([]*memberdb.Member, 0, len(f.Members))
	for _, m := range f.Members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *FakeMemberRepo) CreateMember(ctx context.Context, db bun.IDB, member *memberdb.Member) error {
	f.record("CreateMember")
	if f.CreateMemberFunc != nil {
		return f.CreateMemberFunc(ctx, db, member)
	}
	f.Members[member.UUID] = member
	return nil
}

func (f *FakeMemberRepo) UpdateMember(ctx context.Context, db bun.IDB, member *memberdb.Member) error {
	f.record("UpdateMember")
	if f.UpdateMemberFunc != nil {
		return f.UpdateMemberFunc(ctx, db, member)
	}
	f.Members[member.UUID] = member
	return nil
}

func (f *FakeMemberRepo) GetMembershipByUUID(ctx context.Context, db bun.IDB, membershipUUID uuid.UUID) (*memberdb.Membership, error) {
	f.record("GetMembershipByUUID")
	if m, ok := f.Memberships[membershipUUID]; ok {
		return m, nil
	}
	return nil, memberdb.ErrNotFound
}

func (f *FakeMemberRepo) CurrentMembershipOf(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*memberdb.Membership, error) {
	f.record("CurrentMembershipOf")
	for _, m := range f.Memberships {
		if m.MemberUUID == memberUUID && m.TransferDate == nil {
			return m, nil
		}
	}
	return nil, nil
}

func (f *FakeMemberRepo) CreateMembership(ctx context.Context, db bun.IDB, membership *memberdb.Membership) error {
	f.record("CreateMembership")
	if f.CreateMembershipFunc != nil {
		return f.CreateMembershipFunc(ctx, db, membership)
	}
	f.Memberships[membership.UUID] = membership
	return nil
}

func (f *FakeMemberRepo) UpdateMembership(ctx context.Context, db bun.IDB, membership *memberdb.Membership) error {
	f.record("UpdateMembership")
	if f.UpdateMembershipFunc != nil {
		return f.UpdateMembershipFunc(ctx, db, membership)
	}
	f.Memberships[membership.UUID] = membership
	return nil
}

func (f *FakeMemberRepo) UsedMembershipLicenseNumbers(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]int, error) {
	f.record("UsedMembershipLicenseNumbers")
	var out []int
	for _, m := range f.Memberships {
		if m.ClubUUID == clubUUID && m.TransferDate == nil {
			out = append(out, m.LicenseNo)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (f *FakeMemberRepo) GetMemberChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*memberdb.MemberChange, error) {
	f.record("GetMemberChangeByUUID")
	if c, ok := f.MemberChanges[changeUUID]; ok {
		return c, nil
	}
	return nil, memberdb.ErrNotFound
}

func (f *FakeMemberRepo) CreateMemberChange(ctx context.Context, db bun.IDB, change *memberdb.MemberChange) error {
	f.record("CreateMemberChange")
	if f.CreateMemberChangeFunc != nil {
		return f.CreateMemberChangeFunc(ctx, db, change)
	}
	f.MemberChanges[change.UUID] = change
	return nil
}

func (f *FakeMemberRepo) UpdateMemberChange(ctx context.Context, db bun.IDB, change *memberdb.MemberChange) error {
	f.record("UpdateMemberChange")
	f.MemberChanges[change.UUID] = change
	return nil
}

func (f *FakeMemberRepo) PendingMemberChangesUpTo(ctx context.Context, db bun.IDB, memberUUID uuid.UUID, createdAt time.Time) ([]*memberdb.MemberChange, error) {
	f.record("PendingMemberChangesUpTo")
	var out []*memberdb.MemberChange
	for _, c := range f.MemberChanges {
		if c.MemberUUID != nil && *c.MemberUUID == memberUUID &&
			c.Status == memberdb.ChangeStatusPending && !c.CreatedAt.After(createdAt) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeMemberRepo) GetMembershipChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*memberdb.MembershipChange, error) {
	f.record("GetMembershipChangeByUUID")
	if c, ok := f.MembershipChanges[changeUUID]; ok {
		return c, nil
	}
	return nil, memberdb.ErrNotFound
}

func (f *FakeMemberRepo) CurrentMembershipChangeOf(ctx context.Context, db bun.IDB, memberChangeUUID uuid.UUID) (*memberdb.MembershipChange, error) {
	f.record("CurrentMembershipChangeOf")
	for _, c := range f.MembershipChanges {
		if c.MemberChangeUUID != nil && *c.MemberChangeUUID == memberChangeUUID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *FakeMemberRepo) CreateMembershipChange(ctx context.Context, db bun.IDB, change *memberdb.MembershipChange) error {
	f.record("CreateMembershipChange")
	if f.CreateMembershipChangeFunc != nil {
		return f.CreateMembershipChangeFunc(ctx, db, change)
	}
	f.MembershipChanges[change.UUID] = change
	return nil
}

func (f *FakeMemberRepo) UpdateMembershipChange(ctx context.Context, db bun.IDB, change *memberdb.MembershipChange) error {
	f.record("UpdateMembershipChange")
	f.MembershipChanges[change.UUID] = change
	return nil
}

// --- Accessors for assertions ---

func (f *FakeMemberRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ memberdb.Repository = (*FakeMemberRepo)(nil)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	Clubs map[uuid.UUID]*clubdb.Club
}

func NewFakeClubRepo() *FakeClubRepo {
	return &FakeClubRepo{Clubs: map[uuid.UUID]*clubdb.Club{}}
}

func (f *FakeClubRepo) GetByUUID(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*clubdb.Club, error) {
	if c, ok := f.Clubs[clubUUID]; ok {
		return c, nil
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) GetByLicenseNo(ctx context.Context, db bun.IDB, licenseNo int) (*clubdb.Club, error) {
	for _, c := range f.Clubs {
		if c.LicenseNo == licenseNo {
			return c, nil
		}
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) List(ctx context.Context, db bun.IDB) ([]*clubdb.Club, error) {
	out := make([]*clubdb.Club, 0, len(f.Clubs))
	for _, c := range f.Clubs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LicenseNo < out[j].LicenseNo })
	return out, nil
}

func (f *FakeClubRepo) Create(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.Clubs[club.UUID] = club
	return nil
}

func (f *FakeClubRepo) Update(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.Clubs[club.UUID] = club
	return nil
}

func (f *FakeClubRepo) UsedLicenseNumbers(ctx context.Context, db bun.IDB) ([]int, error) {
	var out []int
	for _, c := range f.Clubs {
		out = append(out, c.LicenseNo)
	}
	sort.Ints(out)
	return out, nil
}

var _ clubdb.Repository = (*FakeClubRepo)(nil)
