package competitionservice

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondb "github.com/fstb-swiss/fstb-admin/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
)

// ------------------------
// Fake Competition Repo
// ------------------------

// FakeCompetitionRepo is an in-memory Repository backed by maps.
type FakeCompetitionRepo struct {
	trace []string

	Teams         map[uuid.UUID]*competitiondb.Team
	Competitions  map[uuid.UUID]*competitiondb.Competition
	Disciplines   map[uuid.UUID]*competitiondb.Discipline
	Divisions     map[uuid.UUID]*competitiondb.Division
	Registrations map[uuid.UUID]*competitiondb.CompetitionRegistration
}

func NewFakeCompetitionRepo() *FakeCompetitionRepo {
	return &FakeCompetitionRepo{
		trace:         []string{},
		Teams:         map[uuid.UUID]*competitiondb.Team{},
		Competitions:  map[uuid.UUID]*competitiondb.Competition{},
		Disciplines:   map[uuid.UUID]*competitiondb.Discipline{},
		Divisions:     map[uuid.UUID]*competitiondb.Division{},
		Registrations: map[uuid.UUID]*competitiondb.CompetitionRegistration{},
	}
}

func (f *FakeCompetitionRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeCompetitionRepo) GetTeamByUUID(ctx context.Context, db bun.IDB, teamUUID uuid.UUID) (*competitiondb.Team, error) {
	f.record("GetTeamByUUID")
	if t, ok := f.Teams[teamUUID]; ok {
		return t, nil
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) ListTeamsByClub(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]*competitiondb.Team, error) {
	f.record("ListTeamsByClub")
	var out []*competitiondb.Team
	for _, t := range f.Teams {
		if t.ClubUUID == clubUUID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeCompetitionRepo) CreateTeam(ctx context.Context, db bun.IDB, team *competitiondb.Team) error {
	f.record("CreateTeam")
	f.Teams[team.UUID] = team
	return nil
}

func (f *FakeCompetitionRepo) UpdateTeam(ctx context.Context, db bun.IDB, team *competitiondb.Team) error {
	f.record("UpdateTeam")
	if _, ok := f.Teams[team.UUID]; !ok {
		return competitiondb.ErrNotFound
	}
	f.Teams[team.UUID] = team
	return nil
}

func (f *FakeCompetitionRepo) GetCompetitionByUUID(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) (*competitiondb.Competition, error) {
	f.record("GetCompetitionByUUID")
	if c, ok := f.Competitions[competitionUUID]; ok {
		return c, nil
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) ListCompetitions(ctx context.Context, db bun.IDB) ([]*competitiondb.Competition, error) {
	f.record("ListCompetitions")
	out := make([]*competitiondb.Competition, 0, len(f.Competitions))
	for _, c := range f.Competitions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *FakeCompetitionRepo) CreateCompetition(ctx context.Context, db bun.IDB, competition *competitiondb.Competition) error {
	f.record("CreateCompetition")
	f.Competitions[competition.UUID] = competition
	return nil
}

func (f *FakeCompetitionRepo) UpdateCompetition(ctx context.Context, db bun.IDB, competition *competitiondb.Competition) error {
	f.record("UpdateCompetition")
	if _, ok := f.Competitions[competition.UUID]; !ok {
		return competitiondb.ErrNotFound
	}
	f.Competitions[competition.UUID] = competition
	return nil
}

func (f *FakeCompetitionRepo) GetDisciplineByUUID(ctx context.Context, db bun.IDB, disciplineUUID uuid.UUID) (*competitiondb.Discipline, error) {
	f.record("GetDisciplineByUUID")
	if d, ok := f.Disciplines[disciplineUUID]; ok {
		return d, nil
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) ListDisciplines(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) ([]*competitiondb.Discipline, error) {
	f.record("ListDisciplines")
	var out []*competitiondb.Discipline
	for _, d := range f.Disciplines {
		if d.CompetitionUUID == competitionUUID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeCompetitionRepo) CreateDiscipline(ctx context.Context, db bun.IDB, discipline *competitiondb.Discipline) error {
	f.record("CreateDiscipline")
	f.Disciplines[discipline.UUID] = discipline
	return nil
}

func (f *FakeCompetitionRepo) GetDivisionByUUID(ctx context.Context, db bun.IDB, divisionUUID uuid.UUID) (*competitiondb.Division, error) {
	f.record("GetDivisionByUUID")
	if d, ok := f.Divisions[divisionUUID]; ok {
		return d, nil
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) ListDivisions(ctx context.Context, db bun.IDB, disciplineUUID uuid.UUID) ([]*competitiondb.Division, error) {
	f.record("ListDivisions")
	var out []*competitiondb.Division
	for _, d := range f.Divisions {
		if d.DisciplineUUID == disciplineUUID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeCompetitionRepo) CreateDivision(ctx context.Context, db bun.IDB, division *competitiondb.Division) error {
	f.record("CreateDivision")
	f.Divisions[division.UUID] = division
	return nil
}

func (f *FakeCompetitionRepo) CreateYearRule(ctx context.Context, db bun.IDB, rule *competitiondb.YearRule) error {
	f.record("CreateYearRule")
	division, ok := f.Divisions[rule.DivisionUUID]
	if !ok {
		return competitiondb.ErrNotFound
	}
	division.YearRules = append(division.YearRules, rule)
	return nil
}

func (f *FakeCompetitionRepo) GetRegistrationByUUID(ctx context.Context, db bun.IDB, registrationUUID uuid.UUID) (*competitiondb.CompetitionRegistration, error) {
	f.record("GetRegistrationByUUID")
	if r, ok := f.Registrations[registrationUUID]; ok {
		return r, nil
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) ListRegistrations(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) ([]*competitiondb.CompetitionRegistration, error) {
	f.record("ListRegistrations")
	var out []*competitiondb.CompetitionRegistration
	for _, r := range f.Registrations {
		if r.CompetitionUUID == competitionUUID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationDate.Before(out[j].CreationDate) })
	return out, nil
}

func (f *FakeCompetitionRepo) CreateRegistration(ctx context.Context, db bun.IDB, registration *competitiondb.CompetitionRegistration) error {
	f.record("CreateRegistration")
	f.Registrations[registration.UUID] = registration
	return nil
}

func (f *FakeCompetitionRepo) UpdateRegistration(ctx context.Context, db bun.IDB, registration *competitiondb.CompetitionRegistration) error {
	f.record("UpdateRegistration")
	if _, ok := f.Registrations[registration.UUID]; !ok {
		return competitiondb.ErrNotFound
	}
	f.Registrations[registration.UUID] = registration
	return nil
}

// --- Accessors for assertions ---

func (f *FakeCompetitionRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ competitiondb.Repository = (*FakeCompetitionRepo)(nil)

// ------------------------
// Fake Member Repo (roster lookups only)
// ------------------------

type FakeRosterRepo struct {
	Members map[uuid.UUID]*memberdb.Member
}

func NewFakeRosterRepo() *FakeRosterRepo {
	return &FakeRosterRepo{Members: map[uuid.UUID]*memberdb.Member{}}
}

func (f *FakeRosterRepo) GetMemberByUUID(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*memberdb.Member, error) {
	if m, ok := f.Members[memberUUID]; ok {
		return m, nil
	}
	return nil, memberdb.ErrNotFound
}

func (f *FakeRosterRepo) ListMembers(ctx context.Context, db bun.IDB) ([]*memberdb.Member, error) {
	return nil, nil
}

func (f *FakeRosterRepo) CreateMember(ctx context.Context, db bun.IDB, member *memberdb.Member) error {
	f.Members[member.UUID] = member
	return nil
}

func (f *FakeRosterRepo) UpdateMember(ctx context.Context, db bun.IDB, member *memberdb.Member) error {
	f.Members[member.UUID] = member
	return nil
}

func (f *FakeRosterRepo) GetMembershipByUUID(ctx context.Context, db bun.IDB, membershipUUID uuid.UUID) (*memberdb.Membership, error) {
	return nil, memberdb.ErrNotFound
}

func (f *FakeRosterRepo) CurrentMembershipOf(ctx context.Context, db bun.IDB, memberUUID uuid.UUID) (*memberdb.Membership, error) {
	return nil, nil
}

func (f *FakeRosterRepo) CreateMembership(ctx context.Context, db bun.IDB, membership *memberdb.Membership) error {
	return nil
}

func (f *FakeRosterRepo) UpdateMembership(ctx context.Context, db bun.IDB, membership *memberdb.Membership) error {
	return nil
}

func (f *FakeRosterRepo) UsedMembershipLicenseNumbers(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]int, error) {
	return nil, nil
}

func (f *FakeRosterRepo) GetMemberChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*memberdb.MemberChange, error) {
	return nil, memberdb.ErrNotFound
}

func (f *FakeRosterRepo) CreateMemberChange(ctx context.Context, db bun.IDB, change *memberdb.MemberChange) error {
	return nil
}

func (f *FakeRosterRepo) UpdateMemberChange(ctx context.Context, db bun.IDB, change *memberdb.MemberChange) error {
	return nil
}

func (f *FakeRosterRepo) PendingMemberChangesUpTo(ctx context.Context, db bun.IDB, memberUUID uuid.UUID, createdAt time.Time) ([]*memberdb.MemberChange, error) {
	return nil, nil
}

func (f *FakeRosterRepo) GetMembershipChangeByUUID(ctx context.Context, db bun.IDB, changeUUID uuid.UUID) (*memberdb.MembershipChange, error) {
	return nil, memberdb.ErrNotFound
}

func (f *FakeRosterRepo) CurrentMembershipChangeOf(ctx context.Context, db bun.IDB, memberChangeUUID uuid.UUID) (*memberdb.MembershipChange, error) {
	return nil, nil
}

func (f *FakeRosterRepo) CreateMembershipChange(ctx context.Context, db bun.IDB, change *memberdb.MembershipChange) error {
	return nil
}

func (f *FakeRosterRepo) UpdateMembershipChange(ctx context.Context, db bun.IDB, change *memberdb.MembershipChange) error {
	return nil
}

var _ memberdb.Repository = (*FakeRosterRepo)(nil)
