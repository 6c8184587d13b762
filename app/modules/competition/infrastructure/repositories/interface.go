package competitiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for team, competition, discipline, division
// and registration persistence.
type Repository interface {
	// GetTeamByUUID retrieves a team.
	GetTeamByUUID(ctx context.Context, db bun.IDB, teamUUID uuid.UUID) (*Team, error)

	// ListTeamsByClub retrieves a club's teams ordered by name.
	ListTeamsByClub(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]*Team, error)

	// CreateTeam inserts a new team.
	CreateTeam(ctx context.Context, db bun.IDB, team *Team) error

	// UpdateTeam persists changes to an existing team.
	UpdateTeam(ctx context.Context, db bun.IDB, team *Team) error

	// GetCompetitionByUUID retrieves a competition.
	GetCompetitionByUUID(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) (*Competition, error)

	// ListCompetitions retrieves all competitions ordered by due date.
	ListCompetitions(ctx context.Context, db bun.IDB) ([]*Competition, error)

	// CreateCompetition inserts a new competition.
	CreateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error

	// UpdateCompetition persists changes to an existing competition.
	UpdateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error

	// GetDisciplineByUUID retrieves a discipline.
	GetDisciplineByUUID(ctx context.Context, db bun.IDB, disciplineUUID uuid.UUID) (*Discipline, error)

	// ListDisciplines retrieves a competition's disciplines ordered by name.
	ListDisciplines(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) ([]*Discipline, error)

	// CreateDiscipline inserts a new discipline.
	CreateDiscipline(ctx context.Context, db bun.IDB, discipline *Discipline) error

	// GetDivisionByUUID retrieves a division with its year rules loaded.
	GetDivisionByUUID(ctx context.Context, db bun.IDB, divisionUUID uuid.UUID) (*Division, error)

	// ListDivisions retrieves a discipline's divisions with year rules loaded.
	ListDivisions(ctx context.Context, db bun.IDB, disciplineUUID uuid.UUID) ([]*Division, error)

	// CreateDivision inserts a new division.
	CreateDivision(ctx context.Context, db bun.IDB, division *Division) error

	// CreateYearRule inserts a new year rule for a division.
	CreateYearRule(ctx context.Context, db bun.IDB, rule *YearRule) error

	// GetRegistrationByUUID retrieves a registration.
	GetRegistrationByUUID(ctx context.Context, db bun.IDB, registrationUUID uuid.UUID) (*CompetitionRegistration, error)

	// ListRegistrations retrieves a competition's registrations ordered by
	// creation date.
	ListRegistrations(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) ([]*CompetitionRegistration, error)

	// CreateRegistration inserts a new registration.
	CreateRegistration(ctx context.Context, db bun.IDB, registration *CompetitionRegistration) error

	// UpdateRegistration persists changes to an existing registration.
	UpdateRegistration(ctx context.Context, db bun.IDB, registration *CompetitionRegistration) error
}
