package competitiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a team, competition, discipline, division or
// registration is not found.
var ErrNotFound = errors.New("record not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new competition repository.
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

// GetTeamByUUID retrieves a team.
func (r *Impl) GetTeamByUUID(ctx context.Context, db bun.IDB, teamUUID uuid.UUID) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Where("uuid = ?", teamUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team by UUID: %w", err)
	}
	return team, nil
}

// ListTeamsByClub retrieves a club's teams ordered by name.
func (r *Impl) ListTeamsByClub(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) ([]*Team, error) {
	db = r.resolveDB(db)
	var teams []*Team
	err := db.NewSelect().
		Model(&teams).
		Where("club_uuid = ?", clubUUID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// CreateTeam inserts a new team.
func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(team).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// UpdateTeam persists changes to an existing team.
func (r *Impl) UpdateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(team).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCompetitionByUUID retrieves a competition.
func (r *Impl) GetCompetitionByUUID(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) (*Competition, error) {
	db = r.resolveDB(db)
	competition := new(Competition)
	err := db.NewSelect().
		Model(competition).
		Where("uuid = ?", competitionUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition by UUID: %w", err)
	}
	return competition, nil
}

// ListCompetitions retrieves all competitions ordered by due date.
func (r *Impl) ListCompetitions(ctx context.Context, db bun.IDB) ([]*Competition, error) {
	db = r.resolveDB(db)
	var competitions []*Competition
	err := db.NewSelect().
		Model(&competitions).
		Order("due_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return competitions, nil
}

// CreateCompetition inserts a new competition.
func (r *Impl) CreateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(competition).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

// UpdateCompetition persists changes to an existing competition.
func (r *Impl) UpdateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(competition).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update competition: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDisciplineByUUID retrieves a discipline.
func (r *Impl) GetDisciplineByUUID(ctx context.Context, db bun.IDB, disciplineUUID uuid.UUID) (*Discipline, error) {
	db = r.resolveDB(db)
	discipline := new(Discipline)
	err := db.NewSelect().
		Model(discipline).
		Where("d.uuid = ?", disciplineUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get discipline by UUID: %w", err)
	}
	return discipline, nil
}

// ListDisciplines retrieves a competition's disciplines ordered by name.
func (r *Impl) ListDisciplines(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) ([]*Discipline, error) {
	db = r.resolveDB(db)
	var disciplines []*Discipline
	err := db.NewSelect().
		Model(&disciplines).
		Where("competition_uuid = ?", competitionUUID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplines: %w", err)
	}
	return disciplines, nil
}

// CreateDiscipline inserts a new discipline.
func (r *Impl) CreateDiscipline(ctx context.Context, db bun.IDB, discipline *Discipline) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(discipline).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create discipline: %w", err)
	}
	return nil
}

// GetDivisionByUUID retrieves a division with its year rules loaded.
func (r *Impl) GetDivisionByUUID(ctx context.Context, db bun.IDB, divisionUUID uuid.UUID) (*Division, error) {
	db = r.resolveDB(db)
	division := new(Division)
	err := db.NewSelect().
		Model(division).
		Relation("YearRules").
		Where("dv.uuid = ?", divisionUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get division by UUID: %w", err)
	}
	return division, nil
}

// ListDivisions retrieves a discipline's divisions with year rules loaded.
func (r *Impl) ListDivisions(ctx context.Context, db bun.IDB, disciplineUUID uuid.UUID) ([]*Division, error) {
	db = r.resolveDB(db)
	var divisions []*Division
	err := db.NewSelect().
		Model(&divisions).
		Relation("YearRules").
		Where("dv.discipline_uuid = ?", disciplineUUID).
		Order("dv.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	return divisions, nil
}

// CreateDivision inserts a new division.
func (r *Impl) CreateDivision(ctx context.Context, db bun.IDB, division *Division) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(division).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create division: %w", err)
	}
	return nil
}

// CreateYearRule inserts a new year rule for a division.
func (r *Impl) CreateYearRule(ctx context.Context, db bun.IDB, rule *YearRule) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(rule).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create year rule: %w", err)
	}
	return nil
}

// GetRegistrationByUUID retrieves a registration.
func (r *Impl) GetRegistrationByUUID(ctx context.Context, db bun.IDB, registrationUUID uuid.UUID) (*CompetitionRegistration, error) {
	db = r.resolveDB(db)
	registration := new(CompetitionRegistration)
	err := db.NewSelect().
		Model(registration).
		Where("uuid = ?", registrationUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registration by UUID: %w", err)
	}
	return registration, nil
}

// ListRegistrations retrieves a competition's registrations ordered by
// creation date.
func (r *Impl) ListRegistrations(ctx context.Context, db bun.IDB, competitionUUID uuid.UUID) ([]*CompetitionRegistration, error) {
	db = r.resolveDB(db)
	var registrations []*CompetitionRegistration
	err := db.NewSelect().
		Model(&registrations).
		Where("competition_uuid = ?", competitionUUID).
		Order("creation_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}

// CreateRegistration inserts a new registration.
func (r *Impl) CreateRegistration(ctx context.Context, db bun.IDB, registration *CompetitionRegistration) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().Model(registration).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

// UpdateRegistration persists changes to an existing registration.
func (r *Impl) UpdateRegistration(ctx context.Context, db bun.IDB, registration *CompetitionRegistration) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(registration).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}
