package competitionservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondb "github.com/fstb-swiss/fstb-admin/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// GetTeam retrieves a team by UUID.
func (s *CompetitionService) GetTeam(ctx context.Context, teamUUID uuid.UUID) (*competitiondb.Team, error) {
	result, err := withTelemetry(s, ctx, "GetTeam", teamUUID.String(), func(ctx context.Context) (results.OperationResult[*competitiondb.Team, error], error) {
		team, err := s.repo.GetTeamByUUID(ctx, s.db, teamUUID)
		if err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return results.FailureResult[*competitiondb.Team, error](err), nil
			}
			return results.OperationResult[*competitiondb.Team, error]{}, err
		}
		return results.SuccessResult[*competitiondb.Team, error](team), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// ListTeams returns a club's teams.
func (s *CompetitionService) ListTeams(ctx context.Context, clubUUID uuid.UUID) ([]*competitiondb.Team, error) {
	result, err := withTelemetry(s, ctx, "ListTeams", clubUUID.String(), func(ctx context.Context) (results.OperationResult[[]*competitiondb.Team, error], error) {
		teams, err := s.repo.ListTeamsByClub(ctx, s.db, clubUUID)
		if err != nil {
			return results.OperationResult[[]*competitiondb.Team, error]{}, err
		}
		return results.SuccessResult[[]*competitiondb.Team, error](teams), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// SaveTeam creates or updates a team. Every roster member must exist.
func (s *CompetitionService) SaveTeam(ctx context.Context, team *competitiondb.Team) (*competitiondb.Team, error) {
	creating := team.UUID == uuid.Nil

	saveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*competitiondb.Team, error], error) {
		if team.Name == "" {
			return results.FailureResult[*competitiondb.Team, error](errors.New("team name is required")), nil
		}
		for _, memberUUID := range team.MemberUUIDs {
			if _, err := s.memberRepo.GetMemberByUUID(ctx, db, memberUUID); err != nil {
				if errors.Is(err, memberdb.ErrNotFound) {
					return results.FailureResult[*competitiondb.Team, error](fmt.Errorf("roster references missing member %s: %w", memberUUID, err)), nil
				}
				return results.OperationResult[*competitiondb.Team, error]{}, err
			}
		}

		if creating {
			team.UUID = uuid.New()
			if err := s.repo.CreateTeam(ctx, db, team); err != nil {
				return results.OperationResult[*competitiondb.Team, error]{}, err
			}
		} else {
			if err := s.repo.UpdateTeam(ctx, db, team); err != nil {
				if errors.Is(err, competitiondb.ErrNotFound) {
					return results.FailureResult[*competitiondb.Team, error](err), nil
				}
				return results.OperationResult[*competitiondb.Team, error]{}, err
			}
		}
		return results.SuccessResult[*competitiondb.Team, error](team), nil
	}

	result, err := withTelemetry(s, ctx, "SaveTeam", team.Name, func(ctx context.Context) (results.OperationResult[*competitiondb.Team, error], error) {
		return runInTx(s, ctx, saveTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	saved := *result.Success
	s.publishNotification(ctx, TopicTeamSaved, "Team", saved.UUID.String(), "Team saved")
	return saved, nil
}

// GetCompetition retrieves a competition by UUID.
func (s *CompetitionService) GetCompetition(ctx context.Context, competitionUUID uuid.UUID) (*competitiondb.Competition, error) {
	result, err := withTelemetry(s, ctx, "GetCompetition", competitionUUID.String(), func(ctx context.Context) (results.OperationResult[*competitiondb.Competition, error], error) {
		competition, err := s.repo.GetCompetitionByUUID(ctx, s.db, competitionUUID)
		if err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return results.FailureResult[*competitiondb.Competition, error](err), nil
			}
			return results.OperationResult[*competitiondb.Competition, error]{}, err
		}
		return results.SuccessResult[*competitiondb.Competition, error](competition), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// ListCompetitions returns all competitions ordered by due date.
func (s *CompetitionService) ListCompetitions(ctx context.Context) ([]*competitiondb.Competition, error) {
	result, err := withTelemetry(s, ctx, "ListCompetitions", "", func(ctx context.Context) (results.OperationResult[[]*competitiondb.Competition, error], error) {
		competitions, err := s.repo.ListCompetitions(ctx, s.db)
		if err != nil {
			return results.OperationResult[[]*competitiondb.Competition, error]{}, err
		}
		return results.SuccessResult[[]*competitiondb.Competition, error](competitions), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// SaveCompetition creates or updates a competition.
func (s *CompetitionService) SaveCompetition(ctx context.Context, competition *competitiondb.Competition) (*competitiondb.Competition, error) {
	creating := competition.UUID == uuid.Nil

	saveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*competitiondb.Competition, error], error) {
		if competition.Name == "" {
			return results.FailureResult[*competitiondb.Competition, error](errors.New("competition name is required")), nil
		}
		if competition.Status == "" {
			competition.Status = competitiondb.CompetitionStatusOpen
		}

		if creating {
			competition.UUID = uuid.New()
			competition.CreationDate = s.now()
			if err := s.repo.CreateCompetition(ctx, db, competition); err != nil {
				return results.OperationResult[*competitiondb.Competition, error]{}, err
			}
		} else {
			if err := s.repo.UpdateCompetition(ctx, db, competition); err != nil {
				if errors.Is(err, competitiondb.ErrNotFound) {
					return results.FailureResult[*competitiondb.Competition, error](err), nil
				}
				return results.OperationResult[*competitiondb.Competition, error]{}, err
			}
		}
		return results.SuccessResult[*competitiondb.Competition, error](competition), nil
	}

	result, err := withTelemetry(s, ctx, "SaveCompetition", competition.Name, func(ctx context.Context) (results.OperationResult[*competitiondb.Competition, error], error) {
		return runInTx(s, ctx, saveTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	saved := *result.Success
	s.publishNotification(ctx, TopicCompetitionSaved, "Competition", saved.UUID.String(), "Competition saved")
	return saved, nil
}

// CreateDiscipline adds a discipline to a competition.
func (s *CompetitionService) CreateDiscipline(ctx context.Context, discipline *competitiondb.Discipline) (*competitiondb.Discipline, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*competitiondb.Discipline, error], error) {
		if _, err := s.repo.GetCompetitionByUUID(ctx, db, discipline.CompetitionUUID); err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return results.FailureResult[*competitiondb.Discipline, error](err), nil
			}
			return results.OperationResult[*competitiondb.Discipline, error]{}, err
		}
		if discipline.MinMembers != nil && discipline.MaxMembers != nil && *discipline.MinMembers > *discipline.MaxMembers {
			return results.FailureResult[*competitiondb.Discipline, error](errors.New("discipline min roster size exceeds max")), nil
		}
		if discipline.UUID == uuid.Nil {
			discipline.UUID = uuid.New()
		}
		if err := s.repo.CreateDiscipline(ctx, db, discipline); err != nil {
			return results.OperationResult[*competitiondb.Discipline, error]{}, err
		}
		return results.SuccessResult[*competitiondb.Discipline, error](discipline), nil
	}

	result, err := withTelemetry(s, ctx, "CreateDiscipline", discipline.Name, func(ctx context.Context) (results.OperationResult[*competitiondb.Discipline, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// CreateDivision adds a division and its year rules to a discipline. Rules
// with an unknown condition are rejected up front rather than silently
// ignored at evaluation time.
func (s *CompetitionService) CreateDivision(ctx context.Context, division *competitiondb.Division, rules []*competitiondb.YearRule) (*competitiondb.Division, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*competitiondb.Division, error], error) {
		if _, err := s.repo.GetDisciplineByUUID(ctx, db, division.DisciplineUUID); err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return results.FailureResult[*competitiondb.Division, error](err), nil
			}
			return results.OperationResult[*competitiondb.Division, error]{}, err
		}
		for _, rule := range rules {
			if !rule.Condition.IsValid() {
				return results.FailureResult[*competitiondb.Division, error](fmt.Errorf("unknown rule condition %q", rule.Condition)), nil
			}
		}

		if division.UUID == uuid.Nil {
			division.UUID = uuid.New()
		}
		if err := s.repo.CreateDivision(ctx, db, division); err != nil {
			return results.OperationResult[*competitiondb.Division, error]{}, err
		}
		for _, rule := range rules {
			if rule.UUID == uuid.Nil {
				rule.UUID = uuid.New()
			}
			rule.DivisionUUID = division.UUID
			if rule.Option == "" {
				rule.Option = competitiondb.RuleOptionYear
			}
			if err := s.repo.CreateYearRule(ctx, db, rule); err != nil {
				return results.OperationResult[*competitiondb.Division, error]{}, err
			}
		}
		division.YearRules = rules
		return results.SuccessResult[*competitiondb.Division, error](division), nil
	}

	result, err := withTelemetry(s, ctx, "CreateDivision", division.Name, func(ctx context.Context) (results.OperationResult[*competitiondb.Division, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}
