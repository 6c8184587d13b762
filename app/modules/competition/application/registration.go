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

// RegistrationRequest carries a registration create or update: which team
// enters which discipline (and optionally division) of a competition, and the
// status the caller wants. The evaluator may force the status to Draft.
type RegistrationRequest struct {
	CompetitionUUID uuid.UUID                        `json:"competition_uuid"`
	DisciplineUUID  uuid.UUID                        `json:"discipline_uuid"`
	DivisionUUID    *uuid.UUID                       `json:"division_uuid,omitempty"`
	TeamUUID        uuid.UUID                        `json:"team_uuid"`
	RequestedStatus competitiondb.RegistrationStatus `json:"requested_status"`
}

// RegistrationResult pairs the persisted registration with the evaluation
// that decided its status.
type RegistrationResult struct {
	Registration *competitiondb.CompetitionRegistration `json:"registration"`
	Evaluation   Evaluation                             `json:"evaluation"`
}

// ErrCompetitionClosed is returned when a registration targets a closed
// competition.
var ErrCompetitionClosed = errors.New("competition is closed for registrations")

// evaluationInputs is everything the evaluator needs, resolved from the store.
type evaluationInputs struct {
	discipline *competitiondb.Discipline
	division   *competitiondb.Division
	team       *competitiondb.Team
	roster     []*memberdb.Member
}

// CreateRegistration evaluates the team's eligibility and persists the
// registration with the resulting status.
func (s *CompetitionService) CreateRegistration(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RegistrationResult, error], error) {
		inputs, failure, err := s.loadEvaluationInputs(ctx, db, req)
		if err != nil || failure != nil {
			return results.FailureOrError[*RegistrationResult](failure, err)
		}

		eval := EvaluateEligibility(inputs.discipline, inputs.division, inputs.roster, req.RequestedStatus, s.now())

		registration := &competitiondb.CompetitionRegistration{
			UUID:            uuid.New(),
			CompetitionUUID: req.CompetitionUUID,
			DisciplineUUID:  req.DisciplineUUID,
			DivisionUUID:    req.DivisionUUID,
			TeamUUID:        req.TeamUUID,
			ClubUUID:        inputs.team.ClubUUID,
			Status:          eval.Status,
			CreationDate:    s.now(),
		}
		if err := s.repo.CreateRegistration(ctx, db, registration); err != nil {
			return results.OperationResult[*RegistrationResult, error]{}, err
		}
		return results.SuccessResult[*RegistrationResult, error](&RegistrationResult{
			Registration: registration,
			Evaluation:   eval,
		}), nil
	}

	result, err := withTelemetry(s, ctx, "CreateRegistration", req.TeamUUID.String(), func(ctx context.Context) (results.OperationResult[*RegistrationResult, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	created := *result.Success
	s.publishNotification(ctx, TopicRegistrationEvaluated, "CompetitionRegistration", created.Registration.UUID.String(),
		fmt.Sprintf("Registration evaluated: %s", created.Registration.Status))
	return created, nil
}

// UpdateRegistration re-evaluates an existing registration against the
// team's current roster and persists the outcome.
func (s *CompetitionService) UpdateRegistration(ctx context.Context, registrationUUID uuid.UUID, req RegistrationRequest) (*RegistrationResult, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RegistrationResult, error], error) {
		registration, err := s.repo.GetRegistrationByUUID(ctx, db, registrationUUID)
		if err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return results.FailureResult[*RegistrationResult, error](err), nil
			}
			return results.OperationResult[*RegistrationResult, error]{}, err
		}

		inputs, failure, err := s.loadEvaluationInputs(ctx, db, req)
		if err != nil || failure != nil {
			return results.FailureOrError[*RegistrationResult](failure, err)
		}

		eval := EvaluateEligibility(inputs.discipline, inputs.division, inputs.roster, req.RequestedStatus, s.now())

		registration.CompetitionUUID = req.CompetitionUUID
		registration.DisciplineUUID = req.DisciplineUUID
		registration.DivisionUUID = req.DivisionUUID
		registration.TeamUUID = req.TeamUUID
		registration.ClubUUID = inputs.team.ClubUUID
		registration.Status = eval.Status
		if err := s.repo.UpdateRegistration(ctx, db, registration); err != nil {
			return results.OperationResult[*RegistrationResult, error]{}, err
		}
		return results.SuccessResult[*RegistrationResult, error](&RegistrationResult{
			Registration: registration,
			Evaluation:   eval,
		}), nil
	}

	result, err := withTelemetry(s, ctx, "UpdateRegistration", registrationUUID.String(), func(ctx context.Context) (results.OperationResult[*RegistrationResult, error], error) {
		return runInTx(s, ctx, updateTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	updated := *result.Success
	s.publishNotification(ctx, TopicRegistrationEvaluated, "CompetitionRegistration", updated.Registration.UUID.String(),
		fmt.Sprintf("Registration evaluated: %s", updated.Registration.Status))
	return updated, nil
}

// PreviewEligibility runs the evaluator without persisting anything, so the
// form layer can surface violations before submission. It shares
// loadEvaluationInputs and EvaluateEligibility with the write paths and
// therefore cannot drift from them.
func (s *CompetitionService) PreviewEligibility(ctx context.Context, req RegistrationRequest) (*Evaluation, error) {
	result, err := withTelemetry(s, ctx, "PreviewEligibility", req.TeamUUID.String(), func(ctx context.Context) (results.OperationResult[*Evaluation, error], error) {
		inputs, failure, err := s.loadEvaluationInputs(ctx, s.db, req)
		if err != nil {
			return results.OperationResult[*Evaluation, error]{}, err
		}
		if failure != nil {
			return results.FailureResult[*Evaluation, error](failure), nil
		}

		eval := EvaluateEligibility(inputs.discipline, inputs.division, inputs.roster, req.RequestedStatus, s.now())
		return results.SuccessResult[*Evaluation, error](&eval), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// loadEvaluationInputs resolves and validates everything a registration
// evaluation needs. The middle return carries domain failures (unknown or
// mismatched references, closed competition); the last carries
// infrastructure errors.
func (s *CompetitionService) loadEvaluationInputs(ctx context.Context, db bun.IDB, req RegistrationRequest) (*evaluationInputs, error, error) {
	if !req.RequestedStatus.IsValid() {
		return nil, fmt.Errorf("unknown registration status %q", req.RequestedStatus), nil
	}

	competition, err := s.repo.GetCompetitionByUUID(ctx, db, req.CompetitionUUID)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return nil, err, nil
		}
		return nil, nil, err
	}
	if competition.Status == competitiondb.CompetitionStatusClosed {
		return nil, ErrCompetitionClosed, nil
	}

	discipline, err := s.repo.GetDisciplineByUUID(ctx, db, req.DisciplineUUID)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return nil, err, nil
		}
		return nil, nil, err
	}
	if discipline.CompetitionUUID != competition.UUID {
		return nil, fmt.Errorf("discipline %s does not belong to competition %s", discipline.UUID, competition.UUID), nil
	}

	var division *competitiondb.Division
	if req.DivisionUUID != nil {
		division, err = s.repo.GetDivisionByUUID(ctx, db, *req.DivisionUUID)
		if err != nil {
			if errors.Is(err, competitiondb.ErrNotFound) {
				return nil, err, nil
			}
			return nil, nil, err
		}
		if division.DisciplineUUID != discipline.UUID {
			return nil, fmt.Errorf("division %s does not belong to discipline %s", division.UUID, discipline.UUID), nil
		}
	}

	team, err := s.repo.GetTeamByUUID(ctx, db, req.TeamUUID)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return nil, err, nil
		}
		return nil, nil, err
	}

	roster := make([]*memberdb.Member, 0, len(team.MemberUUIDs))
	for _, memberUUID := range team.MemberUUIDs {
		member, err := s.memberRepo.GetMemberByUUID(ctx, db, memberUUID)
		if err != nil {
			if errors.Is(err, memberdb.ErrNotFound) {
				return nil, fmt.Errorf("team %s references missing member %s: %w", team.UUID, memberUUID, err), nil
			}
			return nil, nil, err
		}
		roster = append(roster, member)
	}

	return &evaluationInputs{
		discipline: discipline,
		division:   division,
		team:       team,
		roster:     roster,
	}, nil, nil
}
