package memberservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// ErrNotFederationAdmin is returned when a direct member edit is attempted by
// a non-admin actor. Club admins go through change records instead.
var ErrNotFederationAdmin = errors.New("operation requires a federation admin")

// GetMember retrieves a member by UUID.
func (s *MemberService) GetMember(ctx context.Context, memberUUID uuid.UUID) (*memberdb.Member, error) {
	result, err := withTelemetry(s, ctx, "GetMember", memberUUID.String(), func(ctx context.Context) (results.OperationResult[*memberdb.Member, error], error) {
		member, err := s.repo.GetMemberByUUID(ctx, s.db, memberUUID)
		if err != nil {
			if errors.Is(err, memberdb.ErrNotFound) {
				return results.FailureResult[*memberdb.Member, error](err), nil
			}
			return results.OperationResult[*memberdb.Member, error]{}, err
		}
		return results.SuccessResult[*memberdb.Member, error](member), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// ListMembers returns all members ordered by surname, name.
func (s *MemberService) ListMembers(ctx context.Context) ([]*memberdb.Member, error) {
	result, err := withTelemetry(s, ctx, "ListMembers", "", func(ctx context.Context) (results.OperationResult[[]*memberdb.Member, error], error) {
		members, err := s.repo.ListMembers(ctx, s.db)
		if err != nil {
			return results.OperationResult[[]*memberdb.Member, error]{}, err
		}
		return results.SuccessResult[[]*memberdb.Member, error](members), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// GetMemberChange retrieves a staged member change by UUID.
func (s *MemberService) GetMemberChange(ctx context.Context, changeUUID uuid.UUID) (*memberdb.MemberChange, error) {
	result, err := withTelemetry(s, ctx, "GetMemberChange", changeUUID.String(), func(ctx context.Context) (results.OperationResult[*memberdb.MemberChange, error], error) {
		change, err := s.repo.GetMemberChangeByUUID(ctx, s.db, changeUUID)
		if err != nil {
			if errors.Is(err, memberdb.ErrNotFound) {
				return results.FailureResult[*memberdb.MemberChange, error](err), nil
			}
			return results.OperationResult[*memberdb.MemberChange, error]{}, err
		}
		return results.SuccessResult[*memberdb.MemberChange, error](change), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// CreateMember creates a live member directly. Federation admins only; club
// admins propose new members through StageMemberChange.
func (s *MemberService) CreateMember(ctx context.Context, actor Actor, member *memberdb.Member) (*memberdb.Member, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*memberdb.Member, error], error) {
		if !actor.IsFederationAdmin {
			return results.FailureResult[*memberdb.Member, error](ErrNotFederationAdmin), nil
		}
		if err := validateMemberFields(member.Name, member.Surname, member.Nationality); err != nil {
			return results.FailureResult[*memberdb.Member, error](err), nil
		}
		if member.UUID == uuid.Nil {
			member.UUID = uuid.New()
		}
		if err := s.repo.CreateMember(ctx, db, member); err != nil {
			return results.OperationResult[*memberdb.Member, error]{}, err
		}
		return results.SuccessResult[*memberdb.Member, error](member), nil
	}

	result, err := withTelemetry(s, ctx, "CreateMember", member.UUID.String(), func(ctx context.Context) (results.OperationResult[*memberdb.Member, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	created := *result.Success
	s.publishNotification(ctx, TopicMemberCreated, "Member", created.UUID.String(), "Member created")
	return created, nil
}

// UpdateMember overwrites a live member's biographical fields and reference
// sets. Federation admins only.
func (s *MemberService) UpdateMember(ctx context.Context, actor Actor, member *memberdb.Member) (*memberdb.Member, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*memberdb.Member, error], error) {
		if !actor.IsFederationAdmin {
			return results.FailureResult[*memberdb.Member, error](ErrNotFederationAdmin), nil
		}
		if err := validateMemberFields(member.Name, member.Surname, member.Nationality); err != nil {
			return results.FailureResult[*memberdb.Member, error](err), nil
		}
		if _, err := s.repo.GetMemberByUUID(ctx, db, member.UUID); err != nil {
			if errors.Is(err, memberdb.ErrNotFound) {
				return results.FailureResult[*memberdb.Member, error](err), nil
			}
			return results.OperationResult[*memberdb.Member, error]{}, err
		}
		if err := s.repo.UpdateMember(ctx, db, member); err != nil {
			return results.OperationResult[*memberdb.Member, error]{}, err
		}
		return results.SuccessResult[*memberdb.Member, error](member), nil
	}

	result, err := withTelemetry(s, ctx, "UpdateMember", member.UUID.String(), func(ctx context.Context) (results.OperationResult[*memberdb.Member, error], error) {
		return runInTx(s, ctx, updateTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	updated := *result.Success
	s.publishNotification(ctx, TopicMemberUpdated, "Member", updated.UUID.String(), "Member updated")
	return updated, nil
}

// StageMemberChange stages a biographical change record for approval: an
// edit of an existing member when memberUUID is set, a proposal for a
// brand-new member otherwise. The membership half is staged separately
// through SaveMembership.
func (s *MemberService) StageMemberChange(ctx context.Context, actor Actor, change *memberdb.MemberChange) (*memberdb.MemberChange, error) {
	stageTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*memberdb.MemberChange, error], error) {
		if err := validateMemberFields(change.Name, change.Surname, change.Nationality); err != nil {
			return results.FailureResult[*memberdb.MemberChange, error](err), nil
		}
		if change.MemberUUID != nil {
			if _, err := s.repo.GetMemberByUUID(ctx, db, *change.MemberUUID); err != nil {
				if errors.Is(err, memberdb.ErrNotFound) {
					return results.FailureResult[*memberdb.MemberChange, error](err), nil
				}
				return results.OperationResult[*memberdb.MemberChange, error]{}, err
			}
		}
		if change.UUID == uuid.Nil {
			change.UUID = uuid.New()
		}
		change.ApplicantUUID = actor.UserUUID
		change.ResponderUUID = nil
		change.Status = memberdb.ChangeStatusPending
		change.CreatedAt = s.now()
		if err := s.repo.CreateMemberChange(ctx, db, change); err != nil {
			return results.OperationResult[*memberdb.MemberChange, error]{}, err
		}
		return results.SuccessResult[*memberdb.MemberChange, error](change), nil
	}

	result, err := withTelemetry(s, ctx, "StageMemberChange", change.UUID.String(), func(ctx context.Context) (results.OperationResult[*memberdb.MemberChange, error], error) {
		return runInTx(s, ctx, stageTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	staged := *result.Success
	s.publishNotification(ctx, TopicChangeStaged, "MemberChange", staged.UUID.String(), "Member change staged")
	return staged, nil
}

func validateMemberFields(name, surname, nationality string) error {
	if name == "" || surname == "" {
		return errors.New("member name and surname are required")
	}
	if len(nationality) != 2 {
		return fmt.Errorf("nationality %q is not an ISO 3166-1 alpha-2 code", nationality)
	}
	return nil
}
