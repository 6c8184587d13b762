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

// ErrChangeResolved is returned when an approve or decline targets a change
// record that is no longer pending.
var ErrChangeResolved = errors.New("member change already resolved")

// ApproveMemberChange applies a pending member change and resolves every
// older pending change for the same member along with it. Only the approved
// change writes its biographical fields to the live member (creating the
// member for a brand-new proposal) and materializes its staged membership
// change; older siblings are superseded by it and are merely stamped
// Approved with the responder, live rows untouched.
func (s *MemberService) ApproveMemberChange(ctx context.Context, responder Actor, changeUUID uuid.UUID) (*ApprovalResult, error) {
	return s.resolveMemberChange(ctx, responder, changeUUID, memberdb.ChangeStatusApproved)
}

// DeclineMemberChange declines a pending member change and every older
// pending change for the same member. Declining mutates no live rows: the
// change records and their staged membership changes are stamped Declined and
// the proposal is dropped.
func (s *MemberService) DeclineMemberChange(ctx context.Context, responder Actor, changeUUID uuid.UUID) (*ApprovalResult, error) {
	return s.resolveMemberChange(ctx, responder, changeUUID, memberdb.ChangeStatusDeclined)
}

func (s *MemberService) resolveMemberChange(ctx context.Context, responder Actor, changeUUID uuid.UUID, resolution memberdb.ChangeStatus) (*ApprovalResult, error) {
	operation := "ApproveMemberChange"
	topic := TopicChangeApproved
	text := "Member change approved"
	if resolution == memberdb.ChangeStatusDeclined {
		operation = "DeclineMemberChange"
		topic = TopicChangeDeclined
		text = "Member change declined"
	}

	resolveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ApprovalResult, error], error) {
		return s.resolveMemberChangeLogic(ctx, db, responder, changeUUID, resolution)
	}

	result, err := withTelemetry(s, ctx, operation, changeUUID.String(), func(ctx context.Context) (results.OperationResult[*ApprovalResult, error], error) {
		return runInTx(s, ctx, resolveTx)
	})
	if err != nil {
		if errors.Is(err, memberdb.ErrDuplicateLicense) {
			return nil, memberdb.ErrDuplicateLicense
		}
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	resolved := *result.Success
	s.publishNotification(ctx, topic, "MemberChange", changeUUID.String(), text)
	return resolved, nil
}

func (s *MemberService) resolveMemberChangeLogic(ctx context.Context, db bun.IDB, responder Actor, changeUUID uuid.UUID, resolution memberdb.ChangeStatus) (results.OperationResult[*ApprovalResult, error], error) {
	fail := func(err error) (results.OperationResult[*ApprovalResult, error], error) {
		return results.FailureResult[*ApprovalResult, error](err), nil
	}
	infra := func(err error) (results.OperationResult[*ApprovalResult, error], error) {
		return results.OperationResult[*ApprovalResult, error]{}, err
	}

	target, err := s.repo.GetMemberChangeByUUID(ctx, db, changeUUID)
	if err != nil {
		if errors.Is(err, memberdb.ErrNotFound) {
			return fail(err)
		}
		return infra(err)
	}
	if target.Status != memberdb.ChangeStatusPending {
		return fail(ErrChangeResolved)
	}

	// A proposal for a brand-new member has no backlog to catch up.
	queue := []*memberdb.MemberChange{target}
	if target.MemberUUID != nil {
		queue, err = s.repo.PendingMemberChangesUpTo(ctx, db, *target.MemberUUID, target.CreatedAt)
		if err != nil {
			return infra(err)
		}
	}

	// Only the target's data lands on live rows. Older siblings hold stale
	// snapshots superseded by the target, so they are resolved without being
	// applied.
	memberUUID := target.MemberUUID
	if resolution == memberdb.ChangeStatusApproved {
		applied, err := s.applyMemberChange(ctx, db, target)
		if err != nil {
			if errors.Is(err, memberdb.ErrNotFound) {
				return fail(fmt.Errorf("member change %s references a missing row: %w", target.UUID, err))
			}
			return infra(err)
		}
		memberUUID = &applied
	}

	for _, change := range queue {
		if err := s.stampChange(ctx, db, responder, change, resolution); err != nil {
			return infra(err)
		}
	}

	out := &ApprovalResult{
		ResolvedStatus: resolution,
		CascadeCount:   len(queue),
	}
	if memberUUID != nil {
		out.MemberUUID = *memberUUID
	}
	return results.SuccessResult[*ApprovalResult, error](out), nil
}

// applyMemberChange writes one approved snapshot to the live rows and returns
// the member it now belongs to.
func (s *MemberService) applyMemberChange(ctx context.Context, db bun.IDB, change *memberdb.MemberChange) (uuid.UUID, error) {
	var member *memberdb.Member
	if change.MemberUUID == nil {
		member = &memberdb.Member{UUID: uuid.New()}
		applySnapshot(member, change)
		if err := s.repo.CreateMember(ctx, db, member); err != nil {
			return uuid.Nil, err
		}
	} else {
		existing, err := s.repo.GetMemberByUUID(ctx, db, *change.MemberUUID)
		if err != nil {
			return uuid.Nil, err
		}
		member = existing
		applySnapshot(member, change)
		if err := s.repo.UpdateMember(ctx, db, member); err != nil {
			return uuid.Nil, err
		}
	}

	staged, err := s.repo.CurrentMembershipChangeOf(ctx, db, change.UUID)
	if err != nil {
		return uuid.Nil, err
	}
	if staged == nil || staged.Status != memberdb.ChangeStatusPending {
		return member.UUID, nil
	}

	if staged.MembershipUUID != nil {
		membership, err := s.repo.GetMembershipByUUID(ctx, db, *staged.MembershipUUID)
		if err != nil {
			return uuid.Nil, err
		}
		membership.ClubUUID = staged.ClubUUID
		membership.LicenseNo = staged.LicenseNo
		membership.TransferDate = staged.TransferDate
		if err := s.repo.UpdateMembership(ctx, db, membership); err != nil {
			return uuid.Nil, err
		}
	} else {
		membership := &memberdb.Membership{
			UUID:          uuid.New(),
			MemberUUID:    member.UUID,
			ClubUUID:      staged.ClubUUID,
			LicenseNo:     staged.LicenseNo,
			TransferDate:  staged.TransferDate,
			ApplicantUUID: &staged.ApplicantUUID,
		}
		if err := s.repo.CreateMembership(ctx, db, membership); err != nil {
			return uuid.Nil, err
		}
	}

	return member.UUID, nil
}

// stampChange marks a member change and its staged membership change with the
// given resolution and responder.
func (s *MemberService) stampChange(ctx context.Context, db bun.IDB, responder Actor, change *memberdb.MemberChange, resolution memberdb.ChangeStatus) error {
	staged, err := s.repo.CurrentMembershipChangeOf(ctx, db, change.UUID)
	if err != nil {
		return err
	}
	if staged != nil && staged.Status == memberdb.ChangeStatusPending {
		staged.Status = resolution
		staged.ResponderUUID = &responder.UserUUID
		if err := s.repo.UpdateMembershipChange(ctx, db, staged); err != nil {
			return err
		}
	}

	change.Status = resolution
	change.ResponderUUID = &responder.UserUUID
	return s.repo.UpdateMemberChange(ctx, db, change)
}

// applySnapshot copies the snapshot's biographical fields and reference sets
// onto the live member row.
func applySnapshot(member *memberdb.Member, change *memberdb.MemberChange) {
	member.PhotoURL = change.PhotoURL
	member.Name = change.Name
	member.Surname = change.Surname
	member.HouseNumber = change.HouseNumber
	member.Street = change.Street
	member.City = change.City
	member.ZipCode = change.ZipCode
	member.DateOfBirth = change.DateOfBirth
	member.Nationality = change.Nationality
	member.AffiliationYear = change.AffiliationYear
	member.AccountUUID = change.AccountUUID
	member.Roles = append([]string(nil), change.Roles...)
	member.Exams = append([]string(nil), change.Exams...)
	member.JSQualifications = append([]string(nil), change.JSQualifications...)
}
