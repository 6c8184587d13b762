package memberservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// ErrInvalidMemberRef is returned when the transition engine is called with
// an empty member reference.
var ErrInvalidMemberRef = errors.New("member reference is empty")

// SaveMembership decides and executes one of the four membership transitions
// for the given member (or member proposal), target club and license number.
//
// Federation admins mutate live rows: open, renumber, or close-and-reopen a
// membership. Club admins stage change records instead; a club transfer
// additionally snapshots the member into a new MemberChange so the proposal
// carries both halves.
//
// License-number uniqueness is validated upstream at the form layer; the
// engine deliberately does not pre-check it. The store's partial unique index
// on (club_uuid, license_no) for current memberships is the final guard and
// surfaces as memberdb.ErrDuplicateLicense.
func (s *MemberService) SaveMembership(ctx context.Context, actor Actor, ref MemberRef, clubUUID uuid.UUID, licenseNo int) (*TransitionResult, error) {
	saveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*TransitionResult, error], error) {
		return s.saveMembershipLogic(ctx, db, actor, ref, clubUUID, licenseNo)
	}

	result, err := withTelemetry(s, ctx, "SaveMembership", clubUUID.String(), func(ctx context.Context) (results.OperationResult[*TransitionResult, error], error) {
		return runInTx(s, ctx, saveTx)
	})
	if err != nil {
		// A license clash aborts the transaction; resurface it as the
		// validation failure the form layer renders.
		if errors.Is(err, memberdb.ErrDuplicateLicense) {
			return nil, memberdb.ErrDuplicateLicense
		}
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	transition := *result.Success
	switch transition.Kind {
	case TransitionTransferred:
		s.publishNotification(ctx, TopicMembershipTransferred, "Membership", transition.Membership.UUID.String(), "Membership transferred")
	case TransitionChangeStaged:
		s.publishNotification(ctx, TopicChangeStaged, "MembershipChange", transition.MembershipChange.UUID.String(), "Membership change staged")
	default:
		s.publishNotification(ctx, TopicMembershipSaved, "Membership", transition.Membership.UUID.String(), "Membership saved")
	}
	return transition, nil
}

func (s *MemberService) saveMembershipLogic(ctx context.Context, db bun.IDB, actor Actor, ref MemberRef, clubUUID uuid.UUID, licenseNo int) (results.OperationResult[*TransitionResult, error], error) {
	fail := func(err error) (results.OperationResult[*TransitionResult, error], error) {
		return results.FailureResult[*TransitionResult, error](err), nil
	}
	infra := func(err error) (results.OperationResult[*TransitionResult, error], error) {
		return results.OperationResult[*TransitionResult, error]{}, err
	}

	if ref.IsZero() {
		return fail(ErrInvalidMemberRef)
	}
	if licenseNo < 1 || licenseNo > memberdb.MaxLicenseNo {
		return fail(fmt.Errorf("membership license number %d out of range [1,%d]", licenseNo, memberdb.MaxLicenseNo))
	}
	if _, err := s.clubRepo.GetByUUID(ctx, db, clubUUID); err != nil {
		if errors.Is(err, clubdb.ErrNotFound) {
			return fail(err)
		}
		return infra(fmt.Errorf("failed to resolve target club: %w", err))
	}

	// A proposal for a brand-new member has no live membership to inspect;
	// its "current membership" is its own staged membership change.
	relatedUUID := ref.RelatedMemberUUID()
	if relatedUUID == nil {
		return s.saveForNewMemberProposal(ctx, db, actor, ref.Proposed(), clubUUID, licenseNo)
	}

	current, err := s.repo.CurrentMembershipOf(ctx, db, *relatedUUID)
	if err != nil {
		return infra(err)
	}

	switch {
	case current == nil:
		return s.openMembership(ctx, db, actor, ref, *relatedUUID, clubUUID, licenseNo)
	case current.ClubUUID == clubUUID:
		return s.renumberMembership(ctx, db, actor, ref, current, licenseNo)
	default:
		return s.transferMembership(ctx, db, actor, ref, *relatedUUID, current, clubUUID, licenseNo)
	}
}

// saveForNewMemberProposal stages or restages the membership half of a
// brand-new member proposal.
func (s *MemberService) saveForNewMemberProposal(ctx context.Context, db bun.IDB, actor Actor, proposal *memberdb.MemberChange, clubUUID uuid.UUID, licenseNo int) (results.OperationResult[*TransitionResult, error], error) {
	if actor.IsFederationAdmin {
		// A live membership cannot exist before the member does; the admin
		// resolves the proposal through approval instead.
		return results.FailureResult[*TransitionResult, error](errors.New("cannot open a live membership for an unapproved member proposal")), nil
	}

	staged, err := s.stageMembershipChange(ctx, db, actor, proposal.UUID, nil, clubUUID, licenseNo)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}
	return results.SuccessResult[*TransitionResult, error](&TransitionResult{
		Kind:             TransitionChangeStaged,
		MembershipChange: staged,
	}), nil
}

// openMembership handles a member with no current membership.
func (s *MemberService) openMembership(ctx context.Context, db bun.IDB, actor Actor, ref MemberRef, memberUUID, clubUUID uuid.UUID, licenseNo int) (results.OperationResult[*TransitionResult, error], error) {
	if actor.IsFederationAdmin {
		membership := &memberdb.Membership{
			UUID:       uuid.New(),
			MemberUUID: memberUUID,
			ClubUUID:   clubUUID,
			LicenseNo:  licenseNo,
		}
		if err := s.repo.CreateMembership(ctx, db, membership); err != nil {
			return results.OperationResult[*TransitionResult, error]{}, err
		}
		return results.SuccessResult[*TransitionResult, error](&TransitionResult{
			Kind:       TransitionCreated,
			Membership: membership,
		}), nil
	}

	owning, created, err := s.ensureOwningChange(ctx, db, actor, ref)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}
	staged, err := s.stageMembershipChange(ctx, db, actor, owning.UUID, nil, clubUUID, licenseNo)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}

	out := &TransitionResult{
		Kind:             TransitionChangeStaged,
		MembershipChange: staged,
	}
	if created {
		out.MemberChange = owning
	}
	return results.SuccessResult[*TransitionResult, error](out), nil
}

// renumberMembership handles a license change within the same club.
func (s *MemberService) renumberMembership(ctx context.Context, db bun.IDB, actor Actor, ref MemberRef, current *memberdb.Membership, licenseNo int) (results.OperationResult[*TransitionResult, error], error) {
	if actor.IsFederationAdmin {
		current.LicenseNo = licenseNo
		if err := s.repo.UpdateMembership(ctx, db, current); err != nil {
			return results.OperationResult[*TransitionResult, error]{}, err
		}
		return results.SuccessResult[*TransitionResult, error](&TransitionResult{
			Kind:       TransitionRenumbered,
			Membership: current,
		}), nil
	}

	owning, created, err := s.ensureOwningChange(ctx, db, actor, ref)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}
	membershipUUID := current.UUID
	staged, err := s.stageMembershipChange(ctx, db, actor, owning.UUID, &membershipUUID, current.ClubUUID, licenseNo)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}

	out := &TransitionResult{
		Kind:             TransitionChangeStaged,
		MembershipChange: staged,
	}
	if created {
		out.MemberChange = owning
	}
	return results.SuccessResult[*TransitionResult, error](out), nil
}

// transferMembership handles a club change. Admins close the current
// membership and open a new one; club admins close the current membership
// with themselves as applicant and stage both a member snapshot and a
// membership change for the new club.
func (s *MemberService) transferMembership(ctx context.Context, db bun.IDB, actor Actor, ref MemberRef, memberUUID uuid.UUID, current *memberdb.Membership, newClubUUID uuid.UUID, licenseNo int) (results.OperationResult[*TransitionResult, error], error) {
	transferDate := s.now()

	if actor.IsFederationAdmin {
		current.TransferDate = &transferDate
		if err := s.repo.UpdateMembership(ctx, db, current); err != nil {
			return results.OperationResult[*TransitionResult, error]{}, err
		}

		membership := &memberdb.Membership{
			UUID:       uuid.New(),
			MemberUUID: memberUUID,
			ClubUUID:   newClubUUID,
			LicenseNo:  licenseNo,
		}
		if err := s.repo.CreateMembership(ctx, db, membership); err != nil {
			return results.OperationResult[*TransitionResult, error]{}, err
		}
		return results.SuccessResult[*TransitionResult, error](&TransitionResult{
			Kind:       TransitionTransferred,
			Membership: membership,
		}), nil
	}

	current.TransferDate = &transferDate
	current.ApplicantUUID = &actor.UserUUID
	if err := s.repo.UpdateMembership(ctx, db, current); err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}

	// The member may not have a pending change record yet, and the transfer
	// proposal must carry both halves; snapshot the member unconditionally.
	snapshot, err := s.snapshotMemberChange(ctx, db, actor, ref)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}

	staged, err := s.stageMembershipChange(ctx, db, actor, snapshot.UUID, nil, newClubUUID, licenseNo)
	if err != nil {
		return results.OperationResult[*TransitionResult, error]{}, err
	}

	return results.SuccessResult[*TransitionResult, error](&TransitionResult{
		Kind:             TransitionChangeStaged,
		MembershipChange: staged,
		MemberChange:     snapshot,
	}), nil
}

// ensureOwningChange returns the member change a staged membership change
// hangs off: the proposal itself when the engine was called with one, or a
// fresh snapshot of the live member otherwise. The second return reports
// whether a snapshot was created.
func (s *MemberService) ensureOwningChange(ctx context.Context, db bun.IDB, actor Actor, ref MemberRef) (*memberdb.MemberChange, bool, error) {
	if proposal := ref.Proposed(); proposal != nil {
		return proposal, false, nil
	}

	snapshot, err := s.snapshotMemberChange(ctx, db, actor, ref)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

// snapshotMemberChange copies the referenced member's biographical fields and
// reference sets into a new pending MemberChange owned by the actor.
func (s *MemberService) snapshotMemberChange(ctx context.Context, db bun.IDB, actor Actor, ref MemberRef) (*memberdb.MemberChange, error) {
	snapshot := &memberdb.MemberChange{
		UUID:          uuid.New(),
		MemberUUID:    ref.RelatedMemberUUID(),
		ApplicantUUID: actor.UserUUID,
		Status:        memberdb.ChangeStatusPending,
		CreatedAt:     s.now(),
	}

	if live := ref.Live(); live != nil {
		snapshot.PhotoURL = live.PhotoURL
		snapshot.Name = live.Name
		snapshot.Surname = live.Surname
		snapshot.HouseNumber = live.HouseNumber
		snapshot.Street = live.Street
		snapshot.City = live.City
		snapshot.ZipCode = live.ZipCode
		snapshot.DateOfBirth = live.DateOfBirth
		snapshot.Nationality = live.Nationality
		snapshot.AffiliationYear = live.AffiliationYear
		snapshot.AccountUUID = live.AccountUUID
		snapshot.Roles = append([]string(nil), live.Roles...)
		snapshot.Exams = append([]string(nil), live.Exams...)
		snapshot.JSQualifications = append([]string(nil), live.JSQualifications...)
	} else {
		proposal := ref.Proposed()
		snapshot.PhotoURL = proposal.PhotoURL
		snapshot.Name = proposal.Name
		snapshot.Surname = proposal.Surname
		snapshot.HouseNumber = proposal.HouseNumber
		snapshot.Street = proposal.Street
		snapshot.City = proposal.City
		snapshot.ZipCode = proposal.ZipCode
		snapshot.DateOfBirth = proposal.DateOfBirth
		snapshot.Nationality = proposal.Nationality
		snapshot.AffiliationYear = proposal.AffiliationYear
		snapshot.AccountUUID = proposal.AccountUUID
		snapshot.Roles = append([]string(nil), proposal.Roles...)
		snapshot.Exams = append([]string(nil), proposal.Exams...)
		snapshot.JSQualifications = append([]string(nil), proposal.JSQualifications...)
	}

	if err := s.repo.CreateMemberChange(ctx, db, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// stageMembershipChange creates the pending membership change owned by the
// given member change, or updates it in place when the proposal already has
// one (each member change owns at most one membership change).
func (s *MemberService) stageMembershipChange(ctx context.Context, db bun.IDB, actor Actor, memberChangeUUID uuid.UUID, membershipUUID *uuid.UUID, clubUUID uuid.UUID, licenseNo int) (*memberdb.MembershipChange, error) {
	existing, err := s.repo.CurrentMembershipChangeOf(ctx, db, memberChangeUUID)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.Status == memberdb.ChangeStatusPending {
		existing.ClubUUID = clubUUID
		existing.LicenseNo = licenseNo
		existing.MembershipUUID = membershipUUID
		if err := s.repo.UpdateMembershipChange(ctx, db, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	owner := memberChangeUUID
	staged := &memberdb.MembershipChange{
		UUID:             uuid.New(),
		MembershipUUID:   membershipUUID,
		MemberChangeUUID: &owner,
		ClubUUID:         clubUUID,
		LicenseNo:        licenseNo,
		ApplicantUUID:    actor.UserUUID,
		Status:           memberdb.ChangeStatusPending,
		CreatedAt:        s.now(),
	}
	if err := s.repo.CreateMembershipChange(ctx, db, staged); err != nil {
		return nil, err
	}
	return staged, nil
}
