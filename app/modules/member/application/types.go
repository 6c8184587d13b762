package memberservice

import (
	"github.com/google/uuid"

	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
)

// Actor identifies the acting user. Authentication happens upstream; the
// service only needs the account UUID and the federation-admin flag.
type Actor struct {
	UserUUID          uuid.UUID
	IsFederationAdmin bool
}

// MemberRef is either a live member or a staged member-change proposal. The
// transition engine accepts both: federation admins act on live members, club
// admins act through change records.
type MemberRef struct {
	live     *memberdb.Member
	proposed *memberdb.MemberChange
}

// LiveMember wraps a live member.
func LiveMember(m *memberdb.Member) MemberRef {
	return MemberRef{live: m}
}

// ProposedMember wraps a staged member change.
func ProposedMember(mc *memberdb.MemberChange) MemberRef {
	return MemberRef{proposed: mc}
}

// IsLive reports whether the reference is a live member.
func (r MemberRef) IsLive() bool { return r.live != nil }

// Live returns the live member, or nil.
func (r MemberRef) Live() *memberdb.Member { return r.live }

// Proposed returns the staged member change, or nil.
func (r MemberRef) Proposed() *memberdb.MemberChange { return r.proposed }

// RelatedMemberUUID returns the UUID of the live member the reference points
// at: the member itself, or the member a proposal edits. Nil for a proposal
// of a brand-new member.
func (r MemberRef) RelatedMemberUUID() *uuid.UUID {
	if r.live != nil {
		u := r.live.UUID
		return &u
	}
	if r.proposed != nil {
		return r.proposed.MemberUUID
	}
	return nil
}

// IsZero reports whether the reference wraps nothing.
func (r MemberRef) IsZero() bool {
	return r.live == nil && r.proposed == nil
}

// TransitionKind names which of the four membership transitions applied.
type TransitionKind string

const (
	// TransitionCreated: a new current membership was opened (admin).
	TransitionCreated TransitionKind = "membership_created"
	// TransitionRenumbered: the current membership's license number changed (admin).
	TransitionRenumbered TransitionKind = "membership_renumbered"
	// TransitionTransferred: the current membership was closed and a new one
	// opened with another club (admin).
	TransitionTransferred TransitionKind = "membership_transferred"
	// TransitionChangeStaged: a membership change record was staged for
	// approval (club admin).
	TransitionChangeStaged TransitionKind = "membership_change_staged"
)

// TransitionResult reports what the transition engine did. Exactly one of
// Membership or MembershipChange is the primary outcome; MemberChange is set
// when a club-admin transfer snapshotted the member.
type TransitionResult struct {
	Kind             TransitionKind
	Membership       *memberdb.Membership
	MembershipChange *memberdb.MembershipChange
	MemberChange     *memberdb.MemberChange
}

// ApprovalResult reports what an approval resolved: the member the change
// applied to (created or updated) and how many sibling change records were
// cascaded along with the primary one.
type ApprovalResult struct {
	MemberUUID     uuid.UUID
	ResolvedStatus memberdb.ChangeStatus
	CascadeCount   int
}
