package memberdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxLicenseNo is the highest membership license number within a club.
const MaxLicenseNo = 999

// ChangeStatus is the lifecycle state of a staged change record.
type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "Pending"
	ChangeStatusApproved ChangeStatus = "Approved"
	ChangeStatusDeclined ChangeStatus = "Declined"
)

// IsValid reports whether the status is one of the known states.
func (s ChangeStatus) IsValid() bool {
	switch s {
	case ChangeStatusPending, ChangeStatusApproved, ChangeStatusDeclined:
		return true
	}
	return false
}

// Member roles, exams and J+S qualifications are reference sets stored as
// text arrays. The values mirror the federation's official lists.
const (
	RoleAthlete          = "Athlete"
	RoleInstructor       = "Instructor"
	RoleCentralCommittee = "FSTB CC"
	RoleJudge            = "FSTB Judges"
	RoleTechnical        = "FSTB CT"
	RoleHelper           = "Free member"
	RoleClubAdmin        = "Club committee"
)

const (
	ExamHonor  = "DH"
	ExamFirst  = "D1"
	ExamSecond = "D2"
	ExamThird  = "D3"
	ExamFourth = "D4"
	ExamR1     = "R1"
	ExamR2     = "R2"
	ExamR3     = "R3"
)

const (
	JSMonitor     = "Monitor J+S"
	JSMonitorKids = "Monitor J+S Kids"
	JSExpert      = "Expert J+S"
	JSCoach       = "Coach J+S"
)

// Member is a federation member: identity, address, biographical fields and
// reference sets. At most one current Membership (transfer_date unset) exists
// per member.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	UUID            uuid.UUID  `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	PhotoURL        *string    `bun:"photo_url,nullzero" json:"photo_url,omitempty"`
	Name            string     `bun:"name,notnull" json:"name"`
	Surname         string     `bun:"surname,notnull" json:"surname"`
	HouseNumber     string     `bun:"house_number,notnull" json:"house_number"`
	Street          string     `bun:"street,notnull" json:"street"`
	City            string     `bun:"city,notnull" json:"city"`
	ZipCode         string     `bun:"zip_code,notnull" json:"zip_code"`
	DateOfBirth     time.Time  `bun:"date_of_birth,notnull" json:"date_of_birth"`
	Nationality     string     `bun:"nationality,notnull" json:"nationality"` // ISO 3166-1 alpha-2
	AffiliationYear int        `bun:"affiliation_year,notnull" json:"affiliation_year"`
	AccountUUID     *uuid.UUID `bun:"account_uuid,nullzero,type:uuid" json:"account_uuid,omitempty"`

	Roles            []string `bun:"roles,array" json:"roles"`
	Exams            []string `bun:"exams,array" json:"exams,omitempty"`
	JSQualifications []string `bun:"js_qualifications,array" json:"js_qualifications,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (m *Member) FullName() string {
	return fmt.Sprintf("%s %s", m.Name, m.Surname)
}

// Membership links a member to a club. transfer_date unset means current;
// once set, the row is historical and a new row represents the member's new
// club. license_no is unique among current memberships of the same club
// (partial unique index, the store's final guard).
type Membership struct {
	bun.BaseModel `bun:"table:memberships,alias:ms"`

	UUID          uuid.UUID  `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	MemberUUID    uuid.UUID  `bun:"member_uuid,notnull,type:uuid" json:"member_uuid"`
	ClubUUID      uuid.UUID  `bun:"club_uuid,notnull,type:uuid" json:"club_uuid"`
	LicenseNo     int        `bun:"license_no,notnull" json:"license_no"`
	TransferDate  *time.Time `bun:"transfer_date,nullzero" json:"transfer_date,omitempty"`
	ApplicantUUID *uuid.UUID `bun:"applicant_uuid,nullzero,type:uuid" json:"applicant_uuid,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// IsCurrent reports whether the membership is the member's live one.
func (ms *Membership) IsCurrent() bool {
	return ms.TransferDate == nil
}

// FullLicenseNo renders the combined identifier, e.g. membership 7 in
// club 5 -> "05-007".
func (ms *Membership) FullLicenseNo(clubLicenseNo int) string {
	return fmt.Sprintf("%02d-%03d", clubLicenseNo, ms.LicenseNo)
}

// MemberChange is a staged proposal for creating or editing a member. A nil
// MemberUUID proposes a brand-new member; otherwise it edits the referenced
// one. Owned by its applicant until resolved, then immutable history.
type MemberChange struct {
	bun.BaseModel `bun:"table:member_changes,alias:mc"`

	UUID            uuid.UUID  `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	MemberUUID      *uuid.UUID `bun:"member_uuid,nullzero,type:uuid" json:"member_uuid,omitempty"`
	PhotoURL        *string    `bun:"photo_url,nullzero" json:"photo_url,omitempty"`
	Name            string     `bun:"name,notnull" json:"name"`
	Surname         string     `bun:"surname,notnull" json:"surname"`
	HouseNumber     string     `bun:"house_number,notnull" json:"house_number"`
	Street          string     `bun:"street,notnull" json:"street"`
	City            string     `bun:"city,notnull" json:"city"`
	ZipCode         string     `bun:"zip_code,notnull" json:"zip_code"`
	DateOfBirth     time.Time  `bun:"date_of_birth,notnull" json:"date_of_birth"`
	Nationality     string     `bun:"nationality,notnull" json:"nationality"`
	AffiliationYear int        `bun:"affiliation_year,notnull" json:"affiliation_year"`
	AccountUUID     *uuid.UUID `bun:"account_uuid,nullzero,type:uuid" json:"account_uuid,omitempty"`

	Roles            []string `bun:"roles,array" json:"roles"`
	Exams            []string `bun:"exams,array" json:"exams,omitempty"`
	JSQualifications []string `bun:"js_qualifications,array" json:"js_qualifications,omitempty"`

	ApplicantUUID uuid.UUID    `bun:"applicant_uuid,notnull,type:uuid" json:"applicant_uuid"`
	ResponderUUID *uuid.UUID   `bun:"responder_uuid,nullzero,type:uuid" json:"responder_uuid,omitempty"`
	Status        ChangeStatus `bun:"status,notnull,default:'Pending'" json:"status"`
	CreatedAt     time.Time    `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (mc *MemberChange) FullName() string {
	return fmt.Sprintf("%s %s", mc.Name, mc.Surname)
}

// MembershipChange is a staged proposal for creating or editing a membership.
// A nil MembershipUUID proposes a new membership. Each MemberChange owns at
// most one MembershipChange.
type MembershipChange struct {
	bun.BaseModel `bun:"table:membership_changes,alias:msc"`

	UUID             uuid.UUID  `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	MembershipUUID   *uuid.UUID `bun:"membership_uuid,nullzero,type:uuid" json:"membership_uuid,omitempty"`
	MemberChangeUUID *uuid.UUID `bun:"member_change_uuid,nullzero,type:uuid,unique" json:"member_change_uuid,omitempty"`
	ClubUUID         uuid.UUID  `bun:"club_uuid,notnull,type:uuid" json:"club_uuid"`
	LicenseNo        int        `bun:"license_no,notnull" json:"license_no"`
	TransferDate     *time.Time `bun:"transfer_date,nullzero" json:"transfer_date,omitempty"`

	ApplicantUUID uuid.UUID    `bun:"applicant_uuid,notnull,type:uuid" json:"applicant_uuid"`
	ResponderUUID *uuid.UUID   `bun:"responder_uuid,nullzero,type:uuid" json:"responder_uuid,omitempty"`
	Status        ChangeStatus `bun:"status,notnull,default:'Pending'" json:"status"`
	CreatedAt     time.Time    `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
