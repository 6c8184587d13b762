package competitiondb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CompetitionStatus is the lifecycle state of a competition.
type CompetitionStatus string

const (
	CompetitionStatusOpen   CompetitionStatus = "Open"
	CompetitionStatusClosed CompetitionStatus = "Closed"
)

// RegistrationStatus is the lifecycle state of a competition registration.
// It is derived, not freely settable: the eligibility evaluator forces Draft
// whenever the roster violates a constraint.
type RegistrationStatus string

const (
	RegistrationStatusDraft      RegistrationStatus = "Draft"
	RegistrationStatusRegistered RegistrationStatus = "Registered"
	RegistrationStatusFinished   RegistrationStatus = "Finished"
)

// IsValid reports whether the status is one of the known states.
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationStatusDraft, RegistrationStatusRegistered, RegistrationStatusFinished:
		return true
	}
	return false
}

// RuleOption names the member attribute a year rule applies to.
type RuleOption string

const (
	RuleOptionYear RuleOption = "Year"
)

// RuleCondition is the comparison a year rule applies against its threshold.
type RuleCondition string

const (
	ConditionGreater         RuleCondition = "Greater"
	ConditionGreaterOrEqual  RuleCondition = "GreaterOrEqual"
	ConditionLessThan        RuleCondition = "LessThan"
	ConditionLessThanOrEqual RuleCondition = "LessThanOrEqual"
	ConditionEqual           RuleCondition = "Equal"
	ConditionNotEqual        RuleCondition = "NotEqual"
	ConditionAverageEqualTo  RuleCondition = "AverageEqualTo"
)

// IsValid reports whether the condition is one of the known comparisons.
func (c RuleCondition) IsValid() bool {
	switch c {
	case ConditionGreater, ConditionGreaterOrEqual, ConditionLessThan,
		ConditionLessThanOrEqual, ConditionEqual, ConditionNotEqual,
		ConditionAverageEqualTo:
		return true
	}
	return false
}

// Team is a club's competition roster.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	UUID        uuid.UUID `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	Name        string    `bun:"name,notnull" json:"name"`
	ClubUUID    uuid.UUID `bun:"club_uuid,notnull,type:uuid" json:"club_uuid"`
	PhotoURL    *string   `bun:"photo_url,nullzero" json:"photo_url,omitempty"`
	Description string    `bun:"description" json:"description,omitempty"`

	MemberUUIDs []uuid.UUID `bun:"member_uuids,array,type:uuid[]" json:"member_uuids"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Competition is an event teams register for.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:cp"`

	UUID         uuid.UUID         `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	Name         string            `bun:"name,notnull" json:"name"`
	DueDate      time.Time         `bun:"due_date,notnull" json:"due_date"`
	CreationDate time.Time         `bun:"creation_date,notnull,default:current_date" json:"creation_date"`
	Status       CompetitionStatus `bun:"status,notnull,default:'Open'" json:"status"`
	Description  string            `bun:"description" json:"description,omitempty"`
}

// Discipline is a competition category with optional roster-size bounds. A
// nil bound means unconstrained.
type Discipline struct {
	bun.BaseModel `bun:"table:disciplines,alias:d"`

	UUID            uuid.UUID `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	CompetitionUUID uuid.UUID `bun:"competition_uuid,notnull,type:uuid" json:"competition_uuid"`
	Name            string    `bun:"name,notnull" json:"name"`
	Description     string    `bun:"description" json:"description,omitempty"`
	MinMembers      *int      `bun:"min_members,nullzero" json:"min_members,omitempty"`
	MaxMembers      *int      `bun:"max_members,nullzero" json:"max_members,omitempty"`
}

// Division is an age/qualification-bounded subgroup within a discipline.
type Division struct {
	bun.BaseModel `bun:"table:divisions,alias:dv"`

	UUID           uuid.UUID `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	DisciplineUUID uuid.UUID `bun:"discipline_uuid,notnull,type:uuid" json:"discipline_uuid"`
	Name           string    `bun:"name,notnull" json:"name"`
	Description    string    `bun:"description" json:"description,omitempty"`

	RequiredExams []string `bun:"required_exams,array" json:"required_exams,omitempty"`

	YearRules []*YearRule `bun:"rel:has-many,join:uuid=division_uuid" json:"year_rules,omitempty"`
}

// YearRule constrains member ages within a division.
type YearRule struct {
	bun.BaseModel `bun:"table:year_rules,alias:yr"`

	UUID         uuid.UUID     `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	DivisionUUID uuid.UUID     `bun:"division_uuid,notnull,type:uuid" json:"division_uuid"`
	Name         string        `bun:"name,notnull" json:"name"`
	Option       RuleOption    `bun:"option,notnull" json:"option"`
	Condition    RuleCondition `bun:"condition,notnull" json:"condition"`
	Value        float64       `bun:"value,notnull" json:"value"`
	Description  string        `bun:"description" json:"description,omitempty"`
}

// CompetitionRegistration links a team to a competition discipline (and
// optionally a division).
type CompetitionRegistration struct {
	bun.BaseModel `bun:"table:competition_registrations,alias:cr"`

	UUID            uuid.UUID          `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	CompetitionUUID uuid.UUID          `bun:"competition_uuid,notnull,type:uuid" json:"competition_uuid"`
	DisciplineUUID  uuid.UUID          `bun:"discipline_uuid,notnull,type:uuid" json:"discipline_uuid"`
	DivisionUUID    *uuid.UUID         `bun:"division_uuid,nullzero,type:uuid" json:"division_uuid,omitempty"`
	TeamUUID        uuid.UUID          `bun:"team_uuid,notnull,type:uuid" json:"team_uuid"`
	ClubUUID        uuid.UUID          `bun:"club_uuid,notnull,type:uuid" json:"club_uuid"`
	Status          RegistrationStatus `bun:"status,notnull,default:'Draft'" json:"status"`
	CreationDate    time.Time          `bun:"creation_date,notnull,default:current_date" json:"creation_date"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
