package competitionservice

import (
	"fmt"
	"math"
	"time"

	competitiondb "github.com/fstb-swiss/fstb-admin/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
)

// AgeViolation records one failing (member, rule) pair. For the roster-wide
// AverageEqualTo condition the member name is RosterAverage.
type AgeViolation struct {
	MemberName string  `json:"member_name"`
	RuleName   string  `json:"rule_name"`
	Reason     string  `json:"reason"`
	Threshold  float64 `json:"threshold"`
}

// RosterAverage is the member-name placeholder for roster-wide violations.
const RosterAverage = "roster average"

// Evaluation is the outcome of checking a roster against a discipline's size
// bounds and a division's year rules.
type Evaluation struct {
	MinViolated   bool                             `json:"min_violated"`
	MaxViolated   bool                             `json:"max_violated"`
	AgeViolations []AgeViolation                   `json:"age_violations"`
	Status        competitiondb.RegistrationStatus `json:"status"`
}

// Eligible reports whether no constraint was violated.
func (e Evaluation) Eligible() bool {
	return !e.MinViolated && !e.MaxViolated && len(e.AgeViolations) == 0
}

// EvaluateEligibility checks the roster against the discipline's roster-size
// bounds and, when a division is given, its year rules. The returned status
// is the requested one, forced to Draft on any violation.
//
// It is a pure function of its arguments; registration create, update and
// preview all call it so the three paths cannot drift.
func EvaluateEligibility(discipline *competitiondb.Discipline, division *competitiondb.Division, roster []*memberdb.Member, requested competitiondb.RegistrationStatus, asOf time.Time) Evaluation {
	eval := Evaluation{
		MinViolated: discipline.MinMembers != nil && len(roster) < *discipline.MinMembers,
		MaxViolated: discipline.MaxMembers != nil && len(roster) > *discipline.MaxMembers,
	}

	if division != nil {
		eval.AgeViolations = checkAges(division.YearRules, roster, asOf)
	}

	eval.Status = requested
	if !eval.Eligible() {
		eval.Status = competitiondb.RegistrationStatusDraft
	}
	return eval
}

func checkAges(rules []*competitiondb.YearRule, roster []*memberdb.Member, asOf time.Time) []AgeViolation {
	var violations []AgeViolation

	ageSum := 0
	for _, member := range roster {
		age := CalculateAge(member.DateOfBirth, asOf)
		ageSum += age

		for _, rule := range rules {
			if reason, ok := checkCondition(rule, float64(age)); !ok {
				violations = append(violations, AgeViolation{
					MemberName: member.FullName(),
					RuleName:   rule.Name,
					Reason:     reason,
					Threshold:  rule.Value,
				})
			}
		}
	}

	// AverageEqualTo is roster-wide, checked once against the mean age.
	for _, rule := range rules {
		if rule.Condition != competitiondb.ConditionAverageEqualTo || len(roster) == 0 {
			continue
		}
		average := float64(ageSum) / float64(len(roster))
		if math.Abs(average-rule.Value) > 1e-9 {
			violations = append(violations, AgeViolation{
				MemberName: RosterAverage,
				RuleName:   rule.Name,
				Reason:     fmt.Sprintf("average age %.2f is not equal to %v", average, rule.Value),
				Threshold:  rule.Value,
			})
		}
	}

	return violations
}

// checkCondition compares one member's age against a per-member rule. It
// returns ok=true when the rule passes or does not apply per member
// (AverageEqualTo).
func checkCondition(rule *competitiondb.YearRule, age float64) (string, bool) {
	switch rule.Condition {
	case competitiondb.ConditionEqual:
		if age != rule.Value {
			return fmt.Sprintf("age is not equal to %v", rule.Value), false
		}
	case competitiondb.ConditionNotEqual:
		if age == rule.Value {
			return fmt.Sprintf("age is equal to %v", rule.Value), false
		}
	case competitiondb.ConditionGreater:
		if age <= rule.Value {
			return fmt.Sprintf("age is not greater than %v", rule.Value), false
		}
	case competitiondb.ConditionGreaterOrEqual:
		if age < rule.Value {
			return fmt.Sprintf("age is not greater or equal to %v", rule.Value), false
		}
	case competitiondb.ConditionLessThan:
		if age >= rule.Value {
			return fmt.Sprintf("age is not less than %v", rule.Value), false
		}
	case competitiondb.ConditionLessThanOrEqual:
		if age > rule.Value {
			return fmt.Sprintf("age is not less than or equal to %v", rule.Value), false
		}
	}
	return "", true
}

// CalculateAge returns the member's age in full years at asOf: calendar-year
// difference, minus one if the birthday has not yet occurred that year.
func CalculateAge(dateOfBirth, asOf time.Time) int {
	age := asOf.Year() - dateOfBirth.Year()
	if asOf.Month() < dateOfBirth.Month() ||
		(asOf.Month() == dateOfBirth.Month() && asOf.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}
