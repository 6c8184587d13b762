package competitionservice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	competitiondb "github.com/fstb-swiss/fstb-admin/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/testutils"
)

var evalNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func memberAged(age int) *memberdb.Member {
	return testutils.RandomMember(evalNow, age)
}

func rosterAged(ages ...int) []*memberdb.Member {
	roster := make([]*memberdb.Member, 0, len(ages))
	for _, age := range ages {
		roster = append(roster, memberAged(age))
	}
	return roster
}

func intPtr(n int) *int { return &n }

func TestCalculateAge(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{
			name: "birthday already passed this year",
			dob:  time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC),
			want: 25,
		},
		{
			name: "birthday today counts",
			dob:  time.Date(2007, 6, 15, 0, 0, 0, 0, time.UTC),
			want: 18,
		},
		{
			name: "birthday tomorrow does not",
			dob:  time.Date(2007, 6, 16, 0, 0, 0, 0, time.UTC),
			want: 17,
		},
		{
			name: "birthday later this year",
			dob:  time.Date(2007, 11, 2, 0, 0, 0, 0, time.UTC),
			want: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateAge(tt.dob, evalNow))
		})
	}
}

func TestEvaluateEligibilityRosterBounds(t *testing.T) {
	discipline := &competitiondb.Discipline{
		UUID:       uuid.New(),
		Name:       "Team Freestyle",
		MinMembers: intPtr(6),
		MaxMembers: intPtr(8),
	}

	tests := []struct {
		name       string
		rosterSize int
		wantMin    bool
		wantMax    bool
		wantStatus competitiondb.RegistrationStatus
	}{
		{name: "one short of minimum", rosterSize: 5, wantMin: true, wantStatus: competitiondb.RegistrationStatusDraft},
		{name: "exactly minimum", rosterSize: 6, wantStatus: competitiondb.RegistrationStatusRegistered},
		{name: "exactly maximum", rosterSize: 8, wantStatus: competitiondb.RegistrationStatusRegistered},
		{name: "one over maximum", rosterSize: 9, wantMax: true, wantStatus: competitiondb.RegistrationStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ages := make([]int, tt.rosterSize)
			for i := range ages {
				ages[i] = 20
			}
			eval := EvaluateEligibility(discipline, nil, rosterAged(ages...), competitiondb.RegistrationStatusRegistered, evalNow)

			assert.Equal(t, tt.wantMin, eval.MinViolated)
			assert.Equal(t, tt.wantMax, eval.MaxViolated)
			assert.Empty(t, eval.AgeViolations)
			assert.Equal(t, tt.wantStatus, eval.Status)
		})
	}
}

func TestEvaluateEligibilityNilBoundsUnconstrained(t *testing.T) {
	discipline := &competitiondb.Discipline{UUID: uuid.New(), Name: "Open"}

	eval := EvaluateEligibility(discipline, nil, rosterAged(20), competitiondb.RegistrationStatusRegistered, evalNow)
	assert.False(t, eval.MinViolated)
	assert.False(t, eval.MaxViolated)
	assert.Equal(t, competitiondb.RegistrationStatusRegistered, eval.Status)
}

func TestEvaluateEligibilityYearRules(t *testing.T) {
	discipline := &competitiondb.Discipline{UUID: uuid.New(), Name: "Juniors"}
	rule := func(cond competitiondb.RuleCondition, value float64) *competitiondb.YearRule {
		return &competitiondb.YearRule{
			UUID:      uuid.New(),
			Name:      "age limit",
			Option:    competitiondb.RuleOptionYear,
			Condition: cond,
			Value:     value,
		}
	}

	tests := []struct {
		name           string
		rule           *competitiondb.YearRule
		roster         []*memberdb.Member
		wantViolations int
	}{
		{
			name:   "less than passes under threshold",
			rule:   rule(competitiondb.ConditionLessThan, 18),
			roster: rosterAged(16, 17),
		},
		{
			name:           "less than flags each member at threshold",
			rule:           rule(competitiondb.ConditionLessThan, 18),
			roster:         rosterAged(17, 18, 19),
			wantViolations: 2,
		},
		{
			name:   "greater or equal passes at threshold",
			rule:   rule(competitiondb.ConditionGreaterOrEqual, 18),
			roster: rosterAged(18, 25),
		},
		{
			name:           "greater rejects at threshold",
			rule:           rule(competitiondb.ConditionGreater, 18),
			roster:         rosterAged(18),
			wantViolations: 1,
		},
		{
			name:           "not equal rejects exact age",
			rule:           rule(competitiondb.ConditionNotEqual, 21),
			roster:         rosterAged(21),
			wantViolations: 1,
		},
		{
			name:   "average equal to passes on matching mean",
			rule:   rule(competitiondb.ConditionAverageEqualTo, 20),
			roster: rosterAged(18, 22),
		},
		{
			name:           "average equal to flags the roster once",
			rule:           rule(competitiondb.ConditionAverageEqualTo, 20),
			roster:         rosterAged(18, 23),
			wantViolations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			division := &competitiondb.Division{
				UUID:      uuid.New(),
				Name:      "U18",
				YearRules: []*competitiondb.YearRule{tt.rule},
			}

			eval := EvaluateEligibility(discipline, division, tt.roster, competitiondb.RegistrationStatusRegistered, evalNow)
			assert.Len(t, eval.AgeViolations, tt.wantViolations)
			if tt.wantViolations > 0 {
				assert.Equal(t, competitiondb.RegistrationStatusDraft, eval.Status)
			} else {
				assert.Equal(t, competitiondb.RegistrationStatusRegistered, eval.Status)
			}
		})
	}
}

// A member turning 18 today is 18; one whose birthday is tomorrow is still 17
// and passes a LessThan 18 rule.
func TestEvaluateEligibilityBirthdayBoundary(t *testing.T) {
	discipline := &competitiondb.Discipline{UUID: uuid.New(), Name: "Juniors"}
	division := &competitiondb.Division{
		UUID: uuid.New(),
		Name: "U18",
		YearRules: []*competitiondb.YearRule{{
			UUID:      uuid.New(),
			Name:      "under 18",
			Option:    competitiondb.RuleOptionYear,
			Condition: competitiondb.ConditionLessThan,
			Value:     18,
		}},
	}

	turnsEighteenToday := &memberdb.Member{
		UUID: uuid.New(), Name: "Ada", Surname: "Brunner",
		DateOfBirth: time.Date(2007, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	turnsEighteenTomorrow := &memberdb.Member{
		UUID: uuid.New(), Name: "Noa", Surname: "Vogel",
		DateOfBirth: time.Date(2007, 6, 16, 0, 0, 0, 0, time.UTC),
	}

	eval := EvaluateEligibility(discipline, division, []*memberdb.Member{turnsEighteenToday, turnsEighteenTomorrow}, competitiondb.RegistrationStatusRegistered, evalNow)
	require.Len(t, eval.AgeViolations, 1)
	assert.Equal(t, "Ada Brunner", eval.AgeViolations[0].MemberName)
	assert.Equal(t, competitiondb.RegistrationStatusDraft, eval.Status)
}
