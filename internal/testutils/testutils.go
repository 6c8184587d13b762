// Package testutils generates plausible domain records for tests.
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	memberdb "github.com/fstb-swiss/fstb-admin/app/modules/member/infrastructure/repositories"
)

// RandomMember returns a member with random but plausible data who is exactly
// age years old at asOf (born one month past this year's birthday).
func RandomMember(asOf time.Time, age int) *memberdb.Member {
	return &memberdb.Member{
		UUID:            uuid.New(),
		Name:            gofakeit.FirstName(),
		Surname:         gofakeit.LastName(),
		HouseNumber:     fmt.Sprintf("%d", gofakeit.Number(1, 120)),
		Street:          gofakeit.Street(),
		City:            gofakeit.City(),
		ZipCode:         gofakeit.Zip(),
		DateOfBirth:     asOf.AddDate(-age, -1, 0),
		Nationality:     "CH",
		AffiliationYear: asOf.Year() - gofakeit.Number(0, 10),
		Roles:           []string{memberdb.RoleAthlete},
	}
}

// RandomClub returns a club with random data and the given license number.
func RandomClub(licenseNo int) *clubdb.Club {
	return &clubdb.Club{
		UUID:            uuid.New(),
		Name:            fmt.Sprintf("%s Trampoline Club", gofakeit.City()),
		LicenseNo:       licenseNo,
		AffiliationYear: gofakeit.Number(1980, 2024),
	}
}
