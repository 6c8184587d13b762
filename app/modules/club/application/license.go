package clubservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
	"github.com/fstb-swiss/fstb-admin/internal/results"
)

// LicenseOption pairs an available license number with its display label.
type LicenseOption struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// RemainingClubLicenses returns every club license number in [1,99] not
// currently assigned, ascending, formatted as "NN-000".
func (s *ClubService) RemainingClubLicenses(ctx context.Context) ([]LicenseOption, error) {
	remainingTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]LicenseOption, error], error) {
		used, err := s.repo.UsedLicenseNumbers(ctx, db)
		if err != nil {
			return results.OperationResult[[]LicenseOption, error]{}, fmt.Errorf("failed to get used license numbers: %w", err)
		}

		usedSet := make(map[int]struct{}, len(used))
		for _, n := range used {
			usedSet[n] = struct{}{}
		}

		options := make([]LicenseOption, 0, clubdb.MaxLicenseNo-len(usedSet))
		for n := 1; n <= clubdb.MaxLicenseNo; n++ {
			if _, taken := usedSet[n]; taken {
				continue
			}
			options = append(options, LicenseOption{
				Number: n,
				Label:  fmt.Sprintf("%02d-000", n),
			})
		}
		return results.SuccessResult[[]LicenseOption, error](options), nil
	}

	result, err := withTelemetry(s, ctx, "RemainingClubLicenses", "", func(ctx context.Context) (results.OperationResult[[]LicenseOption, error], error) {
		return runInTx(s, ctx, remainingTx)
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}
