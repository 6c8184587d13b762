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

// LicenseOption pairs an available membership license number with its full
// display label.
type LicenseOption struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// RemainingMembershipLicenses returns every membership license number in
// [1,999] not assigned to a current membership of the given club, ascending,
// formatted as "CC-NNN" with the club's own license number as prefix.
func (s *MemberService) RemainingMembershipLicenses(ctx context.Context, clubUUID uuid.UUID) ([]LicenseOption, error) {
	remainingTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]LicenseOption, error], error) {
		club, err := s.clubRepo.GetByUUID(ctx, db, clubUUID)
		if err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return results.FailureResult[[]LicenseOption, error](err), nil
			}
			return results.OperationResult[[]LicenseOption, error]{}, err
		}

		used, err := s.repo.UsedMembershipLicenseNumbers(ctx, db, clubUUID)
		if err != nil {
			return results.OperationResult[[]LicenseOption, error]{}, fmt.Errorf("failed to get used license numbers: %w", err)
		}

		usedSet := make(map[int]struct{}, len(used))
		for _, n := range used {
			usedSet[n] = struct{}{}
		}

		options := make([]LicenseOption, 0, memberdb.MaxLicenseNo-len(usedSet))
		for n := 1; n <= memberdb.MaxLicenseNo; n++ {
			if _, taken := usedSet[n]; taken {
				continue
			}
			options = append(options, LicenseOption{
				Number: n,
				Label:  fmt.Sprintf("%02d-%03d", club.LicenseNo, n),
			})
		}
		return results.SuccessResult[[]LicenseOption, error](options), nil
	}

	result, err := withTelemetry(s, ctx, "RemainingMembershipLicenses", clubUUID.String(), func(ctx context.Context) (results.OperationResult[[]LicenseOption, error], error) {
		return runInTx(s, ctx, remainingTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}
