package clubservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestRemainingClubLicenses(t *testing.T) {
	tests := []struct {
		name      string
		used      []int
		wantFirst LicenseOption
		wantLen   int
	}{
		{
			name:      "no clubs yet",
			used:      nil,
			wantFirst: LicenseOption{Number: 1, Label: "01-000"},
			wantLen:   99,
		},
		{
			name:      "lowest numbers taken",
			used:      []int{1, 2, 3},
			wantFirst: LicenseOption{Number: 4, Label: "04-000"},
			wantLen:   96,
		},
		{
			name:      "gap is offered first",
			used:      []int{1, 3},
			wantFirst: LicenseOption{Number: 2, Label: "02-000"},
			wantLen:   97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeClubRepo()
			fakeRepo.UsedLicenseNumbersFunc = func(ctx context.Context, db bun.IDB) ([]int, error) {
				return tt.used, nil
			}

			svc := newTestService(fakeRepo)

			options, err := svc.RemainingClubLicenses(context.Background())
			require.NoError(t, err)
			require.Len(t, options, tt.wantLen)
			assert.Equal(t, tt.wantFirst, options[0])

			// Ascending order throughout.
			for i := 1; i < len(options); i++ {
				assert.Greater(t, options[i].Number, options[i-1].Number)
			}
		})
	}
}
