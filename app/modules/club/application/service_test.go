package clubservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
)

func newTestService(repo *FakeClubRepo) *ClubService {
	return NewClubService(repo, slog.Default(), nil, nil, nil, nil)
}

func TestGetClub(t *testing.T) {
	testUUID := uuid.New()
	testClub := &clubdb.Club{
		UUID:      testUUID,
		Name:      "TC Lausanne",
		LicenseNo: 5,
	}

	tests := []struct {
		name        string
		setupRepo   func(*FakeClubRepo)
		clubUUID    uuid.UUID
		wantName    string
		wantErr     bool
		wantErrType error
	}{
		{
			name: "happy path - club found",
			setupRepo: func(f *FakeClubRepo) {
				f.GetByUUIDFunc = func(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*clubdb.Club, error) {
					return testClub, nil
				}
			},
			clubUUID: testUUID,
			wantName: "TC Lausanne",
		},
		{
			name: "club not found",
			setupRepo: func(f *FakeClubRepo) {
				f.GetByUUIDFunc = func(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*clubdb.Club, error) {
					return nil, clubdb.ErrNotFound
				}
			},
			clubUUID:    testUUID,
			wantErr:     true,
			wantErrType: clubdb.ErrNotFound,
		},
		{
			name: "database error",
			setupRepo: func(f *FakeClubRepo) {
				f.GetByUUIDFunc = func(ctx context.Context, db bun.IDB, clubUUID uuid.UUID) (*clubdb.Club, error) {
					return nil, errors.New("database connection failed")
				}
			},
			clubUUID: testUUID,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeClubRepo()
			tt.setupRepo(fakeRepo)

			svc := newTestService(fakeRepo)

			result, err := svc.GetClub(context.Background(), tt.clubUUID)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantErrType != nil {
					assert.ErrorIs(t, err, tt.wantErrType)
				}
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, result)
			assert.Equal(t, tt.wantName, result.Name)
		})
	}
}

func TestCreateClub(t *testing.T) {
	tests := []struct {
		name      string
		setupRepo func(*FakeClubRepo)
		licenseNo int
		wantErr   bool
	}{
		{
			name:      "happy path",
			setupRepo: func(f *FakeClubRepo) {},
			licenseNo: 7,
		},
		{
			name:      "license number out of range",
			setupRepo: func(f *FakeClubRepo) {},
			licenseNo: 100,
			wantErr:   true,
		},
		{
			name: "duplicate license number surfaces as validation failure",
			setupRepo: func(f *FakeClubRepo) {
				f.CreateFunc = func(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
					return clubdb.ErrDuplicateLicense
				}
			},
			licenseNo: 7,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeClubRepo()
			tt.setupRepo(fakeRepo)

			svc := newTestService(fakeRepo)

			club, err := svc.CreateClub(context.Background(), "TC Geneva", 2024, tt.licenseNo)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.licenseNo, club.LicenseNo)
			assert.Equal(t, "TC Geneva", club.Name)
			assert.Equal(t, []string{"Create"}, fakeRepo.Trace())
		})
	}
}

func TestFullLicenseNo(t *testing.T) {
	club := &clubdb.Club{LicenseNo: 5}
	assert.Equal(t, "05-000", club.FullLicenseNo())
}
