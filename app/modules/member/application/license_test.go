package memberservice

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clubdb "github.com/fstb-swiss/fstb-admin/app/modules/club/infrastructure/repositories"
)

func TestRemainingMembershipLicenses(t *testing.T) {
	repo := NewFakeMemberRepo()
	clubs := NewFakeClubRepo()
	svc := newTestService(repo, clubs)

	club := seedClub(clubs, 7)
	member := seedMember(repo)
	other := seedMember(repo)
	seedMembership(repo, member.UUID, club.UUID, 1)
	seedMembership(repo, other.UUID, club.UUID, 3)

	// A closed membership releases its number.
	closed := seedMembership(repo, seedMember(repo).UUID, club.UUID, 2)
	closed.TransferDate = &testNow

	options, err := svc.RemainingMembershipLicenses(context.Background(), club.UUID)
	require.NoError(t, err)
	require.Len(t, options, 997)

	want := []LicenseOption{
		{Number: 2, Label: "07-002"},
		{Number: 4, Label: "07-004"},
		{Number: 5, Label: "07-005"},
	}
	if diff := cmp.Diff(want, options[:3]); diff != "" {
		t.Errorf("remaining licenses mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 999, options[len(options)-1].Number)
}

func TestRemainingMembershipLicensesUnknownClub(t *testing.T) {
	repo := NewFakeMemberRepo()
	clubs := NewFakeClubRepo()
	svc := newTestService(repo, clubs)

	_, err := svc.RemainingMembershipLicenses(context.Background(), uuid.New())
	require.ErrorIs(t, err, clubdb.ErrNotFound)
}
