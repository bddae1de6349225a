package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerRoleValid(t *testing.T) {
	t.Parallel()

	for _, role := range []PlayerRole{RoleBatter, RoleBowler, RoleAllrounder, RoleWicketkeeper} {
		assert.True(t, role.Valid(), string(role))
	}
	assert.False(t, PlayerRole("Coach").Valid())
	assert.False(t, PlayerRole("batter").Valid(), "roles are case sensitive")
	assert.False(t, PlayerRole("").Valid())
}

func TestNationalityValid(t *testing.T) {
	t.Parallel()

	assert.True(t, NationalityIndian.Valid())
	assert.True(t, NationalityForeign.Valid())
	assert.False(t, Nationality("Overseas").Valid())
	assert.False(t, Nationality("").Valid())
}

func TestPlayerSold(t *testing.T) {
	t.Parallel()

	assert.True(t, Player{TeamBought: "CSK"}.Sold())
	assert.False(t, Player{TeamBought: TeamUnsold}.Sold())
}

func TestTeamSecured(t *testing.T) {
	t.Parallel()

	hash := "$2a$10$abcdef"
	empty := ""
	assert.True(t, Team{SecretHash: &hash}.Secured())
	assert.False(t, Team{SecretHash: &empty}.Secured())
	assert.False(t, Team{}.Secured())
}

func TestCroreString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lakhs    int
		expected string
	}{
		{lakhs: 10000, expected: "100 Cr"},
		{lakhs: 8500, expected: "85 Cr"},
		{lakhs: 1550, expected: "15.50 Cr"},
		{lakhs: 75, expected: "0.75 Cr"},
		{lakhs: 0, expected: "0 Cr"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CroreString(tt.lakhs), "%d lakhs", tt.lakhs)
	}
}
