package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

func TestNewInvitation_TokenYExpiracion(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	inv, err := entity.NewInvitation(" Agent@Example.com ", entity.RoleAgent, "manager-1", now)
	require.NoError(t, err)

	assert.Equal(t, "agent@example.com", inv.Email)
	assert.Len(t, inv.Token, 64)
	assert.Equal(t, now.Add(7*24*time.Hour), inv.ExpiresAt)
	assert.True(t, inv.Active(now))

	other, err := entity.NewInvitation("agent@example.com", entity.RoleAgent, "manager-1", now)
	require.NoError(t, err)
	assert.NotEqual(t, inv.Token, other.Token)
}

func TestInvitation_ActiveRespetaUsoYExpiracion(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	inv := &entity.Invitation{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, inv.Active(now))

	inv.Used = true
	assert.False(t, inv.Active(now))

	inv.Used = false
	assert.False(t, inv.Active(now.Add(2*time.Hour)))
}

func TestCanInvite(t *testing.T) {
	assert.True(t, entity.CanInvite(entity.RoleAdmin, entity.RoleManager))
	assert.False(t, entity.CanInvite(entity.RoleManager, entity.RoleManager))
	assert.True(t, entity.CanInvite(entity.RoleManager, entity.RoleAgent))
	assert.True(t, entity.CanInvite(entity.RoleAdmin, entity.RoleAgent))
	assert.False(t, entity.CanInvite(entity.RoleAgent, entity.RoleAgent))
	assert.False(t, entity.CanInvite(entity.RoleAdmin, entity.RoleAdmin))
}

func TestManagerForInvitee(t *testing.T) {
	mgr := &entity.User{ID: "m-1", Role: entity.RoleManager}
	adm := &entity.User{ID: "a-1", Role: entity.RoleAdmin}

	got := entity.ManagerForInvitee(mgr, entity.RoleAgent)
	require.NotNil(t, got)
	assert.Equal(t, "m-1", *got)

	assert.Nil(t, entity.ManagerForInvitee(adm, entity.RoleAgent))
	assert.Nil(t, entity.ManagerForInvitee(adm, entity.RoleManager))
}

func TestParseRole(t *testing.T) {
	r, ok := entity.ParseRole(" Manager ")
	assert.True(t, ok)
	assert.Equal(t, entity.RoleManager, r)

	_, ok = entity.ParseRole("bodeguero")
	assert.False(t, ok)
}
