package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestOrderScope(t *testing.T) {
	f, err := access.OrderScope(access.Requester{ID: "a", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, f.Unrestricted())

	f, err = access.OrderScope(access.Requester{ID: "m", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, access.OrderFilter{ManagerID: "m"}, f)

	f, err = access.OrderScope(access.Requester{ID: "ag", Role: entity.RoleAgent, ManagerID: strPtr("m")})
	require.NoError(t, err)
	assert.Equal(t, access.OrderFilter{AgentID: "ag"}, f)

	_, err = access.OrderScope(access.Requester{ID: "x", Role: "guest"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestBankAccountScope(t *testing.T) {
	f, err := access.BankAccountScope(access.Requester{ID: "m", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "m", f.ManagerID)

	f, err = access.BankAccountScope(access.Requester{ID: "ag", Role: entity.RoleAgent, ManagerID: strPtr("m")})
	require.NoError(t, err)
	assert.Equal(t, "m", f.ManagerID, "el agente ve las cuentas de su manager")

	_, err = access.BankAccountScope(access.Requester{ID: "ag", Role: entity.RoleAgent})
	assert.ErrorIs(t, err, domain.ErrNotFound, "agente sin manager")

	f, err = access.BankAccountScope(access.Requester{ID: "a", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, f.ManagerID)
}

func TestAgentScope(t *testing.T) {
	f, err := access.AgentScope(access.Requester{ID: "m", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "m", f.ManagerID)

	_, err = access.AgentScope(access.Requester{ID: "ag", Role: entity.RoleAgent})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = access.AgentScope(access.Requester{ID: "x", Role: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCanAccessOrder(t *testing.T) {
	o := &entity.Order{AgentID: "ag"}
	assert.True(t, access.CanAccessOrder(access.Requester{ID: "ag", Role: entity.RoleAgent}, o, strPtr("m")))
	assert.False(t, access.CanAccessOrder(access.Requester{ID: "other", Role: entity.RoleAgent}, o, strPtr("m")))
	assert.True(t, access.CanAccessOrder(access.Requester{ID: "m", Role: entity.RoleManager}, o, strPtr("m")))
	assert.False(t, access.CanAccessOrder(access.Requester{ID: "m2", Role: entity.RoleManager}, o, strPtr("m")))
	assert.False(t, access.CanAccessOrder(access.Requester{ID: "m", Role: entity.RoleManager}, o, nil))
	assert.True(t, access.CanAccessOrder(access.Requester{ID: "a", Role: entity.RoleAdmin}, o, nil))
}

func TestCanManageAgent(t *testing.T) {
	agent := &entity.User{ID: "ag", Role: entity.RoleAgent, ManagerID: strPtr("m")}
	assert.True(t, access.CanManageAgent(access.Requester{ID: "m", Role: entity.RoleManager}, agent))
	assert.False(t, access.CanManageAgent(access.Requester{ID: "m2", Role: entity.RoleManager}, agent))
	assert.True(t, access.CanManageAgent(access.Requester{ID: "a", Role: entity.RoleAdmin}, agent))
	assert.False(t, access.CanManageAgent(access.Requester{ID: "ag2", Role: entity.RoleAgent}, agent))
}
