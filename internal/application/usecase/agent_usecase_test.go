package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
)

func TestAgentList_Alcance(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.agents()
	ctx := context.Background()

	mine, err := uc.List(ctx, req(tm.managerM), dto.AgentListRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, tm.agentA.ID, mine.Items[0].ID)

	all, err := uc.List(ctx, req(tm.admin), dto.AgentListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	_, err = uc.List(ctx, req(tm.agentA), dto.AgentListRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAgentToggleStatus(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.agents()
	ctx := context.Background()

	out, err := uc.ToggleStatus(ctx, req(tm.managerM), tm.agentA.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	inactive, err := uc.List(ctx, req(tm.admin), dto.AgentListRequest{Active: ptr(false)})
	require.NoError(t, err)
	require.Len(t, inactive.Items, 1)
	assert.Equal(t, tm.agentA.ID, inactive.Items[0].ID)

	out, err = uc.ToggleStatus(ctx, req(tm.managerM), tm.agentA.ID)
	require.NoError(t, err)
	assert.True(t, out.IsActive)

	_, err = uc.ToggleStatus(ctx, req(tm.managerM), tm.agentB.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "agente de otro manager")

	_, err = uc.ToggleStatus(ctx, req(tm.admin), tm.admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un admin nunca se bloquea")

	_, err = uc.ToggleStatus(ctx, req(tm.admin), tm.managerM.ID)
	assert.NoError(t, err)

	_, err = uc.ToggleStatus(ctx, req(tm.admin), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAgentUpdate_EmailUnico(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.agents()
	ctx := context.Background()

	_, err := uc.Update(ctx, req(tm.managerM), tm.agentA.ID, dto.UpdateAgentRequest{Email: ptr("b@example.com")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err := uc.Update(ctx, req(tm.managerM), tm.agentA.ID, dto.UpdateAgentRequest{
		Email:     ptr(" Nuevo@Example.com "),
		FirstName: ptr("Andrés"),
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", out.Email)
	assert.Equal(t, "Andrés", out.FirstName)

	_, err = uc.Get(ctx, req(tm.managerN), tm.agentA.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
