package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Portal-api/internal/application/analytics"
	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/infrastructure/memory"
)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	accounts := []struct {
		role   entity.Role
		status entity.Status
	}{
		{entity.RoleAdmin, entity.StatusActive},
		{entity.RoleMember, entity.StatusActive},
		{entity.RoleMember, entity.StatusSuspended},
		{entity.RoleExecutive, entity.StatusPending},
	}
	for i, a := range accounts {
		id := fmt.Sprintf("u%d", i)
		require.NoError(t, store.Accounts().Create(ctx, &entity.Account{
			ID: id, Email: id + "@x.com", Role: a.role, Status: a.status, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("req_%02d", i)
		require.NoError(t, store.Requests().Create(ctx, &entity.AccountRequest{
			ID: id, Email: id + "@x.com", FirstName: "F", LastName: "L", Status: entity.RequestPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Approvals().Create(ctx, &entity.StrategicApproval{
		ID: "approval_1", Title: "t", Description: "d", Category: "Legal", Priority: entity.PriorityHigh,
		Status: entity.ApprovalPending, RequestedBy: "u1",
	}))
	require.NoError(t, store.Approvals().Create(ctx, &entity.StrategicApproval{
		ID: "approval_2", Title: "t", Description: "d", Category: "Legal", Priority: entity.PriorityLow,
		Status: entity.ApprovalApproved, RequestedBy: "u1",
	}))
}

func TestGetExecutiveSummary_Conteos(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	uc := analytics.NewDashboardUseCase(store.Accounts(), store.Requests(), store.Approvals())

	sum, err := uc.GetExecutiveSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.TotalAccounts)
	assert.Equal(t, 2, sum.ActiveAccounts)
	assert.Equal(t, 12, sum.PendingAccountRequests)
	assert.Equal(t, 1, sum.PendingStrategicApprovals)
	require.Len(t, sum.KPIs, 4)

	assert.Equal(t, "Revenue Growth", sum.KPIs[0].Name)
	assert.True(t, sum.KPIs[0].Progress.Equal(decimal.NewFromInt(76)), sum.KPIs[0].Progress.String())
	assert.Equal(t, "93.3", sum.KPIs[1].Progress.String())
	assert.Equal(t, "/5", sum.KPIs[1].Unit)
}

func TestGetExecutiveSummary_FalloDeAlmacenamiento(t *testing.T) {
	store := memory.NewStore()
	store.FailOn(memory.OpApprovalList, domain.ErrStoreTimeout)
	uc := analytics.NewDashboardUseCase(store.Accounts(), store.Requests(), store.Approvals())

	_, err := uc.GetExecutiveSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreTimeout)
}

func TestGetAdminOverview(t *testing.T) {
	store := memory.NewStore()
	seed(t, store)
	uc := analytics.NewDashboardUseCase(store.Accounts(), store.Requests(), store.Approvals())

	ov, err := uc.GetAdminOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, ov.PendingRequests, 10)
	assert.Equal(t, "req_11", ov.PendingRequests[0].ID, "más recientes primero")
	require.Len(t, ov.RecentAccounts, 4)
	assert.Equal(t, "u3", ov.RecentAccounts[0].ID)
	assert.Equal(t, 2, ov.AccountsByRole["member"])
	assert.Equal(t, 0, ov.AccountsByRole["team_lead"])
	assert.Equal(t, 1, ov.AccountsByStatus["suspended"])
}
