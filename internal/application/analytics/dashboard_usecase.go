// Package analytics contiene los casos de uso de los tableros ejecutivo y de administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

const (
	adminPendingRequests = 10 // solicitudes pendientes en el tablero de administración
	adminRecentAccounts  = 20 // cuentas recientes en el tablero de administración
)

// mockKPI indicador estratégico de demostración; no hay fuente de datos real.
type mockKPI struct {
	name   string
	value  string
	target string
	unit   string
}

var mockKPIs = []mockKPI{
	{"Revenue Growth", "15.2", "20", "%"},
	{"Employee Satisfaction", "4.2", "4.5", "/5"},
	{"Project Completion Rate", "87", "90", "%"},
	{"Market Share", "12.8", "15", "%"},
}

// DashboardUseCase genera los resúmenes de los tableros.
//
// Fuente de datos: repositorios de cuentas, solicitudes y aprobaciones (solo lectura).
type DashboardUseCase struct {
	accounts  repository.AccountRepository
	requests  repository.AccountRequestRepository
	approvals repository.StrategicApprovalRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	accounts repository.AccountRepository,
	requests repository.AccountRequestRepository,
	approvals repository.StrategicApprovalRepository,
) *DashboardUseCase {
	return &DashboardUseCase{accounts: accounts, requests: requests, approvals: approvals, now: time.Now}
}

// GetExecutiveSummary métricas de cuentas y aprobaciones más los KPIs estratégicos.
//
// Cuatro conteos en paralelo:
//  1. cuentas totales
//  2. cuentas activas
//  3. solicitudes de cuenta pendientes
//  4. aprobaciones estratégicas pendientes
func (uc *DashboardUseCase) GetExecutiveSummary(ctx context.Context) (*dto.ExecutiveSummaryDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	totalCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	requestsCh := make(chan countResult, 1)
	approvalsCh := make(chan countResult, 1)

	go func() {
		n, err := uc.accounts.Count(ctx, repository.AccountFilter{})
		totalCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.accounts.Count(ctx, repository.AccountFilter{Status: entity.StatusActive})
		activeCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.requests.Count(ctx, repository.RequestFilter{Status: entity.RequestPending})
		requestsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.approvals.Count(ctx, repository.ApprovalFilter{Status: entity.ApprovalPending})
		approvalsCh <- countResult{n, err}
	}()

	total := <-totalCh
	active := <-activeCh
	pendingReq := <-requestsCh
	pendingAppr := <-approvalsCh

	if total.err != nil {
		return nil, fmt.Errorf("dashboard: cuentas totales: %w", total.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("dashboard: cuentas activas: %w", active.err)
	}
	if pendingReq.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes pendientes: %w", pendingReq.err)
	}
	if pendingAppr.err != nil {
		return nil, fmt.Errorf("dashboard: aprobaciones pendientes: %w", pendingAppr.err)
	}

	return &dto.ExecutiveSummaryDTO{
		TotalAccounts:             total.n,
		ActiveAccounts:            active.n,
		PendingAccountRequests:    pendingReq.n,
		PendingStrategicApprovals: pendingAppr.n,
		KPIs:                      buildKPIs(),
		GeneratedAt:               uc.now().UTC(),
	}, nil
}

// GetAdminOverview últimas solicitudes pendientes, cuentas recientes y reparto por rol y estado.
func (uc *DashboardUseCase) GetAdminOverview(ctx context.Context) (*dto.AdminOverviewDTO, error) {
	type requestsResult struct {
		list []*entity.AccountRequest
		err  error
	}
	type accountsResult struct {
		list []*entity.Account
		err  error
	}
	type breakdownResult struct {
		byRole   map[string]int
		byStatus map[string]int
		err      error
	}

	pendingCh := make(chan requestsResult, 1)
	recentCh := make(chan accountsResult, 1)
	breakdownCh := make(chan breakdownResult, 1)

	go func() {
		list, err := uc.requests.List(ctx, repository.RequestFilter{Status: entity.RequestPending, Limit: adminPendingRequests})
		pendingCh <- requestsResult{list, err}
	}()
	go func() {
		list, err := uc.accounts.List(ctx, repository.AccountFilter{OrderBy: "created_at", Desc: true, Limit: adminRecentAccounts})
		recentCh <- accountsResult{list, err}
	}()
	go func() {
		byRole, byStatus, err := uc.breakdown(ctx)
		breakdownCh <- breakdownResult{byRole, byStatus, err}
	}()

	pending := <-pendingCh
	recent := <-recentCh
	breakdown := <-breakdownCh

	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes pendientes: %w", pending.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: cuentas recientes: %w", recent.err)
	}
	if breakdown.err != nil {
		return nil, fmt.Errorf("dashboard: reparto de cuentas: %w", breakdown.err)
	}

	return &dto.AdminOverviewDTO{
		PendingRequests:  dto.FromAccountRequests(pending.list),
		RecentAccounts:   dto.FromAccounts(recent.list),
		AccountsByRole:   breakdown.byRole,
		AccountsByStatus: breakdown.byStatus,
	}, nil
}

// breakdown cuenta cuentas por cada rol y cada estado.
func (uc *DashboardUseCase) breakdown(ctx context.Context) (map[string]int, map[string]int, error) {
	byRole := make(map[string]int)
	for _, r := range entity.AllRoles() {
		n, err := uc.accounts.Count(ctx, repository.AccountFilter{Role: r})
		if err != nil {
			return nil, nil, err
		}
		byRole[string(r)] = n
	}
	byStatus := make(map[string]int)
	for _, s := range []entity.Status{entity.StatusPending, entity.StatusActive, entity.StatusSuspended, entity.StatusInactive} {
		n, err := uc.accounts.Count(ctx, repository.AccountFilter{Status: s})
		if err != nil {
			return nil, nil, err
		}
		byStatus[string(s)] = n
	}
	return byRole, byStatus, nil
}

// buildKPIs construye los KPIs con su progreso respecto al objetivo (Value / Target * 100).
func buildKPIs() []dto.KPIDTO {
	hundred := decimal.NewFromInt(100)
	out := make([]dto.KPIDTO, 0, len(mockKPIs))
	for _, k := range mockKPIs {
		value := decimal.RequireFromString(k.value)
		target := decimal.RequireFromString(k.target)
		out = append(out, dto.KPIDTO{
			Name:     k.name,
			Value:    value,
			Target:   target,
			Unit:     k.unit,
			Progress: value.Div(target).Mul(hundred).Round(1),
		})
	}
	return out
}
