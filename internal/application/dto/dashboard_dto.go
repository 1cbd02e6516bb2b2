package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIDTO indicador del resumen estratégico.
type KPIDTO struct {
	Name     string          `json:"name"`
	Value    decimal.Decimal `json:"value"`
	Target   decimal.Decimal `json:"target"`
	Unit     string          `json:"unit"`     // "%" o "/5"
	Progress decimal.Decimal `json:"progress"` // Value / Target * 100, redondeado a 1 decimal
}

// ExecutiveSummaryDTO respuesta de GET /api/dashboard/executive.
type ExecutiveSummaryDTO struct {
	TotalAccounts             int       `json:"total_accounts"`
	ActiveAccounts            int       `json:"active_accounts"`
	PendingAccountRequests    int       `json:"pending_account_requests"`
	PendingStrategicApprovals int       `json:"pending_strategic_approvals"`
	KPIs                      []KPIDTO  `json:"kpis"`
	GeneratedAt               time.Time `json:"generated_at"`
}

// AdminOverviewDTO respuesta de GET /api/dashboard/admin.
type AdminOverviewDTO struct {
	PendingRequests  []AccountRequestResponse `json:"pending_requests"`
	RecentAccounts   []AccountResponse        `json:"recent_accounts"`
	AccountsByRole   map[string]int           `json:"accounts_by_role"`
	AccountsByStatus map[string]int           `json:"accounts_by_status"`
}
