// Package reports genera el informe de accesos: cuentas por rol y estado con sus capacidades.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

// maxReportAccounts tope de cuentas listadas en el detalle del informe.
const maxReportAccounts = 500

// RoleSummary fila del resumen por rol.
type RoleSummary struct {
	Role         entity.Role
	Level        int
	Capabilities []string
	ByStatus     map[entity.Status]int
	Total        int
}

// AccessReport datos del informe de accesos.
type AccessReport struct {
	GeneratedAt      time.Time
	GeneratedBy      string
	TotalAccounts    int
	Roles            []RoleSummary
	PendingRequests  int
	PendingApprovals int
	Accounts         []*entity.Account // ordenadas por apellido; como máximo maxReportAccounts
	Truncated        bool
}

// AccessReportUseCase construye el informe y delega el formato en el generador.
type AccessReportUseCase struct {
	accounts  repository.AccountRepository
	requests  repository.AccountRequestRepository
	approvals repository.StrategicApprovalRepository
	policy    *policy.Policy
	generator AccessReportPDFGenerator
	now       func() time.Time
}

// NewAccessReportUseCase construye el caso de uso inyectando sus dependencias.
func NewAccessReportUseCase(
	accounts repository.AccountRepository,
	requests repository.AccountRequestRepository,
	approvals repository.StrategicApprovalRepository,
	pol *policy.Policy,
	generator AccessReportPDFGenerator,
) *AccessReportUseCase {
	return &AccessReportUseCase{
		accounts:  accounts,
		requests:  requests,
		approvals: approvals,
		policy:    pol,
		generator: generator,
		now:       time.Now,
	}
}

// Build reúne los datos del informe.
func (uc *AccessReportUseCase) Build(ctx context.Context, generatedBy string) (*AccessReport, error) {
	total, err := uc.accounts.Count(ctx, repository.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("informe: contar cuentas: %w", err)
	}
	list, err := uc.accounts.List(ctx, repository.AccountFilter{OrderBy: "last_name", Limit: maxReportAccounts})
	if err != nil {
		return nil, fmt.Errorf("informe: listar cuentas: %w", err)
	}
	pendingReq, err := uc.requests.Count(ctx, repository.RequestFilter{Status: entity.RequestPending})
	if err != nil {
		return nil, fmt.Errorf("informe: solicitudes pendientes: %w", err)
	}
	pendingAppr, err := uc.approvals.Count(ctx, repository.ApprovalFilter{Status: entity.ApprovalPending})
	if err != nil {
		return nil, fmt.Errorf("informe: aprobaciones pendientes: %w", err)
	}

	roles := make([]RoleSummary, 0, len(entity.AllRoles()))
	for _, r := range entity.AllRoles() {
		byStatus := make(map[entity.Status]int)
		n := 0
		for _, st := range []entity.Status{entity.StatusActive, entity.StatusPending, entity.StatusSuspended, entity.StatusInactive} {
			c, err := uc.accounts.Count(ctx, repository.AccountFilter{Role: r, Status: st})
			if err != nil {
				return nil, fmt.Errorf("informe: contar %s/%s: %w", r, st, err)
			}
			byStatus[st] = c
			n += c
		}
		roles = append(roles, RoleSummary{
			Role:         r,
			Level:        r.Level(),
			Capabilities: uc.policy.Capabilities(r),
			ByStatus:     byStatus,
			Total:        n,
		})
	}

	return &AccessReport{
		GeneratedAt:      uc.now().UTC(),
		GeneratedBy:      generatedBy,
		TotalAccounts:    total,
		Roles:            roles,
		PendingRequests:  pendingReq,
		PendingApprovals: pendingAppr,
		Accounts:         list,
		Truncated:        total > len(list),
	}, nil
}

// DownloadPDF construye el informe y devuelve (pdfBytes, filename).
func (uc *AccessReportUseCase) DownloadPDF(ctx context.Context, generatedBy string) ([]byte, string, error) {
	report, err := uc.Build(ctx, generatedBy)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateAccessReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("informe: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("informe-accesos-%s.pdf", report.GeneratedAt.Format("20060102-1504"))
	return pdfBytes, filename, nil
}
