// Package pdf implementa la generación del informe de accesos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Fecha de generación │ Generado por        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Cuentas | Solicitudes pend. | Aprobaciones pend.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA ROLES: Rol | Nivel | Act | Pend | Susp | Inac | Caps │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA CUENTAS: Nombre | Email | Rol | Estado | Último login │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Portal-api/internal/application/reports"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
)

var _ reports.AccessReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.AccessReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateAccessReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateAccessReportPDF(_ context.Context, report *reports.AccessReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de accesos", true).
		WithAuthor(nonEmpty(report.GeneratedBy, "portal-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Resumen por rol
	m.AddRows(sectionTitleRow("CUENTAS POR ROL"))
	m.AddRows(roleHeaderRow())
	m.AddRows(roleRows(report.Roles)...)

	// Detalle de cuentas
	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow("DETALLE DE CUENTAS"))
	m.AddRows(accountHeaderRow())
	m.AddRows(accountRows(report.Accounts)...)
	if report.Truncated {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Se muestran %d de %d cuentas.", len(report.Accounts), report.TotalAccounts),
				props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y fecha (izq), autor (der).
func headerRow(report *reports.AccessReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("INFORME DE ACCESOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado por", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(report.GeneratedBy, "—"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: totales principales.
func summaryRow(report *reports.AccessReport) core.Row {
	cell := func(label string, value int) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(strconv.Itoa(value), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		cell("Cuentas", report.TotalAccounts),
		cell("Solicitudes pendientes", report.PendingRequests),
		cell("Aprobaciones pendientes", report.PendingApprovals),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// headerCols columnas de cabecera con fondo simulado.
func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).
		Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func roleHeaderRow() core.Row {
	return row.New(8).Add(
		headerCol("Rol", 2, align.Left),
		headerCol("Nivel", 1, align.Center),
		headerCol("Activas", 1, align.Center),
		headerCol("Pend.", 1, align.Center),
		headerCol("Susp.", 1, align.Center),
		headerCol("Inac.", 1, align.Center),
		headerCol("Capacidades", 5, align.Left),
	)
}

// roleRows: una fila por rol; las capacidades se parten en líneas de tres.
func roleRows(roles []reports.RoleSummary) []core.Row {
	result := make([]core.Row, 0, len(roles))
	for _, r := range roles {
		lines := chunk(r.Capabilities, 3)
		height := 4.0*float64(len(lines)) + 3
		if height < 7 {
			height = 7
		}
		caps := make([]core.Component, 0, len(lines))
		for i, l := range lines {
			caps = append(caps, text.New(strings.Join(l, ", "), props.Text{
				Size: 7, Top: 1 + 4*float64(i), Left: 1, Color: colorGray,
			}))
		}
		num := func(n int) core.Col {
			return col.New(1).Add(text.New(strconv.Itoa(n), props.Text{Size: 8, Align: align.Center, Top: 1}))
		}
		result = append(result, row.New(height).Add(
			col.New(2).Add(text.New(string(r.Role), props.Text{Size: 8, Top: 1, Left: 1})),
			num(r.Level),
			num(r.ByStatus[entity.StatusActive]),
			num(r.ByStatus[entity.StatusPending]),
			num(r.ByStatus[entity.StatusSuspended]),
			num(r.ByStatus[entity.StatusInactive]),
			col.New(5).Add(caps...),
		))
	}
	return result
}

func accountHeaderRow() core.Row {
	return row.New(8).Add(
		headerCol("Nombre", 3, align.Left),
		headerCol("Email", 4, align.Left),
		headerCol("Rol", 2, align.Left),
		headerCol("Estado", 1, align.Left),
		headerCol("Último acceso", 2, align.Right),
	)
}

// accountRows: una fila por cuenta.
func accountRows(accounts []*entity.Account) []core.Row {
	result := make([]core.Row, 0, len(accounts))
	for _, a := range accounts {
		lastLogin := "—"
		if a.LastLoginAt != nil {
			lastLogin = a.LastLoginAt.Format("02/01/2006")
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(a.FullName(), props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(4).Add(text.New(a.Email, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(string(a.Role), "—"), props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(1).Add(text.New(string(a.Status), props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(2).Add(text.New(lastLogin, props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Las capacidades de cada rol provienen de la tabla de permisos vigente al generar el informe. "+
				"Documento de uso interno.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// chunk divide items en grupos de como máximo n elementos.
func chunk(items []string, n int) [][]string {
	var parts [][]string
	for len(items) > n {
		parts = append(parts, items[:n])
		items = items[n:]
	}
	if len(items) > 0 {
		parts = append(parts, items)
	}
	return parts
}
