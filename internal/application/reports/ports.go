package reports

import "context"

// AccessReportPDFGenerator genera la representación PDF del informe de accesos.
type AccessReportPDFGenerator interface {
	GenerateAccessReportPDF(ctx context.Context, report *AccessReport) ([]byte, error)
}
