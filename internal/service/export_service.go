package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
	"github.com/ids-upch/advisory-api/pkg/export"
)

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type advisoryHistory interface {
	History(ctx context.Context, actor *models.JWTClaims) ([]models.AdvisoryView, error)
}

// ExportService renders the director advisory history as CSV or PDF.
type ExportService struct {
	advisories advisoryHistory
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	enabled    bool
	logger     *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(advisories advisoryHistory, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		advisories: advisories,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		enabled:    enabled,
		logger:     logger,
	}
}

var historyColumns = []string{
	"Fecha", "Horario", "Estudiante", "Matricula", "Profesor",
	"Materia", "Tema", "Tipo", "Estado", "Observaciones",
}

// RenderHistory produces the advisory history export in the requested
// format. Access control follows the underlying history listing, so only
// directors reach the rendering step.
func (s *ExportService) RenderHistory(ctx context.Context, actor *models.JWTClaims, format string) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	views, err := s.advisories.History(ctx, actor)
	if err != nil {
		return nil, err
	}

	table := export.Table{Columns: historyColumns, Rows: make([][]string, 0, len(views))}
	for _, v := range views {
		table.Rows = append(table.Rows, []string{
			v.Date.Format("2006-01-02"),
			v.TimeSlot,
			v.StudentName,
			v.StudentDisplayID,
			v.ProfessorName,
			v.Subject,
			v.Topic,
			string(v.Type),
			string(v.Status),
			v.Observations,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case "csv":
		content, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("historial_asesorias_%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case "pdf":
		content, err := s.pdf.Render(table, "Historial de Asesorias")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("historial_asesorias_%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
