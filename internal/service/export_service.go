package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/export"
)

type exportStatsRepository interface {
	Stats(ctx context.Context) ([]models.CourseStats, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFormat names a supported stats download format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered stats download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the admin statistics as downloadable files.
type ExportService struct {
	stats  exportStatsRepository
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(stats exportStatsRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{stats: stats, csv: csv, pdf: pdf, logger: logger}
}

// Generate builds the stats dataset and renders it in the given format.
func (s *ExportService) Generate(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stats")
	}

	dataset := buildStatsDataset(stats)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Course Statistics")
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("course_stats_%s.%s", time.Now().UTC().Format("20060102_150405"), format)

	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildStatsDataset(stats []models.CourseStats) export.Dataset {
	rows := make([]map[string]string, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, map[string]string{
			"Title":       stat.Title,
			"Enrollments": strconv.Itoa(stat.EnrollmentCount),
			"Views":       strconv.Itoa(stat.Views),
		})
	}
	return export.Dataset{
		Headers: []string{"Title", "Enrollments", "Views"},
		Rows:    rows,
	}
}
