package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
	"github.com/shininglight/church-api/pkg/export"
)

type exportStore interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type exportSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error)
}

// ExportResult describes a generated export available for download.
type ExportResult struct {
	Token     string    `json:"token"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders worker applications into downloadable CSV/PDF files
// protected by signed URLs.
type ExportService struct {
	applications applicationRepository
	store        exportStore
	signer       exportSigner
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(applications applicationRepository, store exportStore, signer exportSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		applications: applications,
		store:        store,
		signer:       signer,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		logger:       logger,
	}
}

// GenerateApplications renders the current application list in the requested
// format and returns a signed download token.
func (s *ExportService) GenerateApplications(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	applications, err := s.applications.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	dataset := applicationsDataset(applications)

	var payload []byte
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Worker Applications")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("applications/%s.%s", exportID, format)
	if _, err := s.store.Save(filename, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return &ExportResult{Token: token, Filename: filename, ExpiresAt: expiresAt}, nil
}

// Resolve validates a download token and returns the absolute file path.
func (s *ExportService) Resolve(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	return s.store.Path(relPath), nil
}

func applicationsDataset(applications []models.WorkerApplication) export.Dataset {
	headers := []string{"Full Name", "Email", "Phone", "Gender", "Age", "Departments", "Experience", "Submitted"}
	rows := make([]map[string]string, 0, len(applications))
	for _, a := range applications {
		age := ""
		if a.Age != nil {
			age = strconv.Itoa(*a.Age)
		}
		experience := ""
		if a.PreviousExperience != nil {
			experience = *a.PreviousExperience
		}
		rows = append(rows, map[string]string{
			"Full Name":   a.FullName,
			"Email":       a.Email,
			"Phone":       a.PhoneNumber,
			"Gender":      a.Gender,
			"Age":         age,
			"Departments": strings.Join(a.Departments, ", "),
			"Experience":  experience,
			"Submitted":   a.DateSubmitted.Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
