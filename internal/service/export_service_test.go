package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shininglight/church-api/internal/models"
	appErrors "github.com/shininglight/church-api/pkg/errors"
)

type exportStoreStub struct {
	saved map[string][]byte
}

func (s *exportStoreStub) Save(filename string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[filename] = data
	return filename, nil
}

func (s *exportStoreStub) Path(filename string) string {
	return "/exports/" + filename
}

type exportSignerStub struct {
	lastRelPath string
	parseErr    error
}

func (s *exportSignerStub) Generate(exportID, relPath string) (string, time.Time, error) {
	s.lastRelPath = relPath
	return "signed-token", time.Now().Add(30 * time.Minute), nil
}

func (s *exportSignerStub) Parse(token string, allowExpired bool) (string, string, time.Time, error) {
	if s.parseErr != nil {
		return "", "", time.Time{}, s.parseErr
	}
	return "export-1", s.lastRelPath, time.Now().Add(time.Minute), nil
}

func sampleApplications() []models.WorkerApplication {
	age := 27
	experience := "Two years in the choir"
	return []models.WorkerApplication{{
		ID:                 "a1",
		FullName:           "Jane Doe",
		Email:              "jane@example.com",
		PhoneNumber:        "08012345678",
		Gender:             "female",
		Age:                &age,
		Departments:        []string{"choir", "media"},
		PreviousExperience: &experience,
		DateSubmitted:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}}
}

func TestExportServiceGenerateCSV(t *testing.T) {
	store := &exportStoreStub{}
	signer := &exportSignerStub{}
	svc := NewExportService(&applicationRepoStub{applications: sampleApplications()}, store, signer, zap.NewNop())

	result, err := svc.GenerateApplications(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.True(t, strings.HasPrefix(result.Filename, "applications/"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	payload := string(store.saved[result.Filename])
	assert.Contains(t, payload, "Jane Doe")
	assert.Contains(t, payload, "choir, media")
}

func TestExportServiceGeneratePDF(t *testing.T) {
	store := &exportStoreStub{}
	svc := NewExportService(&applicationRepoStub{applications: sampleApplications()}, store, &exportSignerStub{}, zap.NewNop())

	result, err := svc.GenerateApplications(context.Background(), "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.NotEmpty(t, store.saved[result.Filename])
}

func TestExportServiceGenerateUnknownFormat(t *testing.T) {
	svc := NewExportService(&applicationRepoStub{}, &exportStoreStub{}, &exportSignerStub{}, zap.NewNop())

	_, err := svc.GenerateApplications(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceResolveInvalidToken(t *testing.T) {
	signer := &exportSignerStub{parseErr: appErrors.ErrUnauthorized}
	svc := NewExportService(&applicationRepoStub{}, &exportStoreStub{}, signer, zap.NewNop())

	_, err := svc.Resolve("tampered")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestExportServiceResolveReturnsStorePath(t *testing.T) {
	signer := &exportSignerStub{lastRelPath: "applications/export-1.csv"}
	svc := NewExportService(&applicationRepoStub{}, &exportStoreStub{}, signer, zap.NewNop())

	path, err := svc.Resolve("signed-token")
	require.NoError(t, err)
	assert.Equal(t, "/exports/applications/export-1.csv", path)
}
