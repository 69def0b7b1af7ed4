package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shininglight/church-api/internal/models"
	"github.com/shininglight/church-api/internal/service"
)

type mediaServiceMock struct {
	listResp     []models.MediaItem
	createResp   *models.MediaItem
	createErr    error
	lastReq      service.CreateMediaRequest
	lastFile     *service.UploadedFile
	lastCategory string
	createCalled bool
}

func (m *mediaServiceMock) List(ctx context.Context, category string) ([]models.MediaItem, error) {
	m.lastCategory = category
	return m.listResp, nil
}

func (m *mediaServiceMock) Create(ctx context.Context, req service.CreateMediaRequest, file *service.UploadedFile) (*models.MediaItem, error) {
	m.createCalled = true
	m.lastReq = req
	m.lastFile = file
	return m.createResp, m.createErr
}

func (m *mediaServiceMock) Delete(ctx context.Context, id string) error {
	return nil
}

func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestMediaHandlerListPassesCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mediaServiceMock{}
	handler := NewMediaHandler(mockSvc, UploadLimits{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/media?category=Worship", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Worship", mockSvc.lastCategory)
}

func TestMediaHandlerCreateImageMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	url := "http://localhost:8080/media/uploads/1.jpg"
	mockSvc := &mediaServiceMock{createResp: &models.MediaItem{ID: "m1", MediaType: models.MediaTypeImage, ImageURL: &url}}
	handler := NewMediaHandler(mockSvc, UploadLimits{MaxFileSizeBytes: 1024, AllowedMIMEs: []string{"image/jpeg"}})

	body, contentType := multipartUpload(t, map[string]string{
		"media_type": "Image",
		"category":   "Worship",
	}, "choir.jpg", "image/jpeg", []byte("fake-jpeg"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/media", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, mockSvc.createCalled)
	assert.Equal(t, "Image", mockSvc.lastReq.MediaType)
	require.NotNil(t, mockSvc.lastFile)
	assert.Equal(t, "choir.jpg", mockSvc.lastFile.Name)
	assert.Equal(t, []byte("fake-jpeg"), mockSvc.lastFile.Data)
}

func TestMediaHandlerCreateRejectsOversizedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mediaServiceMock{}
	handler := NewMediaHandler(mockSvc, UploadLimits{MaxFileSizeBytes: 4, AllowedMIMEs: []string{"image/jpeg"}})

	body, contentType := multipartUpload(t, map[string]string{
		"media_type": "Image",
		"category":   "Worship",
	}, "big.jpg", "image/jpeg", []byte("way too many bytes"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/media", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestMediaHandlerCreateRejectsUnknownMIME(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &mediaServiceMock{}
	handler := NewMediaHandler(mockSvc, UploadLimits{MaxFileSizeBytes: 1024, AllowedMIMEs: []string{"image/jpeg"}})

	body, contentType := multipartUpload(t, map[string]string{
		"media_type": "Image",
		"category":   "Worship",
	}, "notes.txt", "text/plain", []byte("hello"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/media", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestMediaHandlerCreateVideoJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	videoURL := "https://youtu.be/abc123"
	mockSvc := &mediaServiceMock{createResp: &models.MediaItem{ID: "m2", MediaType: models.MediaTypeVideo, VideoURL: &videoURL}}
	handler := NewMediaHandler(mockSvc, UploadLimits{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/media", bytes.NewBufferString(`{"media_type":"Video","category":"Sermons","video_url":"https://youtu.be/abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, mockSvc.createCalled)
	assert.Nil(t, mockSvc.lastFile)
	assert.Equal(t, "https://youtu.be/abc123", mockSvc.lastReq.VideoURL)
}
