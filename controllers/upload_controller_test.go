package controllers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geovista-api/services"
)

type stubStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

var _ services.StorageService = (*stubStorage)(nil)

func (s *stubStorage) Save(filename string, content io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	io.Copy(io.Discard, content)
	s.saved = append(s.saved, filename)
	return "/uploads/generated-name", nil
}

func (s *stubStorage) Delete(url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

func uploadRouter(storage services.StorageService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewUploadController(storage)
	router := gin.New()
	router.POST("/uploads", controller.Upload)
	router.DELETE("/uploads/:filename", controller.Delete)
	return router
}

func multipartImage(t *testing.T, field, filename string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadStoresImage(t *testing.T) {
	storage := &stubStorage{}
	router := uploadRouter(storage)

	body, contentType := multipartImage(t, "image", "sunset.png", 128)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "/uploads/generated-name")
	assert.Equal(t, []string{"sunset.png"}, storage.saved)
}

func TestUploadRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		size     int
	}{
		{"wrong form field", "file", "sunset.png", 128},
		{"unsupported extension", "image", "payload.exe", 128},
		{"oversized image", "image", "huge.jpg", maxUploadBytes + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &stubStorage{}
			router := uploadRouter(storage)

			body, contentType := multipartImage(t, tt.field, tt.filename, tt.size)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/uploads", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, storage.saved)
		})
	}
}

func TestUploadReportsStorageFailure(t *testing.T) {
	storage := &stubStorage{saveErr: errors.New("disk full")}
	router := uploadRouter(storage)

	body, contentType := multipartImage(t, "image", "sunset.jpg", 128)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The raw storage error never reaches the client.
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestDeleteUpload(t *testing.T) {
	storage := &stubStorage{}
	router := uploadRouter(storage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/uploads/generated-name.jpg", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"generated-name.jpg"}, storage.deleted)
}
