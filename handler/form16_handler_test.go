package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Santhanasabari/KSTAX/dto"
	"github.com/Santhanasabari/KSTAX/service"
)

func newTestRouter(form16Path string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	form16Service := service.NewForm16Service(service.NewPDFProcessor(), nil, nil, form16Path)
	h := NewForm16Handler(form16Service, service.NewReportService(), service.NewExcelService())

	router := gin.New()
	router.GET("/api/v1/form16/extract", h.ExtractConfigured)
	router.POST("/api/v1/form16/extract", h.ExtractUpload)
	router.GET("/api/v1/form16/raw", h.DownloadRaw)
	return router
}

func TestExtractConfiguredDocumentMissing(t *testing.T) {
	router := newTestRouter("/nonexistent/form16.pdf")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/form16/extract", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "EXTRACTION_FAILED", errResp.Error)
	assert.Equal(t, http.StatusNotFound, errResp.Code)
}

func TestDownloadRawDocumentMissing(t *testing.T) {
	router := newTestRouter("/nonexistent/form16.pdf")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/form16/raw", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtractUploadRejectsNonPDF(t *testing.T) {
	router := newTestRouter("/nonexistent/form16.pdf")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	assert.NoError(t, err)
	_, err = part.Write([]byte("plain text, not a certificate"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/form16/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractUploadMissingFile(t *testing.T) {
	router := newTestRouter("/nonexistent/form16.pdf")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	assert.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/form16/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
