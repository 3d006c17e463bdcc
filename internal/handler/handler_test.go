package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartRequest(t *testing.T, url, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported_type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too_large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"invalid_pdf", fmt.Errorf("pdftext.Read: %w", domain.ErrInvalidPDF), http.StatusBadRequest, "INVALID_PDF"},
		{"multi_page", fmt.Errorf("%w: the document has 3 pages", domain.ErrMultiPagePDF), http.StatusBadRequest, "MULTI_PAGE_PDF"},
		{"blank", domain.ErrBlankPDF, http.StatusBadRequest, "BLANK_PDF"},
		{"extraction", fmt.Errorf("%w: timeout", domain.ErrExtractionFailed), http.StatusBadGateway, "EXTRACTION_FAILED"},
		{"missing_section", domain.ErrMissingSection, http.StatusUnprocessableEntity, "INVALID_EXTRACTION"},
		{"field_type", domain.ErrInvalidFieldType, http.StatusUnprocessableEntity, "INVALID_EXTRACTION"},
		{"source", domain.ErrSourceUnavailable, http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
		{"bill", domain.ErrBillNotFound, http.StatusNotFound, "BILL_NOT_FOUND"},
		{"run", domain.ErrRunNotFound, http.StatusNotFound, "RUN_NOT_FOUND"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapDomainError_MultiPageNamesPageCount(t *testing.T) {
	_, _, msg := handler.MapDomainError(fmt.Errorf("%w: the document has 3 pages", domain.ErrMultiPagePDF))
	assert.Contains(t, msg, "3 pages")
}

func TestHealthHandler_WithoutDatabase(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	for _, fn := range []gin.HandlerFunc{h.Root, h.Liveness, h.Readiness} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)

		fn(c)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}
