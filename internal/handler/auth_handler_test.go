package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/handler"
	"invoicecheck/internal/service"
	"invoicecheck/mocks"
)

func tokenRequest(body interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Token_Success(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	mockAuth.On("IssueToken", mock.Anything, service.TokenInput{ClientID: "erp-sync", ClientSecret: "s3cret"}).
		Return(&service.Token{AccessToken: "access-token", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = tokenRequest(map[string]string{"client_id": "erp-sync", "client_secret": "s3cret"})

	h.Token(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Token_InvalidCredentials(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)
	mockAuth.On("IssueToken", mock.Anything, mock.AnythingOfType("service.TokenInput")).
		Return(nil, domain.ErrInvalidCredentials)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = tokenRequest(map[string]string{"client_id": "erp-sync", "client_secret": "wrong"})

	h.Token(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandler_Token_MissingFields(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = tokenRequest(map[string]string{"client_id": "erp-sync"})

	h.Token(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuth.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
}
