package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/middleware"
	"invoicecheck/internal/service"
	"invoicecheck/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(mockAuth *mocks.MockAuthService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		clientID, _ := middleware.GetClientID(c)
		c.JSON(http.StatusOK, gin.H{"client_id": clientID})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "valid-token").Return(&service.Claims{ClientID: "erp-sync"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	newAuthRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "erp-sync", resp["client_id"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing_header", ""},
		{"not_bearer", "Basic dXNlcjpwYXNz"},
		{"invalid_token", "Bearer bad-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newAuthRouter(mockAuth).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestGetClientID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetClientID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
