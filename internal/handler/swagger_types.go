package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// TokenRequest represents the token request body.
type TokenRequest struct {
	ClientID     string `json:"client_id" binding:"required" example:"erp-sync"`
	ClientSecret string `json:"client_secret" binding:"required" example:"s3cret"`
}

// Response is the success envelope.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// PaginatedResponse is the success envelope of list endpoints.
type PaginatedResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    PagMeta     `json:"meta"`
}

// ErrorResponseBody is the error envelope.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}
