// Package docs holds the OpenAPI document served at /swagger. It is
// maintained by hand alongside the route table in internal/router; a new
// route needs an entry under "paths" here.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token": {
            "post": {
                "description": "Exchange API client credentials for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue an access token",
                "parameters": [
                    {
                        "description": "Client credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.TokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/batches": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Fetch the digital invoice list and process every entry synchronously",
                "produces": ["application/json"],
                "tags": ["batches"],
                "summary": "Run the GSPPI batch",
                "responses": {
                    "200": {"description": "Batch finished", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "502": {"description": "Invoice source unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/bills": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["batches"],
                "summary": "List processed bills",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Processed log", "schema": {"$ref": "#/definitions/handler.PaginatedResponse"}}
                }
            }
        },
        "/bills/{bill_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return the processed-log entry of a GSPPI bill",
                "produces": ["application/json"],
                "tags": ["batches"],
                "summary": "Get a processed bill",
                "parameters": [
                    {"type": "string", "description": "GSPPI bill id", "name": "bill_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Processed-log entry", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Bill not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/invoices/extract": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Upload a single-page invoice PDF and return its extracted fields without validating them",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Extract an invoice",
                "parameters": [
                    {"type": "file", "description": "Invoice PDF", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Invoice extracted", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing file, unsupported type or bad PDF structure", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "502": {"description": "Extraction failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/invoices/process": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Upload a single-page invoice PDF, extract its fields and validate them against the billing profile",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Extract and validate an invoice",
                "parameters": [
                    {"type": "file", "description": "Invoice PDF", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Invoice processed", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing file, unsupported type or bad PDF structure", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "502": {"description": "Extraction failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/runs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List validation runs",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Validation runs", "schema": {"$ref": "#/definitions/handler.PaginatedResponse"}}
                }
            }
        },
        "/runs/export.csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "tags": ["runs"],
                "summary": "Export validation runs as CSV",
                "responses": {
                    "200": {"description": "CSV export", "schema": {"type": "file"}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Get a validation run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Validation run", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid run ID", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Run not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/runs/{id}/report.xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["runs"],
                "summary": "Download a run's validation report",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Spreadsheet report", "schema": {"type": "file"}},
                    "404": {"description": "Run not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.PaginatedResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.TokenRequest": {
            "type": "object",
            "required": ["client_id", "client_secret"],
            "properties": {
                "client_id": {"type": "string", "example": "erp-sync"},
                "client_secret": {"type": "string", "example": "s3cret"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Invoice Check API",
	Description:      "Extracts fields from single-page GST tax invoices and validates them against the supplier's billing profile.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
