package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"invoicecheck/docs"
)

func TestSwaggerDoc_IsValidAndCoversRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger  string                     `json:"swagger"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api/v1", doc.BasePath)

	for _, path := range []string{
		"/auth/token",
		"/invoices/process",
		"/invoices/extract",
		"/batches",
		"/bills",
		"/bills/{bill_id}",
		"/runs",
		"/runs/export.csv",
		"/runs/{id}",
		"/runs/{id}/report.xlsx",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
