package pdftext_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/pdftext"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestRead_SinglePage(t *testing.T) {
	doc, err := pdftext.Read(readFixture(t, "single.pdf"))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.PageCount)
	assert.Equal(t, 2, doc.ImageCount)
	assert.False(t, doc.FirstPageBlank)
	assert.Equal(t, "Genius HRTech Limited\nTAX INVOICE\nTotal Invoice Value 11040.00", doc.Text)
	assert.NoError(t, doc.CheckSinglePage())
}

func TestRead_TwoPages(t *testing.T) {
	doc, err := pdftext.Read(readFixture(t, "two_pages.pdf"))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, 1, doc.ImageCount)
	assert.Contains(t, doc.Text, "TAX INVOICE")
	assert.NotContains(t, doc.Text, "Annexure", "only the first page's text is kept")

	err = doc.CheckSinglePage()
	assert.ErrorIs(t, err, domain.ErrMultiPagePDF)
	assert.Contains(t, err.Error(), "2 pages")
}

func TestRead_BlankPage(t *testing.T) {
	doc, err := pdftext.Read(readFixture(t, "blank.pdf"))
	require.NoError(t, err)

	assert.True(t, doc.FirstPageBlank)
	assert.Empty(t, doc.Text)
	assert.ErrorIs(t, doc.CheckSinglePage(), domain.ErrBlankPDF)
}

func TestRead_NotAPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain_text", []byte("this is not a pdf")},
		{"truncated", readFixture(t, "single.pdf")[:200]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pdftext.Read(tt.data)
			assert.ErrorIs(t, err, domain.ErrInvalidPDF)
		})
	}
}
