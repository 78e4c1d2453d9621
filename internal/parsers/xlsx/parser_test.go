package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Inventory"))
	require.NoError(t, f.SetCellValue("Inventory", "A1", "Item"))
	require.NoError(t, f.SetCellValue("Inventory", "B1", "Count"))
	require.NoError(t, f.SetCellValue("Inventory", "A2", "Widgets"))
	require.NoError(t, f.SetCellValue("Inventory", "B2", 42))

	_, err := f.NewSheet("Empty")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stock.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestParse(t *testing.T) {
	path := writeTestWorkbook(t)

	elements, err := New().Parse(context.Background(), path)
	require.NoError(t, err)

	// Empty sheet is skipped.
	require.Len(t, elements, 1)

	el := elements[0]
	assert.Equal(t, "Table", el.Category)
	assert.Contains(t, el.Text, "Inventory")
	assert.Contains(t, el.Text, "Widgets | 42")
	require.NotNil(t, el.Metadata.PageNumber)
	assert.Equal(t, 1, *el.Metadata.PageNumber)
	assert.Contains(t, el.Metadata.TextAsHTML, "<th>Item</th>")
	assert.Contains(t, el.Metadata.TextAsHTML, "<td>Widgets</td>")
}

func TestParse_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := New().Parse(context.Background(), path)
	assert.Error(t, err)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".xlsx"}, New().Extensions())
}
