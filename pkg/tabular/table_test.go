package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	in := "name,category,price\nChapter Mug,drinkware,12.00\nChapter Tee,apparel,$25.00\n"
	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "category", "price"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, []string{"Chapter Mug", "drinkware", "12.00"}, table.Rows[0].Fields)
	assert.Equal(t, 3, table.Rows[1].Line)
}

func TestReadCSV_StripsBOM(t *testing.T) {
	in := "\xef\xbb\xbfname,price\nChapter Mug,12.00\n"
	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "name", table.Headers[0])
}

func TestReadCSV_RaggedRows(t *testing.T) {
	in := "name,category,price\nChapter Mug,drinkware\n"
	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Chapter Mug", "drinkware"}, table.Rows[0].Fields)
}

func TestReadCSV_MissingHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")
}

func TestOpen_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"member_number", "first_name", "last_name"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]any{"10234", "John", "Doe"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]any{"10235", "Jane", "Smith"}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	table, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"member_number", "first_name", "last_name"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, []string{"10234", "John", "Doe"}, table.Rows[0].Fields)
}

func TestOpen_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("member_number,first_name\n10234,John\n"), 0o644))

	table, err := Open(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "10234", table.Rows[0].Fields[0])
}
