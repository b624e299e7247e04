package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Table is one uploaded spreadsheet, fully read into memory. Rows carry their
// original line number so row-level errors can point back at the source file.
type Table struct {
	Headers []string
	Rows    []Row
}

type Row struct {
	Line   int
	Fields []string
}

// Open reads path as CSV or, when the extension is .xlsx, as a workbook.
func Open(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV parses comma-separated UTF-8 input. A UTF-8 byte-order-mark on the
// first header is stripped before any matching happens.
func ReadCSV(r io.Reader) (*Table, error) {
	br := stripUTF8BOM(bufio.NewReader(r))

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("missing header")
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if !utf8.ValidString(header[i]) {
			return nil, fmt.Errorf("invalid header encoding")
		}
	}

	t := &Table{Headers: header}
	line := 1
	for {
		line++
		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) == 0 {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: line, Fields: rec})
	}
	return t, nil
}

func readWorkbook(path string) (*Table, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	t := &Table{Headers: header}
	for i, rec := range rows[1:] {
		if len(rec) == 0 {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 2, Fields: rec})
	}
	return t, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
