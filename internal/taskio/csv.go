package taskio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fentz26/projsuite/internal/models"
)

// CSVHeader is the header line of the exported task file.
const CSVHeader = "task_name,task_start_date,task_finish_date,task_status,task_milestone,project_name"

var csvColumns = strings.Split(CSVHeader, ",")

// Record is one line of the exported task file.
type Record struct {
	Task        models.Task
	ProjectName string
}

// maxLineSize bounds a single line of the task file.
const maxLineSize = 1 << 20

// ReadCSV parses the exported task format. The header must match CSVHeader.
// The format is unquoted: each line is split on commas as-is, so quotes and
// surrounding spaces in names survive a write/read round trip.
func ReadCSV(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrNoRows
	}
	// Files saved by spreadsheet tools often carry a UTF-8 BOM.
	header := strings.TrimPrefix(trimEOL(sc.Text()), "\ufeff")
	if header != CSVHeader {
		return nil, fmt.Errorf("%w: got %q", ErrHeaderMismatch, header)
	}

	var records []Record
	for line := 2; sc.Scan(); line++ {
		text := trimEOL(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != len(csvColumns) {
			return nil, &RowError{Row: line, Err: fmt.Errorf("expected %d fields, got %d", len(csvColumns), len(fields))}
		}
		t, err := parseRow(fields[:numCols])
		if err != nil {
			return nil, &RowError{Row: line, Err: err}
		}
		t.Name = fields[colName]
		records = append(records, Record{Task: t, ProjectName: fields[numCols]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

// trimEOL drops the CR left by CRLF line endings.
func trimEOL(s string) string {
	return strings.TrimSuffix(s, "\r")
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// Tasks strips the project names from records.
func Tasks(records []Record) []models.Task {
	tasks := make([]models.Task, len(records))
	for i, r := range records {
		tasks[i] = r.Task
	}
	return tasks
}
