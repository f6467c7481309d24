// Package taskio reads task lists from the input workbook and from the
// exported CSV format.
package taskio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/projsuite/internal/models"
	"github.com/xuri/excelize/v2"
)

// Missing-prerequisite errors.
var (
	ErrSheetNotFound  = errors.New("input sheet not found")
	ErrHeaderMismatch = errors.New("status header does not match")
	ErrNoRows         = errors.New("no task rows")
)

// RowError reports the sheet or file row that failed to parse.
type RowError struct {
	Row int // 1-based, header is row 1
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Column order of the input table.
const (
	colName = iota
	colStart
	colEnd
	colStatus
	colMilestone
	numCols
)

// WorkbookOptions selects the input sheet and its expected status label.
type WorkbookOptions struct {
	Sheet        string
	StatusHeader string
}

// ReadWorkbook reads the input table of an xlsx workbook. Rows are read from
// row 2 until the first row with an empty task name. Any unparseable row
// aborts the read.
func ReadWorkbook(path string, opts WorkbookOptions) ([]models.Task, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(opts.Sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, opts.Sheet)
	}

	rows, err := f.GetRows(opts.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", opts.Sheet, err)
	}
	return parseTable(rows, opts.StatusHeader)
}

func parseTable(rows [][]string, statusHeader string) ([]models.Task, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet is empty", ErrHeaderMismatch)
	}
	if got := cellAt(rows[0], colStatus); got != statusHeader {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrHeaderMismatch, got, statusHeader)
	}

	var tasks []models.Task
	for i, row := range rows[1:] {
		if strings.TrimSpace(cellAt(row, colName)) == "" {
			break
		}
		t, err := parseRow(row)
		if err != nil {
			return nil, &RowError{Row: i + 2, Err: err}
		}
		tasks = append(tasks, t)
	}
	if len(tasks) == 0 {
		return nil, ErrNoRows
	}
	return tasks, nil
}

func parseRow(row []string) (models.Task, error) {
	start, err := ParseDate(cellAt(row, colStart))
	if err != nil {
		return models.Task{}, fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(cellAt(row, colEnd))
	if err != nil {
		return models.Task{}, fmt.Errorf("end date: %w", err)
	}
	if start.After(end) {
		return models.Task{}, fmt.Errorf("start %s is after end %s", start.Format(DateLayout), end.Format(DateLayout))
	}
	raw := strings.TrimSpace(cellAt(row, colStatus))
	status, _ := models.ParseStatus(raw)
	return models.Task{
		Name:      strings.TrimSpace(cellAt(row, colName)),
		Start:     start,
		End:       end,
		Status:    status,
		RawStatus: raw,
		Milestone: ParseMilestone(cellAt(row, colMilestone)),
	}, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// DateLayout is the exported date format.
const DateLayout = "2006/01/02"

var dateLayouts = []string{DateLayout, "2006-01-02", "2006/1/2", "2006-1-2"}

// ParseDate accepts yyyy/mm/dd, yyyy-mm-dd or an Excel serial day number.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Truncate(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return models.Truncate(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseMilestone reports whether a milestone cell is set.
func ParseMilestone(s string) bool {
	switch strings.TrimSpace(s) {
	case "1", "true", "TRUE", "True", "yes", "YES", "○", "◆", "●":
		return true
	default:
		return false
	}
}

// FormatMilestone is the inverse of ParseMilestone used by the exporter.
func FormatMilestone(m bool) string {
	if m {
		return "1"
	}
	return "0"
}
