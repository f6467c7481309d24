package gantt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Layout of the chart sheet.
const (
	GridColumn   = 7 // first day column (G); A-E hold task fields, F is a spacer
	HeaderRows   = 4 // year, month, day, weekday
	FirstTaskRow = HeaderRows + 1
	LegendGap    = 2
)

var taskHeaders = []string{"Task", "Start", "End", "Status", "Milestone"}

var weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MilestoneMark is written into the end cell of a milestone task's bar.
const MilestoneMark = "◆"

// RenderOptions controls the chart sheet.
type RenderOptions struct {
	Sheet   string
	Palette Palette
}

// WriteWorkbook renders g into a new workbook at path. The file only appears
// once every cell has been written.
func WriteWorkbook(path string, g *Grid, opts RenderOptions) (err error) {
	if g == nil {
		return ErrNoTasks
	}
	if opts.Sheet == "" {
		opts.Sheet = "Gantt"
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", opts.Sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	w := &sheetWriter{f: f, sheet: opts.Sheet, palette: opts.Palette, styles: make(map[styleKey]int)}
	if err := w.writeHeader(g); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range g.Rows {
		if err := w.writeRow(g, FirstTaskRow+i, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := w.writeLegend(FirstTaskRow + len(g.Rows) + LegendGap); err != nil {
		return fmt.Errorf("write legend: %w", err)
	}
	if err := w.sizeColumns(g); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}

	// Save beside the target and rename so a failed save leaves nothing behind.
	// The temp name keeps the extension; excelize picks the format from it.
	tmp := filepath.Join(filepath.Dir(path), ".~"+filepath.Base(path))
	if err := f.SaveAs(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move workbook into place: %w", err)
	}
	return nil
}

type styleKey struct {
	fill  string
	today bool
	bold  bool
}

type sheetWriter struct {
	f       *excelize.File
	sheet   string
	palette Palette
	styles  map[styleKey]int
}

func (w *sheetWriter) style(k styleKey) (int, error) {
	if id, ok := w.styles[k]; ok {
		return id, nil
	}
	s := &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
	if k.fill != "" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{k.fill}}
	}
	if k.today {
		s.Border = []excelize.Border{
			{Type: "left", Color: w.palette.Today, Style: 2},
			{Type: "right", Color: w.palette.Today, Style: 2},
		}
	}
	if k.bold {
		s.Font = &excelize.Font{Bold: true}
	}
	id, err := w.f.NewStyle(s)
	if err != nil {
		return 0, err
	}
	w.styles[k] = id
	return id, nil
}

func (w *sheetWriter) set(col, row int, value interface{}, k styleKey) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if value != nil {
		if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
			return err
		}
	}
	id, err := w.style(k)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, cell, cell, id)
}

func (w *sheetWriter) writeHeader(g *Grid) error {
	for i, h := range taskHeaders {
		if err := w.set(i+1, HeaderRows, h, styleKey{bold: true}); err != nil {
			return err
		}
	}

	for c, day := range g.Days {
		col := GridColumn + c
		today := c == g.TodayCol
		fill := w.palette.Cell(dayCell(day.Kind))
		if today {
			fill = w.palette.Today
		}
		values := []interface{}{
			day.Date.Year(),
			int(day.Date.Month()),
			day.Date.Day(),
			weekdayLabels[day.Date.Weekday()],
		}
		for r, v := range values {
			// Year and month are written once per run and merged below.
			if r < 2 && c > 0 && sameRun(g.Days[c-1], day, r) {
				v = nil
			}
			if err := w.set(col, r+1, v, styleKey{fill: fill, today: today, bold: r < 2}); err != nil {
				return err
			}
		}
	}

	for r := 0; r < 2; r++ {
		if err := w.mergeRuns(g, r); err != nil {
			return err
		}
	}
	return nil
}

func sameRun(prev, cur Day, headerRow int) bool {
	if headerRow == 0 {
		return prev.Date.Year() == cur.Date.Year()
	}
	return prev.Date.Year() == cur.Date.Year() && prev.Date.Month() == cur.Date.Month()
}

func (w *sheetWriter) mergeRuns(g *Grid, headerRow int) error {
	runStart := 0
	for c := 1; c <= len(g.Days); c++ {
		if c < len(g.Days) && sameRun(g.Days[c-1], g.Days[c], headerRow) {
			continue
		}
		if c-1 > runStart {
			from, err := excelize.CoordinatesToCellName(GridColumn+runStart, headerRow+1)
			if err != nil {
				return err
			}
			to, err := excelize.CoordinatesToCellName(GridColumn+c-1, headerRow+1)
			if err != nil {
				return err
			}
			if err := w.f.MergeCell(w.sheet, from, to); err != nil {
				return err
			}
		}
		runStart = c
	}
	return nil
}

func (w *sheetWriter) writeRow(g *Grid, rowNum int, row Row) error {
	t := row.Task
	milestone := ""
	if t.Milestone {
		milestone = MilestoneMark
	}
	fields := []interface{}{
		t.Name,
		t.Start.Format("2006/01/02"),
		t.End.Format("2006/01/02"),
		t.StatusLabel(),
		milestone,
	}
	for i, v := range fields {
		if err := w.set(i+1, rowNum, v, styleKey{}); err != nil {
			return err
		}
	}

	for c := range row.Cells {
		var v interface{}
		if t.Milestone && c == row.EndCol {
			v = MilestoneMark
		}
		k := styleKey{fill: w.palette.Fill(row, c), today: c == g.TodayCol}
		if err := w.set(GridColumn+c, rowNum, v, k); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) writeLegend(rowNum int) error {
	if err := w.set(1, rowNum, "Legend", styleKey{bold: true}); err != nil {
		return err
	}
	for i, e := range w.palette.Legend() {
		r := rowNum + 1 + i
		if err := w.set(1, r, nil, styleKey{fill: e.Color}); err != nil {
			return err
		}
		if err := w.set(2, r, e.Label, styleKey{}); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) sizeColumns(g *Grid) error {
	if err := w.f.SetColWidth(w.sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := w.f.SetColWidth(w.sheet, "B", "C", 12); err != nil {
		return err
	}
	if err := w.f.SetColWidth(w.sheet, "F", "F", 2); err != nil {
		return err
	}
	first, err := excelize.ColumnNumberToName(GridColumn)
	if err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(GridColumn + len(g.Days) - 1)
	if err != nil {
		return err
	}
	return w.f.SetColWidth(w.sheet, first, last, 4)
}

func dayCell(k DayKind) CellKind {
	switch k {
	case Sunday:
		return CellSunday
	case Saturday:
		return CellSaturday
	default:
		return CellPlain
	}
}

// ColumnName returns the sheet column letter of grid column c.
func ColumnName(c int) string {
	name, err := excelize.ColumnNumberToName(GridColumn + c)
	if err != nil {
		return strconv.Itoa(GridColumn + c)
	}
	return name
}
