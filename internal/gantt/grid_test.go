package gantt

import (
	"errors"
	"testing"
	"time"

	"github.com/fentz26/projsuite/internal/models"
)

func task(name string, start, end time.Time, status models.TaskStatus) models.Task {
	return models.Task{Name: name, Start: start, End: end, Status: status}
}

func exampleTasks() []models.Task {
	return []models.Task{
		task("Design", models.Date(2025, 1, 1), models.Date(2025, 1, 5), models.TaskStatusInProgress),
		task("Build", models.Date(2025, 1, 3), models.Date(2025, 1, 10), models.TaskStatusCompleted),
	}
}

func TestBuild_Example(t *testing.T) {
	tests := []struct {
		name      string
		today     time.Time
		designBar BarKind
		wantToday int
	}{
		{"before design ends", models.Date(2025, 1, 4), BarOnTrack, 3},
		{"on design end date", models.Date(2025, 1, 5), BarOnTrack, 4},
		{"after design ends", models.Date(2025, 1, 6), BarOverdue, 5},
		{"after the span", models.Date(2025, 2, 1), BarOverdue, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(exampleTasks(), tt.today)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if !g.Start.Equal(models.Date(2025, 1, 1)) || !g.End.Equal(models.Date(2025, 1, 10)) {
				t.Errorf("span = %s..%s, want 2025-01-01..2025-01-10", g.Start, g.End)
			}
			if g.Columns() != 10 {
				t.Errorf("Expected 10 columns, got %d", g.Columns())
			}
			if g.TodayCol != tt.wantToday {
				t.Errorf("TodayCol = %d, want %d", g.TodayCol, tt.wantToday)
			}

			design, build := g.Rows[0], g.Rows[1]
			if design.StartCol != 0 || design.EndCol != 4 {
				t.Errorf("Design bar = %d..%d, want 0..4", design.StartCol, design.EndCol)
			}
			if design.Bar != tt.designBar {
				t.Errorf("Design bar = %s, want %s", design.Bar, tt.designBar)
			}
			if build.StartCol != 2 || build.EndCol != 9 {
				t.Errorf("Build bar = %d..%d, want 2..9", build.StartCol, build.EndCol)
			}
			if build.Bar != BarCompleted {
				t.Errorf("Build bar = %s, want completed", build.Bar)
			}
		})
	}
}

func TestBuild_ColumnsAreContiguous(t *testing.T) {
	tasks := []models.Task{
		task("A", models.Date(2024, 2, 27), models.Date(2024, 3, 2), models.TaskStatusNotStarted),
		task("B", models.Date(2024, 12, 30), models.Date(2025, 1, 2), models.TaskStatusNotStarted),
		task("C", models.Date(2024, 3, 1), models.Date(2024, 3, 1), models.TaskStatusNotStarted),
	}
	g, err := Build(tasks, models.Date(2024, 6, 1))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := int(g.End.Sub(g.Start).Hours()/24) + 1
	if g.Columns() != want {
		t.Fatalf("Expected %d columns, got %d", want, g.Columns())
	}
	for i := 1; i < len(g.Days); i++ {
		if got := g.Days[i].Date.Sub(g.Days[i-1].Date); got != 24*time.Hour {
			t.Fatalf("column %d is %v after column %d", i, got, i-1)
		}
	}
	if !g.Days[0].Date.Equal(models.Date(2024, 2, 27)) {
		t.Errorf("first day = %s", g.Days[0].Date)
	}
	if !g.Days[len(g.Days)-1].Date.Equal(models.Date(2025, 1, 2)) {
		t.Errorf("last day = %s", g.Days[len(g.Days)-1].Date)
	}
}

func TestBuild_InvalidTaskAbortsBuild(t *testing.T) {
	tests := []struct {
		name string
		bad  models.Task
		want error
	}{
		{"start after end", task("X", models.Date(2025, 1, 9), models.Date(2025, 1, 2), models.TaskStatusNotStarted), ErrInvalidRange},
		{"missing start", task("X", time.Time{}, models.Date(2025, 1, 2), models.TaskStatusNotStarted), ErrInvalidDate},
		{"missing end", task("X", models.Date(2025, 1, 2), time.Time{}, models.TaskStatusNotStarted), ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := append(exampleTasks(), tt.bad)
			g, err := Build(tasks, models.Date(2025, 1, 1))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if g != nil {
				t.Error("Expected no grid on validation failure")
			}
		})
	}
}

func TestBuild_NoTasks(t *testing.T) {
	if _, err := Build(nil, time.Now()); !errors.Is(err, ErrNoTasks) {
		t.Errorf("Expected ErrNoTasks, got %v", err)
	}
}

func TestBuild_SpanTooWide(t *testing.T) {
	tasks := []models.Task{
		task("Typo", models.Date(202, 1, 5), models.Date(202, 1, 6), models.TaskStatusNotStarted),
		task("Build", models.Date(2025, 1, 1), models.Date(2025, 1, 2), models.TaskStatusNotStarted),
	}
	g, err := Build(tasks, models.Date(2025, 1, 1))
	if !errors.Is(err, ErrSpanTooWide) {
		t.Fatalf("Expected ErrSpanTooWide, got %v", err)
	}
	if g != nil {
		t.Error("Expected no grid for an oversized span")
	}

	start := models.Date(2025, 1, 1)
	widest := []models.Task{task("Long", start, start.AddDate(0, 0, MaxDays-1), models.TaskStatusNotStarted)}
	g, err = Build(widest, start)
	if err != nil {
		t.Fatalf("Build failed at the limit: %v", err)
	}
	if g.Columns() != MaxDays {
		t.Errorf("Expected %d columns, got %d", MaxDays, g.Columns())
	}
}

func TestDaysBetween_LongSpans(t *testing.T) {
	a := models.Date(202, 1, 5)
	tests := []int{0, 1, 365, 700000}
	for _, days := range tests {
		if got := daysBetween(a, a.AddDate(0, 0, days)); got != days {
			t.Errorf("daysBetween(+%d) = %d", days, got)
		}
	}
	if got := daysBetween(a.AddDate(0, 0, 10), a); got != -10 {
		t.Errorf("daysBetween(-10) = %d", got)
	}
}

func TestClassifyDay(t *testing.T) {
	// 2025-01-04 is a Saturday.
	tests := []struct {
		date time.Time
		want DayKind
	}{
		{models.Date(2025, 1, 3), Weekday},
		{models.Date(2025, 1, 4), Saturday},
		{models.Date(2025, 1, 5), Sunday},
		{models.Date(2025, 1, 6), Weekday},
		{time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC), Sunday},
	}
	for _, tt := range tests {
		if got := ClassifyDay(tt.date); got != tt.want {
			t.Errorf("ClassifyDay(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestClassifyDay_IndependentOfTasks(t *testing.T) {
	a, err := Build(exampleTasks(), models.Date(2025, 1, 1))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := Build([]models.Task{
		task("Other", models.Date(2025, 1, 1), models.Date(2025, 1, 10), models.TaskStatusCompleted),
	}, models.Date(2030, 1, 1))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := range a.Days {
		if a.Days[i].Kind != b.Days[i].Kind {
			t.Errorf("day %s classified differently", a.Days[i].Date)
		}
	}
}

func TestBarFor(t *testing.T) {
	today := models.Date(2025, 3, 10)
	tests := []struct {
		status models.TaskStatus
		end    time.Time
		want   BarKind
	}{
		{models.TaskStatusCompleted, models.Date(2025, 1, 1), BarCompleted},
		{models.TaskStatusCompleted, models.Date(2026, 1, 1), BarCompleted},
		{models.TaskStatusInProgress, models.Date(2025, 3, 9), BarOverdue},
		{models.TaskStatusInProgress, models.Date(2025, 3, 10), BarOnTrack},
		{models.TaskStatusNotStarted, models.Date(2025, 3, 9), BarOverdue},
		{models.TaskStatusNotStarted, models.Date(2025, 4, 1), BarOnTrack},
	}
	for _, tt := range tests {
		if got := BarFor(tt.status, tt.end, today); got != tt.want {
			t.Errorf("BarFor(%s, %s) = %s, want %s", tt.status, tt.end.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestBuild_CellClassification(t *testing.T) {
	// 2025-01-01 is a Wednesday; today is Friday 2025-01-03.
	tasks := []models.Task{
		task("Short", models.Date(2025, 1, 2), models.Date(2025, 1, 2), models.TaskStatusNotStarted),
		task("Long", models.Date(2025, 1, 1), models.Date(2025, 1, 7), models.TaskStatusNotStarted),
	}
	g, err := Build(tasks, models.Date(2025, 1, 3))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []CellKind{
		CellPastDue,  // Wed 1, before today
		CellBar,      // Thu 2
		CellPlain,    // Fri 3, today
		CellSaturday, // Sat 4
		CellSunday,   // Sun 5
		CellPlain,    // Mon 6
		CellPlain,    // Tue 7
	}
	got := g.Rows[0].Cells
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %s, want %s", i, got[i], want[i])
		}
	}
	for i, c := range g.Rows[1].Cells {
		if c != CellBar {
			t.Errorf("Long cell %d = %s, want bar", i, c)
		}
	}
}

func TestPalette_Fill(t *testing.T) {
	p := DefaultPalette()
	g, err := Build(exampleTasks(), models.Date(2025, 1, 20))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := p.Fill(g.Rows[0], 0); got != p.Overdue {
		t.Errorf("Design fill = %s, want overdue %s", got, p.Overdue)
	}
	if got := p.Fill(g.Rows[1], 5); got != p.Completed {
		t.Errorf("Build fill = %s, want completed %s", got, p.Completed)
	}
	// Column 5 is Monday 2025-01-06, after Design's bar and before today.
	if got := p.Fill(g.Rows[0], 5); got != p.PastDue {
		t.Errorf("Design col 5 fill = %s, want past-due %s", got, p.PastDue)
	}
}
