package gantt

// Palette holds the hex fill colors (RRGGBB, no leading #) of the chart.
type Palette struct {
	Sunday    string `yaml:"sunday" mapstructure:"sunday"`
	Saturday  string `yaml:"saturday" mapstructure:"saturday"`
	PastDue   string `yaml:"past_due" mapstructure:"past_due"`
	OnTrack   string `yaml:"on_track" mapstructure:"on_track"`
	Overdue   string `yaml:"overdue" mapstructure:"overdue"`
	Completed string `yaml:"completed" mapstructure:"completed"`
	Today     string `yaml:"today" mapstructure:"today"`
}

// DefaultPalette returns the stock chart colors.
func DefaultPalette() Palette {
	return Palette{
		Sunday:    "FFC7CE",
		Saturday:  "BDD7EE",
		PastDue:   "E7E6E6",
		OnTrack:   "92D050",
		Overdue:   "FF9900",
		Completed: "A6A6A6",
		Today:     "FF0000",
	}
}

// Cell returns the fill for a non-bar cell, or "" for a plain cell.
func (p Palette) Cell(k CellKind) string {
	switch k {
	case CellSunday:
		return p.Sunday
	case CellSaturday:
		return p.Saturday
	case CellPastDue:
		return p.PastDue
	default:
		return ""
	}
}

// Bar returns the fill for a task bar.
func (p Palette) Bar(k BarKind) string {
	switch k {
	case BarOverdue:
		return p.Overdue
	case BarCompleted:
		return p.Completed
	default:
		return p.OnTrack
	}
}

// Fill returns the color of cell c of row r.
func (p Palette) Fill(r Row, c int) string {
	k := r.Cells[c]
	if k == CellBar {
		return p.Bar(r.Bar)
	}
	return p.Cell(k)
}

// LegendEntry is one line of the legend block.
type LegendEntry struct {
	Label string
	Color string
}

// Legend lists each color's meaning in display order.
func (p Palette) Legend() []LegendEntry {
	return []LegendEntry{
		{"Sunday", p.Sunday},
		{"Saturday", p.Saturday},
		{"Past (no task)", p.PastDue},
		{"Task on schedule", p.OnTrack},
		{"Task overdue", p.Overdue},
		{"Task completed", p.Completed},
		{"Today", p.Today},
	}
}
