// Package export writes task lists in the flat CSV format consumed by the
// project database loader.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fentz26/projsuite/internal/models"
	"github.com/fentz26/projsuite/internal/taskio"
	"github.com/rs/zerolog"
)

// Errors returned before any file is written.
var (
	ErrNoRows           = errors.New("no task rows to export")
	ErrOutputDirMissing = errors.New("output directory not found")
)

// Options controls field sanitizing.
type Options struct {
	// StripCommas removes commas and line breaks from fields instead of
	// quoting them. Stripped content is lost.
	StripCommas bool
}

// Stats summarizes a write.
type Stats struct {
	Records  int
	Stripped int // fields altered by sanitizing
}

// ProjectNameFromFile returns the segment after the last underscore of the
// file's base name, without extension. It is empty if there is no underscore.
func ProjectNameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return ""
	}
	return base[i+1:]
}

// Write emits the header and one line per task.
func Write(w io.Writer, tasks []models.Task, projectName string, opts Options) (Stats, error) {
	var stats Stats
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(taskio.CSVHeader + "\n"); err != nil {
		return stats, err
	}

	clean := func(s string) string {
		if !opts.StripCommas {
			return s
		}
		c := sanitize(s)
		if c != s {
			stats.Stripped++
		}
		return c
	}

	project := clean(projectName)
	for _, t := range tasks {
		fields := []string{
			clean(t.Name),
			t.Start.Format(taskio.DateLayout),
			t.End.Format(taskio.DateLayout),
			clean(t.StatusLabel()),
			taskio.FormatMilestone(t.Milestone),
			project,
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return stats, err
		}
		stats.Records++
	}
	return stats, bw.Flush()
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// Exporter writes task files into an output directory.
type Exporter struct {
	opts Options
	log  zerolog.Logger
}

// New creates an Exporter.
func New(opts Options, log zerolog.Logger) *Exporter {
	return &Exporter{opts: opts, log: log.With().Str("component", "export").Logger()}
}

// ExportFile writes tasks read from sourcePath to outDir/<source base>.csv
// and returns the written path. Nothing is created when tasks is empty or
// outDir does not exist.
func (e *Exporter) ExportFile(sourcePath, outDir string, tasks []models.Task) (string, error) {
	if len(tasks) == 0 {
		return "", ErrNoRows
	}
	info, err := os.Stat(outDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrOutputDirMissing, outDir)
	}

	base := filepath.Base(sourcePath)
	target := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".csv")

	tmp, err := os.CreateTemp(outDir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	stats, err := Write(tmp, tasks, ProjectNameFromFile(sourcePath), e.opts)
	if err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close csv: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("move csv into place: %w", err)
	}
	committed = true

	if stats.Stripped > 0 {
		e.log.Warn().Int("fields", stats.Stripped).Str("file", target).Msg("commas and line breaks stripped from exported fields")
	}
	e.log.Info().Int("records", stats.Records).Str("file", target).Msg("exported tasks")
	return target, nil
}
