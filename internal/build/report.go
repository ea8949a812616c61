package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitebook/internal/git"
	"git.home.luguber.info/inful/sitebook/internal/linkverify"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// SkippedEntry is a manifest entry whose source file was not found.
type SkippedEntry struct {
	Slug   string `json:"slug"`
	Source string `json:"source"`
}

// BuildReport captures what a build did.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Revision        *git.Revision // nil outside a git work tree
	OutputDir       string
	Start           time.Time
	End             time.Time
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	Pages           []string // written chapter/volume files, manifest order
	Chapters        int      // written pages that are chapters
	Skipped         []SkippedEntry
	Assets          []string
	BrokenLinks     []linkverify.Broken
	Warnings        []string
	Errors          []error
	Outcome         BuildOutcome
}

func newBuildReport(id, output string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         id,
		OutputDir:       output,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
	}
}

func (r *BuildReport) warn(msg string) { r.Warnings = append(r.Warnings, msg) }

func (r *BuildReport) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

// deriveOutcome sets Outcome based on recorded errors and warnings.
func (r *BuildReport) deriveOutcome() {
	for _, e := range r.Errors {
		if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Elapsed is the wall time between start and finish.
func (r *BuildReport) Elapsed() time.Duration { return r.End.Sub(r.Start) }

// TotalPages counts written pages plus the index.
func (r *BuildReport) TotalPages() int { return len(r.Pages) + 1 }

// TotalLine is the closing console summary.
func (r *BuildReport) TotalLine() string {
	return fmt.Sprintf("Total pages: %d (%d chapters + index)", r.TotalPages(), len(r.Pages))
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.Elapsed()
	return fmt.Sprintf("build=%s pages=%d skipped=%d assets=%d broken_links=%d warnings=%d duration=%s outcome=%s",
		r.BuildID, len(r.Pages), len(r.Skipped), len(r.Assets), len(r.BrokenLinks), len(r.Warnings),
		dur.Truncate(time.Millisecond), r.Outcome)
}

// Persist writes the report as JSON to path atomically.
func (r *BuildReport) Persist(path string) error {
	if r.End.IsZero() {
		r.finish()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, jb, 0o644); err != nil { // #nosec G306 -- report is not secret
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}

// BuildReportSerializable mirrors BuildReport with JSON-friendly fields.
type BuildReportSerializable struct {
	SchemaVersion   int                 `json:"schema_version"`
	BuildID         string              `json:"build_id"`
	Revision        *git.Revision       `json:"revision,omitempty"`
	OutputDir       string              `json:"output_dir"`
	Start           time.Time           `json:"start"`
	End             time.Time           `json:"end"`
	StageDurations  map[string]float64  `json:"stage_durations_ms"`
	StageErrorKinds map[string]string   `json:"stage_error_kinds"`
	Pages           []string            `json:"pages"`
	Chapters        int                 `json:"chapters"`
	Skipped         []SkippedEntry      `json:"skipped"`
	Assets          []string            `json:"assets"`
	BrokenLinks     []linkverify.Broken `json:"broken_links"`
	Warnings        []string            `json:"warnings"`
	Errors          []string            `json:"errors"`
	Outcome         string              `json:"outcome"`
}

func (r *BuildReport) serializable() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Revision:        r.Revision,
		OutputDir:       r.OutputDir,
		Start:           r.Start,
		End:             r.End,
		StageDurations:  make(map[string]float64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		Pages:           nonNil(r.Pages),
		Chapters:        r.Chapters,
		Skipped:         r.Skipped,
		Assets:          nonNil(r.Assets),
		BrokenLinks:     r.BrokenLinks,
		Warnings:        nonNil(r.Warnings),
		Errors:          make([]string, len(r.Errors)),
		Outcome:         string(r.Outcome),
	}
	// Empty lists serialize as [] rather than null.
	if s.Skipped == nil {
		s.Skipped = []SkippedEntry{}
	}
	if s.BrokenLinks == nil {
		s.BrokenLinks = []linkverify.Broken{}
	}
	for k, v := range r.StageDurations {
		s.StageDurations[string(k)] = float64(v.Microseconds()) / 1000
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
