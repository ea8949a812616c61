// Package build runs the site build: it renders every manifest entry to a
// page, writes the index, mirrors the public assets and optionally checks
// the result for dangling links.
//
// Inputs are loaded up front. A failure there, or while preparing the output
// directory, aborts the build. A missing chapter source only skips that
// entry and is reported as a warning.
package build

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebook/internal/assets"
	"git.home.luguber.info/inful/sitebook/internal/config"
	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/git"
	"git.home.luguber.info/inful/sitebook/internal/linkverify"
	"git.home.luguber.info/inful/sitebook/internal/logfields"
	"git.home.luguber.info/inful/sitebook/internal/manifest"
	"git.home.luguber.info/inful/sitebook/internal/markdown"
	"git.home.luguber.info/inful/sitebook/internal/metrics"
	"git.home.luguber.info/inful/sitebook/internal/site"
	"git.home.luguber.info/inful/sitebook/internal/templates"
)

// PublicDirName is the asset directory name inside the output tree.
const PublicDirName = "public"

// Inputs are the immutable artifacts a build reads before touching the output.
type Inputs struct {
	Manifest  *manifest.Manifest
	Templates *templates.Set
}

// LoadInputs reads the manifest and both templates.
func LoadInputs(cfg *config.Config) (*Inputs, error) {
	m, err := manifest.Load(cfg.Paths.Manifest)
	if err != nil {
		return nil, err
	}
	set, err := templates.Load(cfg.Paths.Templates)
	if err != nil {
		return nil, err
	}
	return &Inputs{Manifest: m, Templates: set}, nil
}

// Option customizes a build.
type Option func(*State)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(st *State) {
		if r != nil {
			st.recorder = r
		}
	}
}

// WithBuildID fixes the build id instead of generating one.
func WithBuildID(id string) Option {
	return func(st *State) { st.Report.BuildID = id }
}

// State carries build inputs and accumulated results across stages.
type State struct {
	Config *config.Config
	Inputs *Inputs
	Report *BuildReport

	nav      *manifest.Manifest
	present  map[string]bool // slug -> source exists
	pages    *site.Builder
	recorder metrics.Recorder
	log      *slog.Logger
}

// Stages returns the stage list for cfg.
func Stages(cfg *config.Config) []StageDef {
	defs := []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageRenderPages, stageRenderPages},
		{StageRenderIndex, stageRenderIndex},
		{StageCopyAssets, stageCopyAssets},
	}
	if cfg.Build.VerifyLinks {
		defs = append(defs, StageDef{StageVerifyLinks, stageVerifyLinks})
	}
	return defs
}

// Run executes the build. The report is returned even when err is non-nil.
func Run(ctx context.Context, cfg *config.Config, in *Inputs, opts ...Option) (*BuildReport, error) {
	st := &State{
		Config:   cfg,
		Inputs:   in,
		Report:   newBuildReport(uuid.NewString(), cfg.Paths.Output),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(st)
	}
	st.log = slog.Default().With(logfields.BuildID(st.Report.BuildID))

	if rev, err := git.ReadRevision(cfg.ProjectDir); err == nil {
		st.Report.Revision = rev
	} else {
		st.log.Debug("No source revision", logfields.Error(err))
	}

	st.log.Info("Starting build", logfields.Output(cfg.Paths.Output), logfields.Count(len(in.Manifest.Entries)))
	err := runStages(ctx, st, Stages(cfg))
	st.Report.finish()

	dur := st.Report.Elapsed()
	st.recorder.ObserveBuildDuration(dur)
	st.recorder.IncBuildOutcome(string(st.Report.Outcome))
	if err != nil {
		return st.Report, err
	}
	st.log.Info("Build complete",
		logfields.Output(cfg.Paths.Output),
		slog.Int("pages", st.Report.TotalPages()),
		slog.Int("chapters", st.Report.Chapters),
		slog.Int("skipped", len(st.Report.Skipped)),
		logfields.DurationMS(float64(dur.Microseconds())/1000),
		slog.String("outcome", string(st.Report.Outcome)))
	return st.Report, nil
}

// Execute loads inputs and runs the build.
func Execute(ctx context.Context, cfg *config.Config, opts ...Option) (*BuildReport, error) {
	in, err := LoadInputs(cfg)
	if err != nil {
		return nil, err
	}
	return Run(ctx, cfg, in, opts...)
}

func stagePrepareOutput(_ context.Context, st *State) error {
	out := st.Config.Paths.Output
	if err := os.RemoveAll(out); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
			WithContext("path", out).Fatal().Build()
	}
	if err := os.MkdirAll(out, 0o755); err != nil { // #nosec G301 -- published site
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", out).Fatal().Build()
	}
	return nil
}

func (st *State) sourcePath(e manifest.Entry) string {
	return filepath.Join(st.Config.Paths.Sources, filepath.FromSlash(e.Source))
}

// resolveSources records which entries have a source file and derives the
// navigation manifest. Each missing source is warned about exactly once.
func (st *State) resolveSources() error {
	st.present = make(map[string]bool, len(st.Inputs.Manifest.Entries))
	for _, e := range st.Inputs.Manifest.Entries {
		info, err := os.Stat(st.sourcePath(e))
		switch {
		case err == nil && !info.IsDir():
			st.present[e.Slug] = true
		case err == nil || stdErrors.Is(err, fs.ErrNotExist):
			st.log.Warn("Source not found, skipping", logfields.Slug(e.Slug), logfields.Source(e.Source))
			st.Report.Skipped = append(st.Report.Skipped, SkippedEntry{Slug: e.Slug, Source: e.Source})
			st.Report.warn(fmt.Sprintf("%s: source %s not found", e.Slug, e.Source))
		default:
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot stat source").
				WithContext("slug", e.Slug).WithContext("path", st.sourcePath(e)).Fatal().Build()
		}
	}
	st.recorder.AddSourcesMissing(len(st.Report.Skipped))

	st.nav = st.Inputs.Manifest
	if !st.Config.Navigation.KeepMissing {
		st.nav = st.Inputs.Manifest.Filter(func(e manifest.Entry) bool { return st.present[e.Slug] })
	}
	return nil
}

func (st *State) builder() *site.Builder {
	n := st.Config.Navigation
	labels := site.Labels{
		VolumesHeading: n.VolumesHeading,
		InPageHeading:  n.InPageHeading,
		ChapterPrefix:  n.ChapterPrefix,
		VolumePrefix:   n.VolumePrefix,
		RomanFallback:  n.RomanFallback,
	}
	r := markdown.NewRenderer(markdown.Options{
		HighlightStyle:   st.Config.Markdown.HighlightStyle,
		StripFrontMatter: st.Config.Markdown.StripFrontMatter,
	})
	return site.NewBuilder(st.Inputs.Templates, st.nav, r, labels)
}

func stageRenderPages(ctx context.Context, st *State) error {
	if err := st.resolveSources(); err != nil {
		return err
	}
	st.pages = st.builder()

	for _, e := range st.Inputs.Manifest.Entries {
		if err := ctx.Err(); err != nil {
			return &StageError{Kind: StageErrorCanceled, Stage: StageRenderPages, Err: err}
		}
		if !st.present[e.Slug] {
			continue
		}
		src, err := os.ReadFile(st.sourcePath(e)) // #nosec G304 -- configured sources dir
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to read source").
				WithContext("slug", e.Slug).WithContext("path", st.sourcePath(e)).Fatal().Build()
		}
		page, err := st.pages.RenderPage(e, src)
		if err != nil {
			if ce, ok := errors.AsClassified(err); ok {
				return ce.WithContext("slug", e.Slug)
			}
			return err
		}
		path := filepath.Join(st.Config.Paths.Output, page.FileName())
		if err := writePage(path, page.HTML); err != nil {
			return err
		}
		st.log.Info("Wrote page", logfields.Path(page.FileName()), logfields.Kind(string(e.Kind())))
		st.Report.Pages = append(st.Report.Pages, page.FileName())
		if !e.IsVolume() {
			st.Report.Chapters++
		}
	}
	st.recorder.AddPagesRendered(len(st.Report.Pages))
	return nil
}

func stageRenderIndex(_ context.Context, st *State) error {
	if st.pages == nil {
		return errors.InternalError("index rendered before pages").Build()
	}
	if err := writePage(filepath.Join(st.Config.Paths.Output, templates.IndexFile), st.pages.RenderIndex()); err != nil {
		return err
	}
	st.log.Info("Wrote page", logfields.Path(templates.IndexFile))
	return nil
}

func stageCopyAssets(_ context.Context, st *State) error {
	dst := filepath.Join(st.Config.Paths.Output, PublicDirName)
	copied, found, err := assets.CopyTree(st.Config.Paths.Public, dst)
	if !found && err == nil {
		st.log.Info("No public directory found; skipping asset copy", logfields.Path(st.Config.Paths.Public))
		return nil
	}
	for _, rel := range copied {
		st.log.Info("Copied asset", logfields.Path(PublicDirName+"/"+rel))
	}
	st.Report.Assets = copied
	st.recorder.AddAssetsCopied(len(copied))
	return err
}

func stageVerifyLinks(_ context.Context, st *State) error {
	res, err := linkverify.VerifySite(st.Config.Paths.Output)
	if err != nil {
		return err
	}
	for _, b := range res.Broken {
		st.log.Warn("Broken link", logfields.Path(b.Page), logfields.URL(b.URL), slog.String("reason", string(b.Reason)))
		st.Report.warn(fmt.Sprintf("%s: broken link %s (%s)", b.Page, b.URL, b.Reason))
	}
	st.Report.BrokenLinks = res.Broken
	st.recorder.AddBrokenLinks(len(res.Broken))
	st.log.Info("Links verified", slog.Int("pages", res.Pages), slog.Int("links", res.Links), slog.Int("broken", len(res.Broken)))
	return nil
}

func writePage(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 -- published site
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", path).Fatal().Build()
	}
	return nil
}
