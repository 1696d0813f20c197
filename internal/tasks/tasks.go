// package tasks implements the notation finding pipeline.
//
// The core abstraction is FinderEngine, which runs search, download,
// conversion and verification over ranked candidates, stopping at the first
// result that survives the whole gauntlet. The pipeline is fully sequential:
// one candidate in flight at a time, no retries beyond advancing to the next
// search result.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scorefinder/internal/fetch"
	"github.com/desertthunder/scorefinder/internal/models"
	"github.com/desertthunder/scorefinder/internal/scrape"
	"github.com/desertthunder/scorefinder/internal/services"
	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/desertthunder/scorefinder/internal/verifier"
)

// defaultMaxAttempts bounds how many ranked candidates one run will try.
const defaultMaxAttempts = 5

// Fetcher downloads a single URL. Implemented by [fetch.Downloader].
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Download, error)
}

// FailureStore records candidate URLs that failed processing and exposes the
// known-bad set for search exclusion. Implemented by
// repositories.FailureRepository; a nil store disables the cache.
type FailureStore interface {
	Record(url, reason string) error
	Set() (map[string]struct{}, error)
}

// Verifier checks notation file bytes for structural validity.
type Verifier interface {
	Verify(data []byte, format models.Format) models.VerificationResult
}

// Attempt traces one candidate through the pipeline, keeping the stage that
// rejected it for reporting.
type Attempt struct {
	Result models.SearchResult
	Stage  string // "download", "scrape", "convert", "verify", or "ok"
	Err    error
}

// FindResult contains the artifact and verification data from a successful run.
type FindResult struct {
	Score        models.Score
	Verification models.VerificationResult
	Attempts     []Attempt
}

// EngineOpts contains dependencies and policy for a FinderEngine.
type EngineOpts struct {
	Searcher  services.Searcher
	Converter services.Converter
	Fetcher   Fetcher
	Verifier  Verifier
	Failures  FailureStore
	Logger    *log.Logger

	OutputDir       string
	MaxAttempts     int
	MinimumMeasures int
}

// FinderEngine orchestrates the search → fetch → convert → verify → persist
// pipeline.
type FinderEngine struct {
	searcher  services.Searcher
	converter services.Converter
	fetcher   Fetcher
	verifier  Verifier
	failures  FailureStore
	logger    *log.Logger

	outputDir       string
	maxAttempts     int
	minimumMeasures int
}

// NewFinderEngine creates a FinderEngine with the provided options.
func NewFinderEngine(opts EngineOpts) *FinderEngine {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.NewDownloader(nil)
	}
	if opts.Verifier == nil {
		opts.Verifier = verifier.New()
	}

	return &FinderEngine{
		searcher:        opts.Searcher,
		converter:       opts.Converter,
		fetcher:         opts.Fetcher,
		verifier:        opts.Verifier,
		failures:        opts.Failures,
		logger:          opts.Logger,
		outputDir:       opts.OutputDir,
		maxAttempts:     opts.MaxAttempts,
		minimumMeasures: opts.MinimumMeasures,
	}
}

// Search runs the notation search with failed URLs excluded.
func (e *FinderEngine) Search(ctx context.Context, title, artist string) ([]models.SearchResult, error) {
	return e.searcher.Search(ctx, title, artist, e.excludeSet())
}

// Find runs the full pipeline and returns the first candidate that passes
// download, optional conversion, and verification.
//
// An empty search is ErrNoResults; exhausting the attempt budget without a
// verified file is ErrNoValidNotation.
func (e *FinderEngine) Find(ctx context.Context, title, artist string) (*FindResult, error) {
	results, err := e.Search(ctx, title, artist)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, shared.ErrNoResults
	}

	limit := min(e.maxAttempts, len(results))
	attempts := make([]Attempt, 0, limit)

	for _, result := range results[:limit] {
		e.logger.Info("processing candidate", "rank", result.Rank, "format", result.Format, "url", result.URL)

		score, verification, attempt := e.process(ctx, result, title)
		attempts = append(attempts, attempt)

		if attempt.Err != nil {
			e.logger.Warn("candidate failed", "stage", attempt.Stage, "err", attempt.Err)
			e.recordFailure(result.URL, attempt)
			continue
		}

		return &FindResult{Score: *score, Verification: verification, Attempts: attempts}, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", shared.ErrNoValidNotation, len(attempts))
}

// Process runs a single chosen candidate through the pipeline, recording a
// failure like the main loop does. Used by the interactive picker.
func (e *FinderEngine) Process(ctx context.Context, result models.SearchResult, title string) (*FindResult, error) {
	score, verification, attempt := e.process(ctx, result, title)
	if attempt.Err != nil {
		e.recordFailure(result.URL, attempt)
		return nil, fmt.Errorf("%s: %w", attempt.Stage, attempt.Err)
	}
	return &FindResult{Score: *score, Verification: verification, Attempts: []Attempt{attempt}}, nil
}

// process takes one candidate from URL to verified bytes on disk.
func (e *FinderEngine) process(ctx context.Context, result models.SearchResult, title string) (*models.Score, models.VerificationResult, Attempt) {
	attempt := Attempt{Result: result}

	fail := func(stage string, err error) (*models.Score, models.VerificationResult, Attempt) {
		attempt.Stage, attempt.Err = stage, err
		return nil, models.VerificationResult{}, attempt
	}

	dl, err := e.fetcher.Fetch(ctx, result.URL)
	if err != nil {
		return fail("download", err)
	}

	format := result.Format

	// A hit can land on the score's page instead of the file; scrape it for
	// a direct notation link and fetch that instead.
	if dl.IsHTML() {
		links, err := scrape.NotationLinks(result.URL, dl.Body)
		if err != nil {
			return fail("scrape", err)
		}

		link := links[0]
		e.logger.Debug("following scraped link", "url", link.URL, "format", link.Format)

		if dl, err = e.fetcher.Fetch(ctx, link.URL); err != nil {
			return fail("download", err)
		}
		format = link.Format
	} else if format == models.FormatOther {
		format = models.DetectFormat(dl.Filename)
	}

	payload := dl.Body
	finalFormat := format

	if format.NeedsConversion() {
		doc, err := e.converter.Convert(ctx, dl.Body, format)
		if err != nil {
			return fail("convert", err)
		}

		payload = []byte(doc)
		finalFormat = models.FormatMusicXML
	}

	verification := e.verifier.Verify(payload, finalFormat)
	if !verification.Valid {
		return fail("verify", fmt.Errorf("%w: %s", shared.ErrVerificationFailed, verification.Message))
	}

	// Converted output is model text; very short scores are usually partial
	// transcriptions, so gate them on a minimum measure count.
	if format.NeedsConversion() && e.minimumMeasures > 0 && verification.Details["measures"] < e.minimumMeasures {
		return fail("verify", fmt.Errorf("%w: score has fewer than %d measures", shared.ErrVerificationFailed, e.minimumMeasures))
	}

	path := filepath.Join(e.outputDir, shared.SanitizeTitle(title)+"."+finalFormat.Extension())
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fail("persist", fmt.Errorf("failed to write score: %w", err))
	}

	attempt.Stage = "ok"
	score := &models.Score{
		Title:  title,
		Path:   path,
		Format: finalFormat,
		Source: result.URL,
	}

	e.logger.Info("saved score", "path", path, "format", finalFormat)
	return score, verification, attempt
}

func (e *FinderEngine) excludeSet() map[string]struct{} {
	if e.failures == nil {
		return nil
	}
	set, err := e.failures.Set()
	if err != nil {
		e.logger.Warn("failed to load failed-URL cache", "err", err)
		return nil
	}
	return set
}

func (e *FinderEngine) recordFailure(url string, attempt Attempt) {
	if e.failures == nil {
		return
	}

	reason := attempt.Stage
	if attempt.Err != nil {
		reason = fmt.Sprintf("%s: %v", attempt.Stage, attempt.Err)
	}
	if err := e.failures.Record(url, reason); err != nil {
		e.logger.Warn("failed to record failed URL", "url", url, "err", err)
	}
}
