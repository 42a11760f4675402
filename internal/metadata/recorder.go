package metadata

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// MetadataSink is the observability boundary every pipeline component
// writes through. It never influences control flow: callers decide what
// to do about an error before reporting it here, not the other way
// around.
type MetadataSink interface {
	RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, errString string, attrs []Attribute)
	RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, crawlDepth int)
	RecordArtifact(artifactType ArtifactType, path string, attrs []Attribute)
}

// CrawlFinalizer records the terminal summary of a completed crawl,
// exactly once, after the scheduler has already decided to stop.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(stats CrawlStats)
}

// Recorder is the concrete structured-logging implementation of
// MetadataSink and CrawlFinalizer, backed by zerolog.
type Recorder struct {
	log zerolog.Logger
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		log: zerolog.New(w).With().Timestamp().Logger(),
	}
}

func NewConsoleRecorder(w io.Writer) *Recorder {
	return &Recorder{
		log: zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger(),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName, action string,
	cause ErrorCause,
	errString string,
	attrs []Attribute,
) {
	event := r.log.Error().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Int("cause", int(cause))
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg(errString)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	crawlDepth int,
) {
	r.log.Info().
		Str("url", fetchUrl).
		Int("status", httpStatus).
		Dur("duration", duration).
		Str("content_type", contentType).
		Int("depth", crawlDepth).
		Msg("fetch")
}

func (r *Recorder) RecordArtifact(artifactType ArtifactType, path string, attrs []Attribute) {
	event := r.log.Info().
		Str("artifact", string(artifactType)).
		Str("path", path)
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg("artifact written")
}

func (r *Recorder) RecordFinalCrawlStats(stats CrawlStats) {
	r.log.Info().
		Str("site", stats.Site).
		Int("total_pages", stats.TotalPages).
		Int("total_errors", stats.TotalErrors).
		Int("total_assets", stats.TotalAssets).
		Int64("duration_ms", stats.DurationMs).
		Msg("crawl finished")
}

var (
	_ MetadataSink   = (*Recorder)(nil)
	_ CrawlFinalizer = (*Recorder)(nil)
)

// NoopSink discards everything. Test packages embed it and override only
// the methods they need to assert on.
type NoopSink struct{}

func (NoopSink) RecordError(time.Time, string, string, ErrorCause, string, []Attribute) {}
func (NoopSink) RecordFetch(string, int, time.Duration, string, int)                    {}
func (NoopSink) RecordArtifact(ArtifactType, string, []Attribute)                       {}

var _ MetadataSink = NoopSink{}
