package metadata_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/metadata"
)

func TestRecorderRecordError(t *testing.T) {
	buf := &bytes.Buffer{}
	r := metadata.NewRecorder(buf)

	r.RecordError(time.Now(), "fetcher", "Fetch", metadata.CauseNetworkFailure, "connection reset",
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, "https://example.com")})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "fetcher", decoded["package"])
	require.Equal(t, "connection reset", decoded["message"])
	require.Equal(t, "https://example.com", decoded["url"])
}

func TestRecorderRecordFinalCrawlStats(t *testing.T) {
	buf := &bytes.Buffer{}
	r := metadata.NewRecorder(buf)

	r.RecordFinalCrawlStats(metadata.CrawlStats{
		Site:        "example",
		TotalPages:  10,
		TotalErrors: 1,
		DurationMs:  500,
	})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "example", decoded["site"])
	require.Equal(t, float64(10), decoded["total_pages"])
}
