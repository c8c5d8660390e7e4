package s3blob

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

type recordingWriter struct {
	puts       []string
	multiparts []string
}

func (w *recordingWriter) Put(_ context.Context, path string, _ io.Reader, _ string) error {
	w.puts = append(w.puts, path)
	return nil
}

func (w *recordingWriter) PutMultipart(_ context.Context, path string, _ io.Reader, _ int64) error {
	w.multiparts = append(w.multiparts, path)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishUploadsBothArtifacts(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, "reports", testLogger())

	summary := domain.MarketSummary{MarketID: "m1", RunID: "run-1"}
	key, err := p.Publish(context.Background(), summary, []byte("<html></html>"))
	require.NoError(t, err)

	assert.Equal(t, "reports/run-1/report.html", key)
	assert.Equal(t, []string{"reports/run-1/report.html", "reports/run-1/summary.json"}, w.puts)
	assert.Empty(t, w.multiparts, "small artifacts take the single-request path")
}

func TestPublishUsesMultipartForLargeArtifacts(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, "", testLogger())

	summary := domain.MarketSummary{MarketID: "m1", RunID: "run-2"}
	page := bytes.Repeat([]byte("x"), largeObjectBytes)

	_, err := p.Publish(context.Background(), summary, page)
	require.NoError(t, err)

	assert.Equal(t, []string{"run-2/report.html"}, w.multiparts)
	assert.Equal(t, []string{"run-2/summary.json"}, w.puts, "the small JSON still goes up directly")
}
