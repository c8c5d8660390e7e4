package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// largeObjectBytes is the size at which an artifact switches from a single
// PutObject to a multipart upload. Summary JSON for markets with very long
// histories can cross this.
const largeObjectBytes = 8 * 1024 * 1024

// Publisher uploads a finished report (HTML page plus machine-readable
// summary JSON) to object storage, keyed by run ID so repeated analyses of
// the same market never overwrite each other.
type Publisher struct {
	writer domain.BlobWriter
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a Publisher. prefix is joined in front of every object
// key and may be empty.
func NewPublisher(writer domain.BlobWriter, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		prefix: prefix,
		logger: logger.With(slog.String("component", "publisher")),
	}
}

// Publish uploads the rendered HTML and the summary JSON under
// {prefix}/{runID}/. It returns the key of the HTML object.
func (p *Publisher) Publish(ctx context.Context, summary domain.MarketSummary, html []byte) (string, error) {
	htmlKey := path.Join(p.prefix, summary.RunID, "report.html")
	jsonKey := path.Join(p.prefix, summary.RunID, "summary.json")

	if err := p.put(ctx, htmlKey, html, "text/html; charset=utf-8"); err != nil {
		return "", fmt.Errorf("s3blob: publish report: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("s3blob: marshal summary: %w", err)
	}
	if err := p.put(ctx, jsonKey, data, "application/json"); err != nil {
		return "", fmt.Errorf("s3blob: publish summary: %w", err)
	}

	p.logger.Info("report published",
		slog.Int("html_bytes", len(html)),
		slog.Int("json_bytes", len(data)),
		slog.String("html_key", htmlKey),
		slog.String("json_key", jsonKey),
	)
	return htmlKey, nil
}

// put picks the upload path by size: small artifacts go up in a single
// request, anything at or above largeObjectBytes goes through the multipart
// uploader.
func (p *Publisher) put(ctx context.Context, key string, data []byte, contentType string) error {
	if len(data) >= largeObjectBytes {
		return p.writer.PutMultipart(ctx, key, bytes.NewReader(data), largeObjectBytes)
	}
	return p.writer.Put(ctx, key, bytes.NewReader(data), contentType)
}
