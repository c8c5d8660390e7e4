package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/manifoldscope/manifoldscope/internal/analytics"
	"github.com/manifoldscope/manifoldscope/internal/domain"
	"github.com/manifoldscope/manifoldscope/internal/ingest"
	"github.com/manifoldscope/manifoldscope/internal/platform/manifold"
	"github.com/manifoldscope/manifoldscope/internal/render"
	"github.com/manifoldscope/manifoldscope/internal/users"
)

const slugPrefix = "slug:"

// AnalyzeMode fetches a market's full bet history from the API, aggregates
// it, and writes the report artifacts.
func (a *App) AnalyzeMode(ctx context.Context, deps *Dependencies) error {
	if a.opts.MarketID == "" {
		return fmt.Errorf("app: analyze mode requires a market ID")
	}

	market, err := a.lookupMarket(ctx, deps)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "market resolved",
		slog.String("market_id", market.ID),
		slog.String("question", market.Question),
	)

	bets, err := deps.Manifold.FetchAllBets(ctx, market.ID, a.cfg.Fetch.PageSize)
	if err != nil {
		return fmt.Errorf("app: fetch bets: %w", err)
	}
	a.logger.InfoContext(ctx, "bets fetched", slog.Int("count", len(bets)))

	normalizer := ingest.NewNormalizer(a.logger)
	res := normalizer.Bets(manifold.ToRawBets(bets))

	// Multi-answer bets carry answer IDs; swap in the display text so the
	// aggregation labels are readable.
	for i := range res.Trades {
		if res.Trades[i].Answer != "" {
			res.Trades[i].Answer = market.AnswerLabel(res.Trades[i].Answer)
		}
	}

	summary := analytics.Assemble(analytics.AssembleInput{
		Market:      market,
		Trades:      res.Trades,
		Diagnostics: res.Diagnostics,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	})

	a.annotateNames(ctx, deps, &summary)

	return a.emit(ctx, deps, summary)
}

// ParseMode reads trade lines from a text file (or stdin) and produces the
// same report without touching the API.
func (a *App) ParseMode(ctx context.Context, deps *Dependencies) error {
	lines, err := a.readInputLines()
	if err != nil {
		return err
	}

	// Zero valid records is not an error; the pipeline produces a zero-valued
	// summary and an empty report.
	ref := time.Now().UTC()
	if a.cfg.Parse.ReferenceDate != "" {
		ref, err = time.Parse("2006-01-02", a.cfg.Parse.ReferenceDate)
		if err != nil {
			return fmt.Errorf("app: parse reference date: %w", err)
		}
	}

	normalizer := ingest.NewNormalizer(a.logger)
	res := normalizer.Lines(lines, ref)
	a.logger.InfoContext(ctx, "input parsed",
		slog.Int("trades", len(res.Trades)),
		slog.Int("skipped", len(res.Diagnostics)),
	)

	summary := analytics.Assemble(analytics.AssembleInput{
		Trades:      res.Trades,
		Diagnostics: res.Diagnostics,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	})

	return a.emit(ctx, deps, summary)
}

// ServeMode runs a full analysis and then serves the output directory over
// HTTP until the context is cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	if err := a.AnalyzeMode(ctx, deps); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.FileServer(http.Dir(a.cfg.Report.OutputDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("serving reports",
			slog.String("addr", addr),
			slog.String("dir", a.cfg.Report.OutputDir),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// lookupMarket resolves the configured market reference, accepting either a
// raw market ID or a "slug:" prefixed URL slug.
func (a *App) lookupMarket(ctx context.Context, deps *Dependencies) (domain.Market, error) {
	ref := a.opts.MarketID
	if slug, ok := strings.CutPrefix(ref, slugPrefix); ok {
		market, err := deps.Manifold.GetMarketBySlug(ctx, slug)
		if err != nil {
			return domain.Market{}, fmt.Errorf("app: lookup market: %w", err)
		}
		return market, nil
	}

	market, err := deps.Manifold.GetMarket(ctx, ref)
	if err != nil {
		return domain.Market{}, fmt.Errorf("app: lookup market: %w", err)
	}
	return market, nil
}

// annotateNames resolves display names for the leaderboard, in leaderboard
// order so the cap lands on the least interesting traders.
func (a *App) annotateNames(ctx context.Context, deps *Dependencies, summary *domain.MarketSummary) {
	ids := make([]string, 0, len(summary.Leaderboard))
	for _, t := range summary.Leaderboard {
		ids = append(ids, t.TraderID)
	}

	names := deps.Resolver.DisplayNames(ctx, ids)
	users.Annotate(summary, names)
}

// emit renders and writes all configured artifacts for the summary: the HTML
// report and summary JSON always, the XLSX workbook and the S3 upload when
// enabled.
func (a *App) emit(ctx context.Context, deps *Dependencies, summary domain.MarketSummary) error {
	page, err := deps.Renderer.Render(summary)
	if err != nil {
		return fmt.Errorf("app: render report: %w", err)
	}

	outDir := a.cfg.Report.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("app: create output dir: %w", err)
	}

	htmlPath := filepath.Join(outDir, "report.html")
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return fmt.Errorf("app: write report: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("app: marshal summary: %w", err)
	}
	jsonPath := filepath.Join(outDir, "summary.json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("app: write summary: %w", err)
	}

	if a.cfg.Report.XLSX {
		xlsxPath := filepath.Join(outDir, "report.xlsx")
		if err := render.WriteXLSX(summary, xlsxPath); err != nil {
			return fmt.Errorf("app: write workbook: %w", err)
		}
	}

	if deps.Publisher != nil {
		key, err := deps.Publisher.Publish(ctx, summary, page)
		if err != nil {
			return err
		}
		a.logger.InfoContext(ctx, "report uploaded", slog.String("key", key))
	}

	a.logger.InfoContext(ctx, "report written",
		slog.String("html", htmlPath),
		slog.String("json", jsonPath),
		slog.Int("traders", summary.UniqueTraders),
		slog.Int("trades", summary.TradeCount),
	)
	return nil
}

// readInputLines reads the parse-mode input file, "-" meaning stdin.
func (a *App) readInputLines() ([]string, error) {
	var r io.Reader
	if a.opts.InputPath == "" || a.opts.InputPath == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(a.opts.InputPath)
		if err != nil {
			return nil, fmt.Errorf("app: open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("app: read input: %w", err)
	}
	return lines, nil
}
