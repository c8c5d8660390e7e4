// Package render turns a MarketSummary into presentation artifacts: a
// self-contained HTML page (Chart.js via CDN, all data inlined) and an XLSX
// workbook.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

//go:embed report.html.tmpl
var reportTemplate string

// Outcome colors. YES and NO keep their conventional green/red; every other
// label cycles through the palette in first-seen order.
var (
	yesColor = "#22c55e"
	noColor  = "#ef4444"
	palette  = []string{
		"#60a5fa", "#f59e0b", "#a78bfa", "#34d399", "#f472b6",
		"#fbbf24", "#38bdf8", "#fb923c", "#c084fc", "#4ade80",
	}
)

// HTMLRenderer renders the report page.
type HTMLRenderer struct {
	topTraders    int
	marketURLBase string
	tmpl          *template.Template
}

// NewHTML creates an HTMLRenderer. topTraders caps the leaderboard rows shown
// on the page (zero means show everyone). marketURLBase, when non-empty, is
// used to link the page title to the market (base + "/" + slug).
func NewHTML(topTraders int, marketURLBase string) (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: parse template: %w", err)
	}
	return &HTMLRenderer{
		topTraders:    topTraders,
		marketURLBase: marketURLBase,
		tmpl:          tmpl,
	}, nil
}

// Render produces the complete HTML page for the summary.
func (r *HTMLRenderer) Render(summary domain.MarketSummary) ([]byte, error) {
	vm, err := r.buildView(summary)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, vm); err != nil {
		return nil, fmt.Errorf("render: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

type leaderRow struct {
	Rank        int
	Name        string
	TotalVolume string
	TradeCount  int
	BuyCount    int
	SellCount   int
	YesPct      string
	TopOutcomes string
	Badges      []string
	PnL         string
	PnLClass    string
	Impact      string
}

type insightCard struct {
	Title string
	Name  string
	Value string
}

type viewModel struct {
	Title       string
	MarketURL   string
	Probability string
	TotalVolume string
	TradeCount  int
	Traders     int
	PeakMonth   string
	Leading     string
	Insights    []insightCard
	Rows        []leaderRow
	Diagnostics []domain.Diagnostic
	ChartJSON   template.JS
	GeneratedAt string
	RunID       string
}

func (r *HTMLRenderer) buildView(s domain.MarketSummary) (viewModel, error) {
	vm := viewModel{
		Title:       s.Title,
		TradeCount:  s.TradeCount,
		Traders:     s.UniqueTraders,
		PeakMonth:   s.PeakMonth,
		Leading:     s.LeadingOutcome,
		TotalVolume: formatVolume(s.TotalVolume),
		Diagnostics: s.Diagnostics,
		GeneratedAt: s.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		RunID:       s.RunID,
	}
	if vm.Title == "" {
		vm.Title = "Trade Analysis"
	}
	if r.marketURLBase != "" && s.Slug != "" {
		vm.MarketURL = strings.TrimSuffix(r.marketURLBase, "/") + "/" + s.Slug
	}
	if s.HasProbability {
		vm.Probability = fmt.Sprintf("%.1f%%", s.Probability*100)
	}

	vm.Insights = insightCards(s.Insights)

	rows := s.Leaderboard
	if r.topTraders > 0 && len(rows) > r.topTraders {
		rows = rows[:r.topTraders]
	}
	for i, t := range rows {
		row := leaderRow{
			Rank:        i + 1,
			Name:        displayName(t),
			TotalVolume: formatVolume(t.TotalVolume),
			TradeCount:  t.TradeCount,
			BuyCount:    t.BuyCount,
			SellCount:   t.SellCount,
			TopOutcomes: formatTopOutcomes(t.TopOutcomes),
			Badges:      s.Badges[t.TraderID],
		}
		if t.TotalVolume > 0 {
			row.YesPct = fmt.Sprintf("%.0f%%", t.YesVolume/t.TotalVolume*100)
		}
		if p, ok := s.Positions[t.TraderID]; ok {
			row.PnL = formatSigned(p.PnL)
			if p.PnL >= 0 {
				row.PnLClass = "pos"
			} else {
				row.PnLClass = "neg"
			}
		}
		if imp, ok := s.Impact[t.TraderID]; ok {
			row.Impact = fmt.Sprintf("%.1fpp", imp.TotalImpact)
		}
		vm.Rows = append(vm.Rows, row)
	}

	chart, err := chartJSON(s.Cumulative)
	if err != nil {
		return viewModel{}, err
	}
	vm.ChartJSON = template.JS(chart)

	return vm, nil
}

// chartJSON builds the Chart.js payload for the stacked cumulative area
// chart: one label per month, one dataset per outcome, ordered YES, NO, then
// remaining labels lexicographically.
func chartJSON(points []domain.CumulativePoint) (string, error) {
	labels := make([]string, 0, len(points))
	outcomeSet := make(map[string]bool)
	for _, p := range points {
		labels = append(labels, p.MonthKey)
		for o := range p.Volumes {
			outcomeSet[o] = true
		}
	}

	outcomes := make([]string, 0, len(outcomeSet))
	for o := range outcomeSet {
		if o != "YES" && o != "NO" {
			outcomes = append(outcomes, o)
		}
	}
	sort.Strings(outcomes)
	if outcomeSet["NO"] {
		outcomes = append([]string{"NO"}, outcomes...)
	}
	if outcomeSet["YES"] {
		outcomes = append([]string{"YES"}, outcomes...)
	}

	type dataset struct {
		Label           string    `json:"label"`
		Data            []float64 `json:"data"`
		BorderColor     string    `json:"borderColor"`
		BackgroundColor string    `json:"backgroundColor"`
		Fill            bool      `json:"fill"`
		Tension         float64   `json:"tension"`
	}

	payload := struct {
		Labels   []string  `json:"labels"`
		Datasets []dataset `json:"datasets"`
	}{Labels: labels}

	paletteIdx := 0
	for _, o := range outcomes {
		var color string
		switch o {
		case "YES":
			color = yesColor
		case "NO":
			color = noColor
		default:
			color = palette[paletteIdx%len(palette)]
			paletteIdx++
		}

		ds := dataset{
			Label:           o,
			BorderColor:     color,
			BackgroundColor: color + "33", // 20% alpha fill
			Fill:            true,
			Tension:         0.3,
		}
		for _, p := range points {
			ds.Data = append(ds.Data, p.Volumes[o])
		}
		payload.Datasets = append(payload.Datasets, ds)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("render: marshal chart data: %w", err)
	}
	return string(data), nil
}

func insightCards(ins domain.Insights) []insightCard {
	var cards []insightCard
	if f := ins.BiggestWhale; f != nil {
		cards = append(cards, insightCard{"Biggest Whale", factName(f), formatVolume(f.Value)})
	}
	if f := ins.MostActive; f != nil {
		cards = append(cards, insightCard{"Most Active", factName(f), fmt.Sprintf("%d trades", int(f.Value))})
	}
	if f := ins.TopBull; f != nil {
		cards = append(cards, insightCard{"Top Bull", factName(f), fmt.Sprintf("%.0f%% YES", f.Value*100)})
	}
	if f := ins.TopBear; f != nil {
		cards = append(cards, insightCard{"Top Bear", factName(f), fmt.Sprintf("%.0f%% NO", f.Value*100)})
	}
	return cards
}

func factName(f *domain.InsightFact) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.TraderID
}

func displayName(t domain.TraderSummary) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.TraderID
}

func formatTopOutcomes(tops []domain.OutcomeVolume) string {
	parts := make([]string, 0, len(tops))
	for _, ov := range tops {
		parts = append(parts, fmt.Sprintf("%s (%s)", ov.Outcome, formatVolume(ov.Volume)))
	}
	return strings.Join(parts, ", ")
}

func formatVolume(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.2fM", v/1_000_000)
	case v >= 10_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func formatSigned(v float64) string {
	if v >= 0 {
		return "+" + formatVolume(v)
	}
	return "-" + formatVolume(-v)
}
