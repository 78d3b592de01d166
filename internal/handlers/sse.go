package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AdeyaOduor/chart-js/internal/models"
	"github.com/AdeyaOduor/chart-js/internal/services"
	"github.com/starfederation/datastar-go/datastar"
)

const maxTableRows = 50

var dailyTableTemplate = template.Must(template.New("dailyTable").Parse(`
<div id="daily-content">
<table class="modern-table">
<thead><tr><th>Date</th><th>Quantity</th><th>Revenue</th><th>Transactions</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Date}}</td>
<td>{{printf "%.2f" .QuantitySum}}</td>
<td><strong>${{printf "%.2f" .RevenueSum}}</strong></td>
<td>{{.TransactionCount}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderDailyTable(daily []models.DateBucket) (string, error) {
	if len(daily) > maxTableRows {
		daily = daily[:maxTableRows]
	}

	var buf strings.Builder
	err := dailyTableTemplate.Execute(&buf, daily)
	return buf.String(), err
}

func (h *SSEHandlers) HandleDailyStats(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderDailyTable(h.analytics.DailyStats())
	if err != nil {
		h.logger.Error("render daily table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"productsData": h.analytics.TopProducts(),
	})
	if err != nil {
		h.logger.Error("marshal products data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="products-content">✅ Top products chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleMovingAverage(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"trendData": h.analytics.MovingAverage(),
	})
	if err != nil {
		h.logger.Error("marshal trend data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="trend-content">✅ Quantity trend chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderDailyTable(h.analytics.DailyStats())
	if err != nil {
		h.logger.Error("render daily table", "error", err)
		return
	}
	sse.PatchElements(html)

	// One signal patch carries every chart series.
	allSignals, err := json.Marshal(map[string]any{
		"productsData": h.analytics.TopProducts(),
		"trendData":    h.analytics.MovingAverage(),
		"summary":      h.analytics.Snapshot().Summary,
	})
	if err != nil {
		h.logger.Error("marshal all signals data", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
