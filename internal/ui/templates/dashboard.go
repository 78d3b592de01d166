// Package templates holds the dashboard page, composed from small
// components. The page itself is static; all data arrives through the
// datastar SSE endpoints after load.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the sales analytics dashboard shell. Chart.js draws the
// top-products and quantity-trend charts from datastar signals; the daily
// stats table is patched in as an HTML fragment.
func Dashboard() templ.Component {
	return page("Sales Analytics",
		uploadCard(),
		chartCard("Top products by revenue", "products-content", "products-chart"),
		chartCard("Quantity trend (moving average)", "trend-content", "trend-chart"),
		tableCard("Daily stats", "daily-content"),
	)
}

// page wraps the sections in the document shell and wires the datastar
// signals and the initial refresh-all fetch.
func page(title string, sections ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, pageHead, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<header><h1>%s</h1></header>\n<main>\n", templ.EscapeString(title)); err != nil {
			return err
		}
		for _, section := range sections {
			if err := section.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</main>\n"); err != nil {
			return err
		}
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}

func uploadCard() templ.Component {
	return card("Upload sales data", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, uploadBody)
		return err
	}))
}

// chartCard is a section with a patch target for the SSE content marker and
// a canvas the Chart.js glue draws into.
func chartCard(title, contentID, canvasID string) templ.Component {
	return card(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<div id=\"%s\">Waiting for data…</div>\n<canvas id=\"%s\" height=\"120\"></canvas>\n",
			templ.EscapeString(contentID), templ.EscapeString(canvasID))
		return err
	}))
}

// tableCard is a section whose whole body is replaced by SSE element patches.
func tableCard(title, contentID string) templ.Component {
	return card(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<div id=\"%s\">Waiting for data…</div>\n", templ.EscapeString(contentID))
		return err
	}))
}

func card(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<section class=\"card\">\n<h2>%s</h2>\n", templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</section>\n")
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6fa; color: #2d3436; }
header { background: #2d3436; color: #fff; padding: 1rem 2rem; }
main { max-width: 1100px; margin: 0 auto; padding: 1rem 2rem; }
.card { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; margin: 1rem 0; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.modern-table { width: 100%%; border-collapse: collapse; }
.modern-table th, .modern-table td { text-align: left; padding: .5rem .75rem; border-bottom: 1px solid #eee; }
.upload-form { display: flex; gap: .75rem; align-items: center; }
</style>
</head>
<body data-signals="{productsData: [], trendData: [], summary: {}}" data-on-load="@get('/sse/refresh-all')">
`

const uploadBody = `<form class="upload-form" action="/api/upload" method="post" enctype="multipart/form-data">
<input type="file" name="file" accept=".csv,.xlsx" required/>
<button type="submit">Analyze</button>
</form>
<p>CSV or XLSX with Date, Product, Quantity and Revenue columns. Column names are matched case-insensitively; qty, amount and price are accepted aliases.</p>
`

const pageFoot = `<script>
let productsChart, trendChart;
function drawCharts(products, trend) {
  const pctx = document.getElementById('products-chart');
  const tctx = document.getElementById('trend-chart');
  if (productsChart) productsChart.destroy();
  productsChart = new Chart(pctx, {
    type: 'bar',
    data: {
      labels: products.map(p => p.product),
      datasets: [{ label: 'Revenue', data: products.map(p => p.revenueSum), backgroundColor: '#0984e3' }]
    }
  });
  if (trendChart) trendChart.destroy();
  trendChart = new Chart(tctx, {
    type: 'line',
    data: {
      labels: trend.map(p => p.date),
      datasets: [{ label: 'Avg quantity', data: trend.map(p => p.averageQuantity), borderColor: '#00b894', fill: false, tension: 0.2 }]
    }
  });
}
document.addEventListener('datastar-signal-patch', () => {
  const signals = window.ds ? window.ds.signals : null;
  if (!signals) return;
  drawCharts(signals.productsData || [], signals.trendData || []);
});
</script>
</body>
</html>
`
