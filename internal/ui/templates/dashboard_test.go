package templates

import (
	"context"
	"strings"
	"testing"
)

func TestDashboard_RendersAllSections(t *testing.T) {
	var sb strings.Builder
	if err := Dashboard().Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"<title>Sales Analytics</title>",
		"/api/upload",
		`id="products-content"`,
		`id="products-chart"`,
		`id="trend-content"`,
		`id="trend-chart"`,
		`id="daily-content"`,
		"@get('/sse/refresh-all')",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	if got := strings.Count(html, `<section class="card">`); got != 4 {
		t.Errorf("expected 4 card sections, got %d", got)
	}
}

func TestCard_EscapesTitle(t *testing.T) {
	var sb strings.Builder
	c := tableCard(`<script>alert("x")</script>`, "escaped-content")
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}

	if strings.Contains(sb.String(), "<script>alert") {
		t.Error("card title was not escaped")
	}
	if !strings.Contains(sb.String(), "&lt;script&gt;") {
		t.Error("expected escaped title in output")
	}
}
