package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

func selectionOf(category string) models.Selection {
	return models.Selection{Category: []string{category}}
}

func TestParseSelection(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?region=South&region=+West+&region=South&region=&product_name=Table+B%2C+Oak", nil)

	sel, err := ParseSelection(req)
	if err != nil {
		t.Fatalf("ParseSelection() failed: %v", err)
	}

	if len(sel.Region) != 2 || sel.Region[0] != "South" || sel.Region[1] != "West" {
		t.Errorf("region = %v", sel.Region)
	}

	if len(sel.ProductName) != 1 || sel.ProductName[0] != "Table B, Oak" {
		t.Errorf("product name = %v", sel.ProductName)
	}

	if sel.State != nil {
		t.Errorf("state should be unset, got %v", sel.State)
	}
}

func TestParseSelection_Signals(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, signalsURL("/", `{"subCategory":["Chairs"],"productName":[],"other":1}`), nil)

	sel, err := ParseSelection(req)
	if err != nil {
		t.Fatalf("ParseSelection() failed: %v", err)
	}

	if len(sel.SubCategory) != 1 || sel.SubCategory[0] != "Chairs" {
		t.Errorf("sub-category = %v", sel.SubCategory)
	}

	if sel.ProductName != nil {
		t.Errorf("empty signal should be unset, got %v", sel.ProductName)
	}
}

func TestEncodeSelectionRoundTrip(t *testing.T) {
	sel := models.Selection{Region: []string{"South", "West"}, ProductName: []string{"Table B, Oak"}}

	req := httptest.NewRequest(http.MethodGet, "/?"+EncodeSelection(sel), nil)
	got, err := ParseSelection(req)
	if err != nil {
		t.Fatalf("ParseSelection() failed: %v", err)
	}

	if !sameSelection(sel, got) {
		t.Errorf("round trip = %+v, want %+v", got, sel)
	}

	if EncodeSelection(models.Selection{}) != "" {
		t.Error("empty selection should encode to an empty string")
	}
}

func TestPageHandlers_HandleDashboard(t *testing.T) {
	handlers := NewPageHandlers(createTestDashboard(), 640, 400, true, time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/?category=Furniture", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}

	body := w.Body.String()
	expectedContent := []string{
		"<!doctype html>",
		"Filter Your Data",
		"Select the Sub-Category",
		`<option value="Furniture" selected>`,
		"Sales Forecast",
		"Total Profit",
		"$150",
		"/charts/segment-sales.svg?category=Furniture",
		"/static/sidebar.png",
	}

	for _, content := range expectedContent {
		if !strings.Contains(body, content) {
			t.Errorf("expected page to contain %q", content)
		}
	}
}

func TestChartHandlers(t *testing.T) {
	renderer := charts.NewRenderer(config.ChartConfig{Width: 640, Height: 400})
	handlers := NewChartHandlers(createTestDashboard(), renderer, time.Second, testLogger())

	tests := []struct {
		name    string
		handler http.HandlerFunc
		url     string
		want    string
	}{
		{"bar", handlers.HandleBar, "/charts/bar.svg", charts.BarTitle},
		{"segment profit", handlers.HandleSegmentProfit, "/charts/segment-profit.svg?region=South", "<svg"},
		{"segment sales", handlers.HandleSegmentSales, "/charts/segment-sales.svg", "<svg"},
		{"empty donut", handlers.HandleSegmentProfit, "/charts/segment-profit.svg?region=West", "No data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
				t.Errorf("expected svg content type, got %q", ct)
			}

			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected body to contain %q", tt.want)
			}
		})
	}
}

func TestExportHandlers_HandleWorkbook(t *testing.T) {
	handlers := NewExportHandlers(createTestDashboard(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleWorkbook(w, httptest.NewRequest(http.MethodGet, "/export/dashboard.xlsx?region=South", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("read orders: %v", err)
	}

	if len(rows) != 3 {
		t.Errorf("expected header plus 2 South rows, got %d rows", len(rows))
	}

	total, _ := f.GetCellValue("Summary", "B2")
	if total != "150" {
		t.Errorf("total sales cell = %q", total)
	}
}

func TestAssetHandlers_HandleSidebarImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	path := filepath.Join(t.TempDir(), "supermarket.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	handlers := NewAssetHandlers(dataset.NewStore(64, testLogger()), path, testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSidebarImage(w, httptest.NewRequest(http.MethodGet, "/static/sidebar.png", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	thumb, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}

	if thumb.Bounds().Dx() != 64 {
		t.Errorf("expected thumbnail width 64, got %d", thumb.Bounds().Dx())
	}
}

func TestAssetHandlers_MissingImage(t *testing.T) {
	handlers := NewAssetHandlers(dataset.NewStore(64, testLogger()), filepath.Join(t.TempDir(), "missing.jpg"), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSidebarImage(w, httptest.NewRequest(http.MethodGet, "/static/sidebar.png", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}
