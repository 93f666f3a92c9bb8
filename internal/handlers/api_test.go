package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const testCSV = `Region,State,City,Category,Sub-Category,Product Name,Segment,Sales,Profit,Sales Forecast
South,Texas,Houston,Furniture,Chairs,Chair A,Consumer,100,10,90
South,Texas,Dallas,Furniture,Tables,"Table B, Oak",Corporate,50,5,45
West,California,Los Angeles,Technology,Phones,Phone C,Consumer,200,-20,210
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrders() []models.Order {
	return []models.Order{
		{Region: "South", State: "Texas", City: "Houston", Category: "Furniture", SubCategory: "Chairs", ProductName: "Chair A", Segment: "Consumer", Sales: 100, Profit: 10, SalesForecast: 90},
		{Region: "South", State: "Texas", City: "Dallas", Category: "Furniture", SubCategory: "Tables", ProductName: "Table B, Oak", Segment: "Corporate", Sales: 50, Profit: 5, SalesForecast: 45},
		{Region: "West", State: "California", City: "Los Angeles", Category: "Technology", SubCategory: "Phones", ProductName: "Phone C", Segment: "Consumer", Sales: 200, Profit: -20, SalesForecast: 210},
	}
}

func createTestDashboard() *services.Dashboard {
	d := services.NewDashboard(nil, testLogger())
	d.SetData(testOrders())
	return d
}

// createLoadedDashboard backs the dashboard with a CSV file on disk.
func createLoadedDashboard(t *testing.T) (*services.Dashboard, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	d := services.NewDashboard(dataset.NewStore(64, testLogger()), testLogger())
	if err := d.Load(t.Context(), path); err != nil {
		t.Fatalf("load: %v", err)
	}
	return d, path
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return env
}

func TestNewAPIHandlers(t *testing.T) {
	dashboard := createTestDashboard()
	handlers := NewAPIHandlers(dashboard, time.Second, testLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}

	if handlers.dashboard != dashboard {
		t.Error("NewAPIHandlers() should set dashboard field")
	}
}

func TestAPIHandlers_HandleDashboard(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?region=South", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if contentType := w.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", contentType)
	}

	if cacheControl := w.Header().Get("Cache-Control"); cacheControl != "no-cache" {
		t.Errorf("expected cache-control 'no-cache', got %q", cacheControl)
	}

	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatal("expected success=true in response")
	}

	var dash models.Dashboard
	if err := json.Unmarshal(env.Data, &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}

	want := models.Metrics{TotalSales: 150, ProfitEarned: 15, SalesForecast: 135, SalesDelta: 15}
	if dash.Summary.Metrics != want {
		t.Errorf("metrics = %+v, want %+v", dash.Summary.Metrics, want)
	}

	if len(dash.Options.State) != 1 || dash.Options.State[0] != "Texas" {
		t.Errorf("state options = %v", dash.Options.State)
	}

	if len(dash.Summary.SegmentProfit) != 2 || dash.Summary.SegmentProfit[0].Segment != "Consumer" {
		t.Errorf("segment profit = %+v", dash.Summary.SegmentProfit)
	}
}

func TestAPIHandlers_HandleDashboard_ProductWithComma(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?product_name=Table+B%2C+Oak", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	var dash models.Dashboard
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}

	if dash.Summary.Metrics.TotalSales != 50 {
		t.Errorf("expected only the Table B row, total sales %d", dash.Summary.Metrics.TotalSales)
	}
}

func TestAPIHandlers_HandleDashboard_BadSignals(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?datastar=%7Bnot-json", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	env := decodeEnvelope(t, w)
	if env.Success || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Errorf("unexpected error envelope: %+v", env)
	}
}

func TestAPIHandlers_HandleDashboard_SelectionKeys(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?sub_category=Chairs", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	var data struct {
		Selection map[string][]string `json:"selection"`
		Options   map[string][]string `json:"options"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &data); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}

	if got := data.Selection["sub_category"]; len(got) != 1 || got[0] != "Chairs" {
		t.Errorf("selection sub_category = %v", got)
	}
	if _, ok := data.Options["sub_category"]; !ok {
		t.Error("options should use sub_category")
	}
}

func TestAPIHandlers_HandleDashboard_UnencodableSummary(t *testing.T) {
	orders := testOrders()
	orders[0].Sales = math.NaN()

	d := services.NewDashboard(nil, testLogger())
	d.SetData(orders)
	handlers := NewAPIHandlers(d, time.Second, testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	env := decodeEnvelope(t, w)
	if env.Success || env.Error == nil || env.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestAPIHandlers_HandleOptions(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/options?category=Furniture", nil)
	w := httptest.NewRecorder()

	handlers.HandleOptions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var opts models.Options
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}

	if len(opts.Region) != 2 {
		t.Errorf("region options should ignore category, got %v", opts.Region)
	}

	if len(opts.SubCategory) != 2 || opts.SubCategory[0] != "Chairs" || opts.SubCategory[1] != "Tables" {
		t.Errorf("sub-category options = %v", opts.SubCategory)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var health map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}

	if health["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", health["status"])
	}

	if health["records"] != float64(3) {
		t.Errorf("expected 3 records, got %v", health["records"])
	}

	if _, ok := health["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(), time.Second, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	var stats map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	expectedFields := []string{"record_count", "regions", "states", "cities", "categories", "products", "reloads", "renders"}
	for _, field := range expectedFields {
		if _, ok := stats[field]; !ok {
			t.Errorf("expected stats field %q", field)
		}
	}

	if stats["regions"] != float64(2) {
		t.Errorf("expected 2 regions, got %v", stats["regions"])
	}
}

func TestAPIHandlers_HandleReload(t *testing.T) {
	dashboard, path := createLoadedDashboard(t)
	handlers := NewAPIHandlers(dashboard, time.Second, testLogger())

	updated := testCSV + "East,New York,New York City,Office Supplies,Paper,Paper D,Home Office,40,4,30\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	w := httptest.NewRecorder()
	handlers.HandleReload(w, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	if got := dashboard.Stats()["record_count"]; got != 4 {
		t.Errorf("expected 4 records after reload, got %v", got)
	}
}

func TestAPIHandlers_HandleReload_KeepsPreviousData(t *testing.T) {
	dashboard, path := createLoadedDashboard(t)
	handlers := NewAPIHandlers(dashboard, time.Second, testLogger())

	if err := os.WriteFile(path, []byte("Region,State\nSouth,Texas\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	w := httptest.NewRecorder()
	handlers.HandleReload(w, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	env := decodeEnvelope(t, w)
	if env.Error == nil || env.Error.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("unexpected error envelope: %+v", env)
	}

	if got := dashboard.Stats()["record_count"]; got != 3 {
		t.Errorf("previous table should keep serving, got %v records", got)
	}
}
