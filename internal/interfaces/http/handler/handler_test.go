package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/domain/sales"
	"github.com/apinexus/backend/internal/interfaces/http/dto"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 12, 15, 0, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

type testEnv struct {
	router *gin.Engine
	repo   *MockSaleRepository
	stock  *MockStockProvider
}

func newTestEnv(t *testing.T, exportOpts ...analytics.ExportOption) *testEnv {
	t.Helper()
	middleware.SetupValidator()

	repo := new(MockSaleRepository)
	stock := new(MockStockProvider)
	opts := []analytics.Option{
		analytics.WithClock(fixedClock),
		analytics.WithBillNumberGenerator(func() string { return "TEST0001" }),
	}
	exporter := analytics.NewExportService(exportOpts...)

	salesH := NewSalesHandler(analytics.NewSalesService(repo, opts...))
	billH := NewBillHandler(analytics.NewBillService(repo, opts...), exporter)
	suggH := NewSuggestionHandler(analytics.NewSuggestionService(repo, stock, opts...), exporter)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/sales", salesH.ListSales)
	r.POST("/sales", salesH.CreateSale)
	r.GET("/sales/analytics", salesH.GetAnalytics)
	r.GET("/sales/by-product", salesH.GetSalesByProduct)
	r.GET("/sales/by-category", salesH.GetSalesByCategory)
	r.GET("/sales/by-period", salesH.GetSalesByPeriod)
	r.GET("/sales/top-products", salesH.GetTopProducts)
	r.GET("/sales/region/:region", salesH.GetSalesByRegion)
	r.GET("/sales/performance", suggH.GetProductPerformance)
	r.POST("/bills/generate-from-sales", billH.GenerateFromSales)
	r.POST("/bills/generate-from-sales/export", billH.ExportFromSales)
	r.GET("/suggestions", suggH.GetAll)
	r.GET("/suggestions/high-priority", suggH.GetHighPriority)
	r.GET("/suggestions/inventory", suggH.GetInventory)
	r.GET("/suggestions/export", suggH.Export)

	return &testEnv{router: r, repo: repo, stock: stock}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func threeSales() []sales.Sale {
	day := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local)
	return []sales.Sale{
		testSale(1, "Widget", "Gadgets", 2, 50, 100, "North", day),
		testSale(2, "Gizmo", "Gadgets", 1, 300, 101, "South", day.AddDate(0, 0, 1)),
		testSale(3, "Tea", "Grocery", 10, 2, 100, "North", day.AddDate(0, 0, 1)),
	}
}

func TestSalesHandler_GetAnalytics(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return(threeSales(), nil)

	w := env.do(http.MethodGet, "/sales/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, 420.0, data["total_revenue"])
	assert.Equal(t, 3.0, data["total_sales"])
	assert.Equal(t, 13.0, data["total_quantity_sold"])
}

func TestSalesHandler_DateRangeOnlyWhenBothBounds(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, time.June, 10, 23, 59, 59, 0, time.Local)
	env.repo.On("FindByDateRange", mock.Anything, start, end).Return(threeSales()[:1], nil).Once()
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return(threeSales(), nil).Once()

	w := env.do(http.MethodGet, "/sales?start_date=2024-06-01&end_date=2024-06-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 1)

	w = env.do(http.MethodGet, "/sales?start_date=2024-06-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 3)

	env.repo.AssertExpectations(t)
}

func TestSalesHandler_InvalidDate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/sales/by-product?start_date=yesterday&end_date=2024-06-10", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
	env.repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestSalesHandler_GetTopProducts(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return(threeSales(), nil)

	w := env.do(http.MethodGet, "/sales/top-products?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w).Data.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Gizmo", list[0].(map[string]any)["product_name"])

	w = env.do(http.MethodGet, "/sales/top-products?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesHandler_GetSalesByPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return(threeSales(), nil)

	w := env.do(http.MethodGet, "/sales/by-period?period=monthly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w).Data.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-06", list[0].(map[string]any)["period"])

	w = env.do(http.MethodGet, "/sales/by-period?period=fortnightly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 2)
}

func TestSalesHandler_GetSalesByRegion(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindByRegion", mock.Anything, "North").Return(threeSales()[:1], nil)

	w := env.do(http.MethodGet, "/sales/region/North", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 1)
}

func TestSalesHandler_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return(nil, errStoreDown)

	w := env.do(http.MethodGet, "/sales/by-category", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection refused")
}

func TestSalesHandler_CreateSale(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil)

	body := analytics.CreateSaleRequest{
		ProductID:         1,
		ProductName:       "Widget",
		Category:          "Gadgets",
		Quantity:          2,
		UnitPrice:         50,
		CustomerID:        100,
		CustomerName:      "Ada",
		IsPremiumCustomer: true,
		PaymentMethod:     "CARD",
		Region:            "North",
		SaleDate:          "2024-06-10",
	}
	w := env.do(http.MethodPost, "/sales", body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, 100.0, data["total_price"])
	assert.Equal(t, 20.0, data["discount_applied"])
	assert.Equal(t, 80.0, data["final_amount"])
}

func TestSalesHandler_CreateSale_Validation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/sales", map[string]any{"product_id": 1, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
	env.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSalesHandler_CreateSale_DiscountAboveTotal(t *testing.T) {
	env := newTestEnv(t)
	discount := 500.0

	w := env.do(http.MethodPost, "/sales", analytics.CreateSaleRequest{
		ProductID:     1,
		ProductName:   "Widget",
		Category:      "Gadgets",
		Quantity:      1,
		UnitPrice:     10,
		CustomerID:    100,
		CustomerName:  "Ada",
		Discount:      &discount,
		PaymentMethod: "CASH",
		Region:        "North",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidDiscount, decode(t, w).Error.Code)
}

func TestBillHandler_GenerateFromSales(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return(threeSales(), nil)

	w := env.do(http.MethodPost, "/bills/generate-from-sales", analytics.GenerateBillRequest{Period: "WEEK"})
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "SB-TEST0001", data["bill_number"])
	assert.Equal(t, "2024-06-10", data["period_start_date"])
	assert.Equal(t, "2024-06-16", data["period_end_date"])
	assert.Equal(t, 420.0, data["subtotal"])
	assert.Equal(t, 462.0, data["grand_total"])
}

func TestBillHandler_CustomPeriodWithoutDates(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/bills/generate-from-sales", analytics.GenerateBillRequest{Period: "CUSTOM"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidPeriod, decode(t, w).Error.Code)
	env.repo.AssertNotCalled(t, "FindByDateRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillHandler_UnknownPeriodRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/bills/generate-from-sales", map[string]any{"period": "DECADE"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w).Error.Code)
	env.repo.AssertNotCalled(t, "FindByDateRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillHandler_MissingPeriodFailsBinding(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/bills/generate-from-sales", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
}

func TestBillHandler_PeriodIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return(threeSales(), nil)

	w := env.do(http.MethodPost, "/bills/generate-from-sales", map[string]any{"period": "Week"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestBillHandler_Export(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return(threeSales(), nil)

	w := env.do(http.MethodPost, "/bills/generate-from-sales/export", analytics.GenerateBillRequest{Period: "MONTH"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analytics.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "SB-TEST0001.xlsx")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestBillHandler_ExportArchived(t *testing.T) {
	archive := &fakeArchive{}
	env := newTestEnv(t, analytics.WithArchive(archive))
	env.repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return(threeSales(), nil)

	w := env.do(http.MethodPost, "/bills/generate-from-sales/export", analytics.GenerateBillRequest{Period: "MONTH"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://archive.local/bills/SB-TEST0001.xlsx", w.Header().Get(ArchiveURLHeader))
	require.Contains(t, archive.objects, "bills/SB-TEST0001.xlsx")
	assert.Equal(t, w.Body.Bytes(), archive.objects["bills/SB-TEST0001.xlsx"])
}

func TestBillHandler_ExportArchiveFailureStillServesFile(t *testing.T) {
	env := newTestEnv(t, analytics.WithArchive(&fakeArchive{err: errStoreDown}))
	env.repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return(threeSales(), nil)

	w := env.do(http.MethodPost, "/bills/generate-from-sales/export", analytics.GenerateBillRequest{Period: "MONTH"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(ArchiveURLHeader))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestBillHandler_Print(t *testing.T) {
	repo := new(MockSaleRepository)
	repo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).Return(threeSales(), nil)
	service := analytics.NewBillService(repo,
		analytics.WithClock(fixedClock),
		analytics.WithBillNumberGenerator(func() string { return "TEST0001" }),
	)
	printer := &fakePrinter{}

	r := gin.New()
	r.POST("/print", NewBillHandler(service, analytics.NewExportService(), WithBillPrinter(printer)).PrintFromSales)
	r.POST("/disabled", NewBillHandler(service, analytics.NewExportService()).PrintFromSales)

	body := `{"period":"MONTH"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/print", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, PDFContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "SB-TEST0001.pdf")
	assert.Equal(t, "%PDF", w.Body.String())
	assert.Equal(t, "SB-TEST0001", printer.printed)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/disabled", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrCodeServiceDown, decode(t, w).Error.Code)
}

func TestSuggestionHandler_EmptyDataYieldsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return([]sales.Sale{}, nil)
	env.stock.On("Snapshot", mock.Anything).Return(map[int64]int{}, nil)

	for _, path := range []string{"/suggestions", "/suggestions/high-priority", "/suggestions/inventory", "/sales/performance"} {
		w := env.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		resp := decode(t, w)
		assert.True(t, resp.Success, path)
		assert.Empty(t, resp.Data, path)
	}
}

func TestSuggestionHandler_InvalidFilter(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return([]sales.Sale{}, nil).Maybe()
	env.stock.On("Snapshot", mock.Anything).Return(map[int64]int{}, nil).Maybe()

	w := env.do(http.MethodGet, "/suggestions?category=weather", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w).Error.Code)

	w = env.do(http.MethodGet, "/suggestions?priority=urgent", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionHandler_Export(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("FindAll", mock.Anything, sales.SaleFilter{}).Return(threeSales(), nil)
	env.stock.On("Snapshot", mock.Anything).Return(map[int64]int{1: 0, 2: 500, 3: 3}, nil)

	w := env.do(http.MethodGet, "/suggestions/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analytics.XLSXContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantDB     string
	}{
		{"no database", nil, http.StatusOK, "not_configured"},
		{"database up", fakePinger{}, http.StatusOK, "up"},
		{"database down", fakePinger{err: errStoreDown}, http.StatusServiceUnavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, "1.2.3")
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

			h.Health(c)

			require.Equal(t, tt.wantStatus, w.Code)
			data := decode(t, w).Data.(map[string]any)
			assert.Equal(t, tt.wantDB, data["database"])
			assert.Equal(t, "1.2.3", data["version"])
		})
	}
}
