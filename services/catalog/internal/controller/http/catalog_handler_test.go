package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"ad-moderation/pkg/catalog"
	"ad-moderation/pkg/logger"
	"ad-moderation/services/catalog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogUseCase is a mock implementation of CatalogUseCase
type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) Browse(ctx context.Context, view catalog.ViewState) *usecase.CatalogPage {
	args := m.Called(view)
	return args.Get(0).(*usecase.CatalogPage)
}

func (m *MockCatalogUseCase) GetAd(ctx context.Context, id int64) (*usecase.AdDetails, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AdDetails), args.Error(1)
}

func (m *MockCatalogUseCase) Meta() usecase.Meta {
	args := m.Called()
	return args.Get(0).(usecase.Meta)
}

var _ usecase.CatalogUseCase = (*MockCatalogUseCase)(nil)

func setupTestRouter(handler *CatalogHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/catalog", handler.Browse)
	r.GET("/catalog/ads/:id", handler.GetAd)
	r.GET("/catalog/meta", handler.Meta)
	return r
}

func TestBrowse_ParsesQuery(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	var captured catalog.ViewState
	mockUseCase.On("Browse", mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(0).(catalog.ViewState)
	}).Return(&usecase.CatalogPage{Items: []catalog.Card{}, TotalPages: 1, Page: 2, PageSize: 20, Available: true})

	w := httptest.NewRecorder()
	query := url.Values{
		"status":     {"pending", "approved"},
		"category":   {"Транспорт,Работа"},
		"price_min":  {"100"},
		"price_max":  {"500"},
		"search":     {"bike"},
		"sort_by":    {"price"},
		"sort_order": {"asc"},
		"page":       {"2"},
		"page_size":  {"20"},
	}
	req, _ := http.NewRequest("GET", "/catalog?"+query.Encode(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"pending", "approved"}, captured.Filters.Status)
	assert.Equal(t, []string{"Транспорт", "Работа"}, captured.Filters.Category)
	assert.Equal(t, "100", captured.Filters.PriceMin)
	assert.Equal(t, "500", captured.Filters.PriceMax)
	assert.Equal(t, "bike", captured.Filters.Search)
	assert.Equal(t, catalog.SortSpec{By: catalog.SortByPrice, Order: catalog.SortAsc}, captured.Sort)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 20, captured.PageSize)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["available"])
	mockUseCase.AssertExpectations(t)
}

func TestBrowse_Defaults(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	mockUseCase.On("Browse", catalog.NewViewState(10)).Return(&usecase.CatalogPage{Items: []catalog.Card{}, TotalPages: 1, Page: 1, PageSize: 10})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestBrowse_InvalidPage(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	for _, query := range []string{"page=-1", "page=abc", "page_size=500"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/catalog?"+query, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	mockUseCase.AssertNotCalled(t, "Browse", mock.Anything)
}

func TestBrowse_Unavailable(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	mockUseCase.On("Browse", mock.Anything).Return(&usecase.CatalogPage{Items: []catalog.Card{}, TotalPages: 1, Page: 1, PageSize: 10, Available: false})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["available"])
	assert.Equal(t, []interface{}{}, response["items"])
}

func TestGetAd_Success(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	mockUseCase.On("GetAd", int64(7)).Return(&usecase.AdDetails{
		Card:        catalog.Card{ID: 7, Title: "Guitar"},
		Description: "Barely used",
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog/ads/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Guitar", response["title"])
	assert.Equal(t, "Barely used", response["description"])
}

func TestGetAd_Errors(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	mockUseCase.On("GetAd", int64(404)).Return(nil, usecase.ErrAdNotFound)
	mockUseCase.On("GetAd", int64(503)).Return(nil, usecase.ErrCatalogUnavailable)

	cases := map[string]int{
		"/catalog/ads/abc": http.StatusBadRequest,
		"/catalog/ads/404": http.StatusNotFound,
		"/catalog/ads/503": http.StatusServiceUnavailable,
	}
	for path, code := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, code, w.Code, path)
	}
}

func TestMeta(t *testing.T) {
	mockUseCase := new(MockCatalogUseCase)
	handler := NewCatalogHandler(mockUseCase, 10, logger.New())
	router := setupTestRouter(handler)

	mockUseCase.On("Meta").Return(usecase.Meta{Categories: []string{"Работа"}, DefaultPageSize: 10})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog/meta", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []interface{}{"Работа"}, response["categories"])
}
