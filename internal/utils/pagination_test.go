// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery("")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
	assert.Empty(t, params.Search)
}

func TestGetPaginationParamsTrimsSearch(t *testing.T) {
	params := paramsForQuery("search=%20%20iphone%2015%20%20")

	assert.Equal(t, "iphone 15", params.Search)
}

func TestGetPaginationParamsClampsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
		order string
	}{
		{"negative page", "page=-3", 1, DefaultPageSize, "desc"},
		{"zero page", "page=0", 1, DefaultPageSize, "desc"},
		{"limit too large", "limit=500", 1, DefaultPageSize, "desc"},
		{"limit zero", "limit=0", 1, DefaultPageSize, "desc"},
		{"bad order", "order=sideways", 1, DefaultPageSize, "desc"},
		{"valid asc", "page=3&limit=96&order=asc", 3, MaxPageSize, "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := paramsForQuery(tt.query)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.order, params.Order)
		})
	}
}

func TestCreatePaginationResultRoundsPagesUp(t *testing.T) {
	result := CreatePaginationResult([]string{"a"}, 41, PaginationParams{Page: 2, Limit: 20})

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestSetPaginationHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetPaginationHeaders(c, PaginationResult{Page: 2, Limit: 20, Total: 41, TotalPages: 3})

	assert.Equal(t, "41", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "2", w.Header().Get("X-Page"))
	assert.Equal(t, "20", w.Header().Get("X-Per-Page"))
	assert.Equal(t, "3", w.Header().Get("X-Total-Pages"))
}
