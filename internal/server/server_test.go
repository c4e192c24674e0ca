package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TobiSchelling/foodpipe/internal/warehouse"
)

type fixture struct {
	name, brand, category, region string
	score                         int
}

func newTestServer(t *testing.T, products ...fixture) *Server {
	t.Helper()
	ctx := context.Background()

	wh, err := warehouse.Open(filepath.Join(t.TempDir(), "warehouse.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { wh.Close() })

	tx, err := wh.BeginLoad(ctx)
	require.NoError(t, err)
	for i, f := range products {
		p := warehouse.Product{SourceID: string(rune('a' + i)), Name: f.name}
		if f.brand != "" {
			id, err := tx.BrandID(ctx, f.brand)
			require.NoError(t, err)
			p.BrandID = &id
		}
		id, err := tx.RegionID(ctx, f.region)
		require.NoError(t, err)
		p.RegionID = &id
		p.CategoryID, err = tx.CategoryID(ctx, f.category)
		require.NoError(t, err)
		p.NutriScoreID, err = tx.NutriScoreID(ctx, f.score)
		require.NoError(t, err)
		_, err = tx.InsertProduct(ctx, p)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())

	srv, err := New(wh, zap.NewNop())
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

type listResponse struct {
	Page     int                     `json:"page"`
	Limit    int                     `json:"limit"`
	Total    int                     `json:"total"`
	Products []warehouse.ProductView `json:"products"`
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var catalog = []fixture{
	{"Jus Bio", "Innocent", "Boisson", "Europe", 30},
	{"Chips nature", "Lay's", "Snacks", "Non-Europe", 10},
	{"Cola", "Coca-Cola", "Boisson", "Non-Europe", 0},
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, catalog...)
	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","products":3}`, rec.Body.String())
}

func TestListProducts_Defaults(t *testing.T) {
	srv := newTestServer(t, catalog...)
	body := decodeList(t, get(t, srv, "/api/products"))
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 12, body.Limit)
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Products, 3)
	assert.Equal(t, "Chips nature", body.Products[0].Name)
}

func TestListProducts_Paging(t *testing.T) {
	srv := newTestServer(t, catalog...)

	body := decodeList(t, get(t, srv, "/api/products?limit=100"))
	assert.Equal(t, 24, body.Limit)

	body = decodeList(t, get(t, srv, "/api/products?limit=0&page=-3"))
	assert.Equal(t, 1, body.Limit)
	assert.Equal(t, 1, body.Page)
	assert.Len(t, body.Products, 1)

	body = decodeList(t, get(t, srv, "/api/products?limit=2&page=2"))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Jus Bio", body.Products[0].Name)

	body = decodeList(t, get(t, srv, "/api/products?page=9"))
	assert.NotNil(t, body.Products)
	assert.Empty(t, body.Products)
}

func TestListProducts_Filters(t *testing.T) {
	srv := newTestServer(t, catalog...)

	tests := []struct {
		query string
		want  []string
	}{
		{"name=jus", []string{"Jus Bio"}},
		{"nutriscore=b", []string{"Jus Bio"}},
		{"nutriscore=E", []string{"Cola"}},
		{"nutriscore=Z", []string{"Chips nature", "Cola", "Jus Bio"}},
		{"region=Non-Europe", []string{"Chips nature", "Cola"}},
		{"region=Mars", []string{"Chips nature", "Cola", "Jus Bio"}},
		{"category=boiss", []string{"Cola", "Jus Bio"}},
		{"brand=cola", []string{"Cola"}},
		{"category=Boisson&region=Europe", []string{"Jus Bio"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			body := decodeList(t, get(t, srv, "/api/products?"+tt.query))
			var got []string
			for _, p := range body.Products {
				got = append(got, p.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t, catalog...)

	list := decodeList(t, get(t, srv, "/api/products?name=Cola"))
	require.Len(t, list.Products, 1)

	rec := get(t, srv, "/api/products/"+strconv.FormatInt(list.Products[0].ID, 10))
	require.Equal(t, http.StatusOK, rec.Code)
	var p warehouse.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Cola", p.Name)
	assert.Equal(t, "Coca-Cola", *p.Brand)
	assert.Equal(t, 0, *p.NutriScoreScore)

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/products/abc").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/products/9999").Code)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, catalog...)
	rec := get(t, srv, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalProducts     int                    `json:"total_products"`
		AverageNutriScore *float64               `json:"average_nutri_score"`
		AverageGrade      *string                `json:"average_grade"`
		ByRegion          []warehouse.LabelCount `json:"by_region"`
		ByCategory        []warehouse.LabelCount `json:"by_category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalProducts)
	require.NotNil(t, body.AverageNutriScore)
	assert.Equal(t, 13.3, *body.AverageNutriScore)
	assert.Equal(t, "D", *body.AverageGrade)
	assert.Equal(t, []warehouse.LabelCount{{Label: "Non-Europe", Count: 2}, {Label: "Europe", Count: 1}}, body.ByRegion)
}

func TestStats_Empty(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"total_products":0,"average_nutri_score":null,"average_grade":null,"by_region":[],"by_category":[]}`,
		rec.Body.String())
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, catalog...)
	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Statistiques</h1>")
	assert.Contains(t, body, "<strong>3</strong> produits en base")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "Boisson")
}
