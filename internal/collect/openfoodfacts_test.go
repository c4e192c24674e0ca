package collect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/foodpipe/internal/apperrors"
	"github.com/TobiSchelling/foodpipe/internal/config"
)

func TestFetch_Request(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("page_size"))
		assert.Equal(t, strings.Join(Fields, ","), r.URL.Query().Get("fields"))
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 2, "products": [
			{"product_name": "Nutella", "nutriscore_grade": "e", "countries": "France", "nutriments": {"energy": 2255}},
			{"product_name": "Jus Bio", "brands": 42}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent/1.0", time.Second)
	products, err := c.Fetch(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, products, 2)
	assert.Equal(t, "Nutella", products[0].Name())
	assert.Equal(t, "e", products[0].Grade())
	assert.Equal(t, 2255.0, products[0].Nutrients().Energy.Value)
	assert.Equal(t, "42", products[1].Brand())
}

func TestFetch_DefaultUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "  ", time.Second).Fetch(context.Background(), 1, 1)
	require.NoError(t, err)
}

func TestFetch_MissingProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 0}`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestFetch_HTTPError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.Equal(t, 1, calls, "expected no retry")
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	products, err := NewClient(url, "", time.Second).Fetch(context.Background(), 1, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Nil(t, products)
}

func TestFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), 1, 10)
	require.Error(t, err)
	assert.False(t, apperrors.IsTransport(err))
	assert.Equal(t, 0, apperrors.HTTPStatus(err))
}

func TestFetch_InvalidPaging(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", time.Second)

	_, err := c.Fetch(context.Background(), 0, 10)
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.Fetch(context.Background(), 1, 0)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFetch_NonObjectNutriments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[
			{"product_name":"Good","nutriments":{"fat":1}},
			{"product_name":"Odd","nutriments":[]},
			{"product_name":"Odder","nutriments":"n/a"}
		]}`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, 1.0, products[0].Nutrients().Fat.Value)
	assert.Equal(t, "Odd", products[1].Name())
	assert.False(t, products[1].Nutrients().Fat.Valid)
	assert.False(t, products[2].Nutrients().Energy.Valid)
}

func TestFetch_BaseURLWithQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "fr", q.Get("lc"))
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "10", q.Get("page_size"))
		assert.Equal(t, strings.Join(Fields, ","), q.Get("fields"))
		w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL+"/api/v2/search?lc=fr", "", time.Second).Fetch(context.Background(), 3, 10)
	require.NoError(t, err)
}
