package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newFakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := New(config.Search{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return c, &calls
}

func TestBuildQuery(t *testing.T) {
	q := buildQuery("  red chair ")
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "red chair", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.Contains(t, mm["fields"], "title^2")
}

func TestIndexAndDeleteProduct(t *testing.T) {
	c, calls := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	p := models.Product{ID: uuid.New(), Title: "Red Chair", Price: 12.5}
	require.NoError(t, c.IndexProduct(context.Background(), p))
	require.NoError(t, c.DeleteProduct(context.Background(), p.ID), "missing document is not an error")

	require.Len(t, *calls, 2)
	first := (*calls)[0]
	assert.Equal(t, http.MethodPut, first.method)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), first.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(first.body), &doc))
	assert.Equal(t, "Red Chair", doc["title"])
}

func TestSearchProducts(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	c, calls := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":7},"hits":[{"_id":"` + id1.String() + `"},{"_id":"garbage"},{"_id":"` + id2.String() + `"}]}}`))
	})

	total, ids, err := c.SearchProducts(context.Background(), "chair", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uuid.UUID{id1, id2}, ids)

	require.Len(t, *calls, 1)
	assert.True(t, strings.HasSuffix((*calls)[0].path, "/products/_search"))
	assert.Contains(t, (*calls)[0].body, "multi_match")
}

func TestSearchProducts_ErrorStatus(t *testing.T) {
	c, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})

	_, _, err := c.SearchProducts(context.Background(), "chair", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
