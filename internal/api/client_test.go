package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hellabot/pkg/retrylimit"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	retry := retrylimit.DefaultRetryConfig()
	retry.InitialDelay = time.Millisecond
	retry.RateLimitDelay = time.Millisecond
	retry.Jitter = false
	return NewClient(srv.URL+"/", 0, zerolog.Nop(), WithRetryConfig(retry))
}

func TestClient_Single(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operator/exusiai", r.URL.Path)
		assert.Equal(t, "paradox", r.URL.Query().Get("exclude"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":   "char_103_angel",
			"keys": []string{"exusiai"},
			"data": map[string]any{"name": "Exusiai", "rarity": "TIER_6", "phases": []any{map[string]any{"maxLevel": 50}}},
		})
	})

	doc, err := Single[Operator](context.Background(), c, EntityOperator, SingleQuery{Query: "exusiai", Exclude: []string{"paradox"}})
	require.NoError(t, err)
	assert.Equal(t, "char_103_angel", doc.ID)
	assert.Equal(t, "Exusiai", doc.Data.Name)
	assert.Equal(t, 6, doc.Data.Stars())
	assert.True(t, Valid(doc))
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})

	_, err := Single[Operator](context.Background(), c, EntityOperator, SingleQuery{Query: "zzz_nonexistent"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_EmptyQueryShortCircuits(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "no request expected")
	})
	_, err := Single[Operator](context.Background(), c, EntityOperator, SingleQuery{Query: "  "})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"char_002_amiya","data":{"name":"Amiya"}}]`))
	})

	docs, err := All[Operator](context.Background(), c, EntityOperator, AllQuery{Include: []string{"id", "data.name"}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Amiya", docs[0].Data.Name)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_SearchV2EncodesFilter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/searchV2/item", r.URL.Path)
		var filter map[string]map[string][]string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filter")), &filter))
		assert.Equal(t, []string{"MATERIAL", "CARD_EXP"}, filter["data.itemType"]["in"])
		assert.Equal(t, "data", r.URL.Query().Get("include"))
		_, _ = w.Write([]byte(`[]`))
	})

	docs, err := SearchV2[Item](context.Background(), c, EntityItem, SearchQuery{
		Filter:  map[string]any{"data.itemType": map[string]any{"in": []string{"MATERIAL", "CARD_EXP"}}},
		Include: []string{"data"},
	})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestItem_IsToken(t *testing.T) {
	assert.True(t, Item{ItemID: "token_Obsidian", Name: "Obsidian Token"}.IsToken())
	assert.False(t, Item{ItemID: "30012", Name: "Orirock Cube", IconID: "MTL_SL_G2"}.IsToken())
}
