package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/tcg-services/internal/boostersvc/cache"
	"github.com/avvvet/tcg-services/internal/boostersvc/catalog"
	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/service"
)

type stubCatalog struct {
	set   *catalog.Set
	cards []catalog.Card
}

func (s *stubCatalog) FindSetByName(ctx context.Context, name string) (*catalog.Set, error) {
	if s.set != nil && s.set.Name == name {
		return s.set, nil
	}
	return nil, nil
}

func (s *stubCatalog) FindCardsBySet(ctx context.Context, setID string, pageSize int) ([]catalog.Card, error) {
	return s.cards, nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *ledger.Memory) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	mem := ledger.NewMemory()
	tx, err := mem.CreateCollection(context.Background(), "Base", 100)
	require.NoError(t, err)
	rcpt, err := tx.Wait(context.Background())
	require.NoError(t, err)
	require.False(t, rcpt.Reverted)

	cards := make([]catalog.Card, 0, 20)
	for n := 1; n <= 20; n++ {
		cards = append(cards, catalog.Card{Number: fmt.Sprintf("%d", n), Name: fmt.Sprintf("card %d", n)})
	}
	cat := &stubCatalog{
		set:   &catalog.Set{ID: "base1", Name: "Base", LogoURL: "logo.png"},
		cards: cards,
	}

	store := cache.NewMemoryStore()
	gen := service.NewGeneratorService(cat)
	boosters := service.NewBoosterService(mem, store, gen)
	registry := service.NewRegistryService(mem, cat)
	holders := service.NewHoldersService(mem, cat)
	mint := service.NewMintService(mem)

	h := NewHandler(registry, holders, boosters, mint, nil)
	h.InitAuth()

	r := chi.NewRouter()
	h.SetRoutes(r)

	// seed the cache the way the operator endpoint would
	_, err = boosters.GenerateAll(context.Background())
	require.NoError(t, err)

	return r, mem
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var rsp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rsp))
	return w, rsp
}

func TestListCollectionsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, rsp := doJSON(t, r, "GET", "/v1/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data, err := json.Marshal(rsp.Data)
	require.NoError(t, err)
	var collections []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &collections))
	require.Len(t, collections, 1)
	assert.Equal(t, "Base", collections[0]["name"])
	assert.Equal(t, "logo.png", collections[0]["logo_url"])
}

func TestClaimAndOpenEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w, rsp := doJSON(t, r, "POST", "/v1/boosters/claim",
		map[string]interface{}{"user_address": "0xAaa", "collection_id": 0})
	require.Equal(t, http.StatusOK, w.Code, rsp.Error)

	data, err := json.Marshal(rsp.Data)
	require.NoError(t, err)
	var claim struct {
		BoosterID int64   `json:"booster_id"`
		Cards     []int64 `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(data, &claim))
	assert.Len(t, claim.Cards, service.DefaultPackSize)

	// wrong owner is rejected and tagged
	w, rsp = doJSON(t, r, "POST", "/v1/boosters/open",
		map[string]interface{}{"user_address": "0xBbb", "booster_id": claim.BoosterID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, string(service.KindNotOwner), rsp.Kind)

	w, rsp = doJSON(t, r, "POST", "/v1/boosters/open",
		map[string]interface{}{"user_address": "0xAaa", "booster_id": claim.BoosterID})
	require.Equal(t, http.StatusOK, w.Code, rsp.Error)
}

func TestClaimWithoutContentEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, rsp := doJSON(t, r, "POST", "/v1/boosters/claim",
		map[string]interface{}{"user_address": "0xAaa", "collection_id": 9})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(service.KindContentNotFound), rsp.Kind)
}

func TestOperatorRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	// jwtauth rejects with a plain-text body, no JSON envelope
	req := httptest.NewRequest("POST", "/v1/boosters/generate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
