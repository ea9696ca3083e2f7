package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
)

func TestListCollectionsEnrichment(t *testing.T) {
	ctx := context.Background()
	mem, _, _, _ := newBoosterFixture(t)

	cat := catalogWithSet("Base", "base1", 99)
	registry := NewRegistryService(mem, cat)

	collections, err := registry.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 2)

	assert.Equal(t, "Phantom", collections[0].Name)
	assert.Empty(t, collections[0].LogoURL, "unknown sets degrade to empty enrichment")
	assert.Equal(t, "Base", collections[1].Name)
	assert.Equal(t, "https://img.example/base1/logo.png", collections[1].LogoURL)
}

func TestListCollectionsCatalogDown(t *testing.T) {
	ctx := context.Background()
	mem, _, _, _ := newBoosterFixture(t)

	registry := NewRegistryService(mem, &fakeCatalog{setErr: errors.New("catalog down")})

	collections, err := registry.ListCollections(ctx)
	require.NoError(t, err, "catalog failure never fails the listing")
	require.Len(t, collections, 2)
	for _, col := range collections {
		assert.Empty(t, col.LogoURL)
	}
}

func TestListHolders(t *testing.T) {
	ctx := context.Background()
	mem, _, _, _ := newBoosterFixture(t)

	for _, mint := range []struct {
		owner  string
		col    int64
		number int
	}{{"0xAaa", 1, 5}, {"0xAaa", 1, 7}, {"0xBbb", 0, 3}} {
		tx, err := mem.MintCard(ctx, mint.owner, mint.col, mint.number)
		require.NoError(t, err)
		rcpt, err := tx.Wait(ctx)
		require.NoError(t, err)
		require.False(t, rcpt.Reverted)
	}

	holders := NewHoldersService(mem, catalogWithSet("Base", "base1", 99))

	got, err := holders.ListHolders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byAddr := make(map[string][]int)
	for _, h := range got {
		for _, c := range h.Cards {
			byAddr[h.Address] = append(byAddr[h.Address], c.CardNumber)
			if c.CollectionName == "Base" {
				assert.Equal(t, "Base card "+strconv.Itoa(c.CardNumber), c.Name)
				assert.NotEmpty(t, c.ImageURL)
			} else {
				assert.Empty(t, c.Name, "no catalog set, no enrichment")
			}
		}
	}
	assert.Equal(t, []int{5, 7}, byAddr["0xAaa"])
	assert.Equal(t, []int{3}, byAddr["0xBbb"])
}

func TestListHoldersLedgerDown(t *testing.T) {
	holders := NewHoldersService(&downLedger{}, &fakeCatalog{})

	_, err := holders.ListHolders(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindLedgerRejected, KindOf(err))
}

type downLedger struct {
	ledger.Client
}

func (l *downLedger) GetAllHolders(ctx context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}
