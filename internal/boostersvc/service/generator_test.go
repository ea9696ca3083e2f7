package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/tcg-services/internal/boostersvc/catalog"
	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

type fakeCatalog struct {
	sets     map[string]*catalog.Set
	cards    map[string][]catalog.Card
	setErr   error
	cardsErr error
}

func (f *fakeCatalog) FindSetByName(ctx context.Context, name string) (*catalog.Set, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	return f.sets[name], nil
}

func (f *fakeCatalog) FindCardsBySet(ctx context.Context, setID string, pageSize int) ([]catalog.Card, error) {
	if f.cardsErr != nil {
		return nil, f.cardsErr
	}
	rows := f.cards[setID]
	if len(rows) > pageSize {
		rows = rows[:pageSize]
	}
	return rows, nil
}

// catalogWithSet builds a catalog holding one set with sequentially
// numbered cards 1..count.
func catalogWithSet(name, setID string, count int) *fakeCatalog {
	cards := make([]catalog.Card, 0, count)
	for n := 1; n <= count; n++ {
		cards = append(cards, catalog.Card{
			Number:        fmt.Sprintf("%d", n),
			Name:          fmt.Sprintf("%s card %d", name, n),
			SmallImageURL: fmt.Sprintf("https://img.example/%s/%d.png", setID, n),
		})
	}
	return &fakeCatalog{
		sets:  map[string]*catalog.Set{name: {ID: setID, Name: name, LogoURL: "https://img.example/" + setID + "/logo.png"}},
		cards: map[string][]catalog.Card{setID: cards},
	}
}

func TestGeneratePackProperties(t *testing.T) {
	gen := NewGeneratorService(catalogWithSet("Base", "base1", 99))

	pb, err := gen.Generate(context.Background(), 1, "Base", 100)
	require.NoError(t, err)

	assert.Equal(t, int64(1), pb.CollectionID)
	assert.Equal(t, "Base", pb.CollectionName)
	assert.Equal(t, "https://img.example/base1/logo.png", pb.ImageURL)
	require.Len(t, pb.Cards, DefaultPackSize)

	seen := make(map[int64]bool)
	for _, id := range pb.Cards {
		assert.False(t, seen[id], "card %d appears twice", id)
		seen[id] = true

		collectionID, cardNumber := models.SplitCardID(id)
		assert.Equal(t, int64(1), collectionID)
		assert.GreaterOrEqual(t, cardNumber, 0)
		assert.Less(t, cardNumber, 100)
	}
}

func TestGenerateDropsUnusableNumbers(t *testing.T) {
	// catalog ships promo rows whose numbers do not parse; they are
	// dropped and the short pack goes through untouched
	cat := catalogWithSet("Base", "base1", 5)
	cat.cards["base1"] = append(cat.cards["base1"],
		catalog.Card{Number: "SWSH001", Name: "promo"},
		catalog.Card{Number: "-3", Name: "negative"},
		catalog.Card{Number: "999", Name: "out of range"},
	)

	gen := NewGeneratorService(cat)

	pb, err := gen.Generate(context.Background(), 2, "Base", 6)
	require.NoError(t, err)
	assert.Len(t, pb.Cards, 5, "short pack is returned as-is, not padded")
	for _, id := range pb.Cards {
		_, cardNumber := models.SplitCardID(id)
		assert.Less(t, cardNumber, 6)
	}
}

func TestGenerateUnknownSet(t *testing.T) {
	gen := NewGeneratorService(&fakeCatalog{sets: map[string]*catalog.Set{}})

	_, err := gen.Generate(context.Background(), 1, "Nope", 10)
	require.Error(t, err)
}

func TestGenerateCatalogDown(t *testing.T) {
	gen := NewGeneratorService(&fakeCatalog{setErr: errors.New("429 too many requests")})

	_, err := gen.Generate(context.Background(), 1, "Base", 10)
	require.Error(t, err)
	assert.Equal(t, KindCatalogUnavailable, KindOf(err))
}
