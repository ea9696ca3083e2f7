package service

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/avvvet/tcg-services/internal/boostersvc/catalog"
	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

const DefaultPackSize = 8

// Catalog is the card catalog collaborator.
type Catalog interface {
	FindSetByName(ctx context.Context, name string) (*catalog.Set, error)
	FindCardsBySet(ctx context.Context, setID string, pageSize int) ([]catalog.Card, error)
}

type GeneratorService struct {
	catalog  Catalog
	packSize int
}

func NewGeneratorService(cat Catalog) *GeneratorService {
	packSize := DefaultPackSize
	if v := os.Getenv("PACK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("Invalid PACK_SIZE value: %s", v)
		}
		packSize = n
	}
	return &GeneratorService{catalog: cat, packSize: packSize}
}

func (s *GeneratorService) PackSize() int { return s.packSize }

// Generate builds a randomized candidate pack for one collection: fetch
// up to cardCount catalog cards for the set, drop rows whose number is
// not a usable card number, shuffle, take the first packSize. A short
// pack is logged and returned as-is, never padded and never retried.
func (s *GeneratorService) Generate(ctx context.Context, collectionID int64, collectionName string, cardCount int) (*models.PotentialBooster, error) {
	set, err := s.catalog.FindSetByName(ctx, collectionName)
	if err != nil {
		return nil, flowErr(KindCatalogUnavailable, "find set %q: %w", collectionName, err)
	}
	if set == nil {
		return nil, fmt.Errorf("no catalog set matches collection %q", collectionName)
	}

	rows, err := s.catalog.FindCardsBySet(ctx, set.ID, cardCount)
	if err != nil {
		return nil, flowErr(KindCatalogUnavailable, "fetch cards for set %s: %w", set.ID, err)
	}

	cardIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		n, err := strconv.Atoi(row.Number)
		if err != nil || n <= 0 || n >= cardCount || int64(n) >= models.CardKeyBase {
			log.Warnf("content integrity: dropping card %q number %q of set %s", row.Name, row.Number, set.ID)
			continue
		}
		cardIDs = append(cardIDs, models.CardID(collectionID, n))
	}

	rand.Shuffle(len(cardIDs), func(i, j int) {
		cardIDs[i], cardIDs[j] = cardIDs[j], cardIDs[i]
	})

	if len(cardIDs) > s.packSize {
		cardIDs = cardIDs[:s.packSize]
	}
	if len(cardIDs) < s.packSize {
		log.Warnf("content integrity: short pack for collection %d (%s): %d of %d cards",
			collectionID, collectionName, len(cardIDs), s.packSize)
	}

	return &models.PotentialBooster{
		CollectionID:   collectionID,
		CollectionName: collectionName,
		Cards:          cardIDs,
		ImageURL:       set.LogoURL,
	}, nil
}
