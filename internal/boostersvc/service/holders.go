package service

import (
	"context"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/avvvet/tcg-services/internal/boostersvc/catalog"
	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// HoldersService enumerates the addresses holding at least one minted
// card, with their cards. Read-only, consulted by presentation code.
type HoldersService struct {
	ledger  ledger.Client
	catalog Catalog
}

func NewHoldersService(lc ledger.Client, cat Catalog) *HoldersService {
	return &HoldersService{ledger: lc, catalog: cat}
}

// ListHolders returns every holder and their minted cards, enriched with
// catalog card names and images where the catalog has them.
func (s *HoldersService) ListHolders(ctx context.Context) ([]models.HolderCards, error) {
	addresses, err := s.ledger.GetAllHolders(ctx)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "get holders: %w", err)
	}

	holders := make([]models.HolderCards, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i, addr := range addresses {
		g.Go(func() error {
			cards, err := s.ledger.GetHolderCards(gctx, addr)
			if err != nil {
				return flowErr(KindLedgerRejected, "get cards of %s: %w", addr, err)
			}
			holders[i] = models.HolderCards{Address: addr, Cards: cards}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.enrichCards(ctx, holders)

	return holders, nil
}

// enrichCards fills card names and images from the catalog. One
// set-cards fetch per distinct collection name, indexed by card number.
// Any catalog failure leaves the affected cards unenriched.
type setIndex struct {
	byNumber map[int]catalog.Card
}

func (s *HoldersService) enrichCards(ctx context.Context, holders []models.HolderCards) {
	indexes := make(map[string]*setIndex)
	var mu sync.Mutex

	names := make(map[string]int) // collection name -> max card number seen
	for _, h := range holders {
		for _, c := range h.Cards {
			if c.CardNumber > names[c.CollectionName] {
				names[c.CollectionName] = c.CardNumber
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for name, maxNumber := range names {
		g.Go(func() error {
			set, err := s.catalog.FindSetByName(gctx, name)
			if err != nil || set == nil {
				if err != nil {
					log.Warnf("catalog lookup for set %q failed: %s", name, err)
				}
				return nil
			}
			rows, err := s.catalog.FindCardsBySet(gctx, set.ID, maxNumber)
			if err != nil {
				log.Warnf("catalog cards for set %q failed: %s", name, err)
				return nil
			}
			idx := &setIndex{byNumber: make(map[int]catalog.Card, len(rows))}
			for _, row := range rows {
				if n, ok := cardNumber(row.Number); ok {
					idx.byNumber[n] = row
				}
			}
			mu.Lock()
			indexes[name] = idx
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	applyIndexes(holders, indexes)
}

func cardNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func applyIndexes(holders []models.HolderCards, indexes map[string]*setIndex) {
	for hi := range holders {
		for ci := range holders[hi].Cards {
			card := &holders[hi].Cards[ci]
			idx, ok := indexes[card.CollectionName]
			if !ok {
				continue
			}
			if row, ok := idx.byNumber[card.CardNumber]; ok {
				card.Name = row.Name
				card.ImageURL = row.SmallImageURL
			}
		}
	}
}
