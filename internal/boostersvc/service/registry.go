package service

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// enrichLimit bounds the concurrent catalog lookups of one listing call.
const enrichLimit = 4

// RegistryService is a read-only projection of the registered
// collections, enriched with catalog artwork. No caching; callers own
// the refresh cadence.
type RegistryService struct {
	ledger  ledger.Client
	catalog Catalog
}

func NewRegistryService(lc ledger.Client, cat Catalog) *RegistryService {
	return &RegistryService{ledger: lc, catalog: cat}
}

// ListCollections reads the collections from the ledger and fills in the
// set logo from the catalog. Catalog failures degrade to an empty logo,
// they never fail the listing.
func (s *RegistryService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	collections, err := s.ledger.GetCollections(ctx)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "get collections: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i := range collections {
		col := &collections[i]
		g.Go(func() error {
			set, err := s.catalog.FindSetByName(gctx, col.Name)
			if err != nil {
				log.Warnf("catalog lookup for collection %q failed: %s", col.Name, err)
				return nil
			}
			if set != nil {
				col.LogoURL = set.LogoURL
			}
			return nil
		})
	}
	g.Wait()

	return collections, nil
}
