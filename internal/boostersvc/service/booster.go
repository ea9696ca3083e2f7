package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/avvvet/tcg-services/internal/boostersvc/cache"
	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// BoosterService drives the booster lifecycle: generate candidate packs
// into the cache, claim (mint + bind), and open. The ledger is the
// source of truth for ownership and bound content; the cache is a
// disposable hint that lets content exist before a claimant is known.
type BoosterService struct {
	ledger    ledger.Client
	cache     cache.Store
	generator *GeneratorService
}

func NewBoosterService(lc ledger.Client, store cache.Store, gen *GeneratorService) *BoosterService {
	return &BoosterService{ledger: lc, cache: store, generator: gen}
}

// GenerateAll regenerates the candidate pack of every registered
// collection. Succeeded packs are cached eagerly, so one bad collection
// never blanks the others; the failures come back joined alongside the
// packs that did generate.
func (s *BoosterService) GenerateAll(ctx context.Context) ([]*models.PotentialBooster, error) {
	collections, err := s.ledger.GetCollections(ctx)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "get collections: %w", err)
	}

	var boosters []*models.PotentialBooster
	var failures []error
	for _, col := range collections {
		pb, err := s.generator.Generate(ctx, col.ID, col.Name, col.CardCount)
		if err != nil {
			log.Errorf("generate booster for collection %d (%s): %s", col.ID, col.Name, err)
			failures = append(failures, err)
			continue
		}
		s.cache.Put(col.ID, pb)
		boosters = append(boosters, pb)
	}

	return boosters, errors.Join(failures...)
}

// Claim mints a booster token for userAddress and binds the cached pack
// of the collection to it. The cache entry is left in place on purpose:
// until the next generation pass, later claimants of the same collection
// receive the same content bound to their own token.
func (s *BoosterService) Claim(ctx context.Context, userAddress string, collectionID int64) (*models.ClaimResult, error) {
	pb, ok := s.cache.Get(collectionID)
	if !ok {
		return nil, flowErr(KindContentNotFound, "no generated content for collection %d", collectionID)
	}

	tx, err := s.ledger.CreateBoosterToken(ctx, userAddress)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "create booster: %w", err)
	}
	rcpt, err := tx.Wait(ctx)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "await booster mint %s: %w", tx.Hash(), err)
	}
	if rcpt.Reverted {
		return nil, flowErr(KindLedgerRejected, "booster mint %s reverted: %s", rcpt.TxHash, rcpt.Reason)
	}

	boosterID, err := boosterIDFromReceipt(rcpt)
	if err != nil {
		return nil, err
	}
	log.Infof("booster %d minted for %s in tx %s", boosterID, userAddress, rcpt.TxHash)

	if err := s.bindContent(ctx, boosterID, pb.Cards); err != nil {
		return nil, err
	}

	log.Infof("booster %d bound with %d cards of collection %d (cached pack reused across claimants)",
		boosterID, len(pb.Cards), collectionID)

	return &models.ClaimResult{BoosterID: boosterID, Cards: pb.Cards}, nil
}

// Bind is the operator-triggered recovery path for a booster whose mint
// committed but whose bind did not. It binds the currently cached pack
// of the collection, which may have been regenerated since the claim.
func (s *BoosterService) Bind(ctx context.Context, boosterID, collectionID int64) (*models.ClaimResult, error) {
	pb, ok := s.cache.Get(collectionID)
	if !ok {
		return nil, flowErr(KindContentNotFound, "no generated content for collection %d", collectionID)
	}

	if err := s.bindContent(ctx, boosterID, pb.Cards); err != nil {
		return nil, err
	}

	return &models.ClaimResult{BoosterID: boosterID, Cards: pb.Cards}, nil
}

// bindContent submits the bind transaction. Any failure here leaves the
// booster minted but unbound, so the error carries the booster id for
// the bind-only recovery path.
func (s *BoosterService) bindContent(ctx context.Context, boosterID int64, cardIDs []int64) error {
	tx, err := s.ledger.BindBoosterContent(ctx, boosterID, cardIDs)
	if err != nil {
		return &FlowError{Kind: KindBindRejected, BoosterID: boosterID, Err: err}
	}
	rcpt, err := tx.Wait(ctx)
	if err != nil {
		return &FlowError{Kind: KindBindRejected, BoosterID: boosterID, Err: err}
	}
	if rcpt.Reverted {
		return &FlowError{
			Kind:      KindBindRejected,
			BoosterID: boosterID,
			Err:       errors.New("bind " + rcpt.TxHash + " reverted: " + rcpt.Reason),
		}
	}
	return nil
}

// boosterIDFromReceipt extracts the assigned booster id from the mint
// receipt's BoosterCreated event. A missing or malformed event means the
// deployed contract drifted from what this service expects; that is
// fatal for the claim and must not be retried blindly.
func boosterIDFromReceipt(rcpt *ledger.Receipt) (int64, error) {
	ev := rcpt.FirstEvent(ledger.EventBoosterCreated)
	if ev == nil {
		return 0, flowErr(KindEventNotFound, "no %s event in tx %s", ledger.EventBoosterCreated, rcpt.TxHash)
	}
	if len(ev.Args) == 0 {
		return 0, flowErr(KindEventNotFound, "%s event in tx %s has no arguments", ledger.EventBoosterCreated, rcpt.TxHash)
	}
	id, err := strconv.ParseInt(ev.Args[0], 10, 64)
	if err != nil {
		return 0, flowErr(KindEventNotFound, "%s event argument %q is not an id: %w", ledger.EventBoosterCreated, ev.Args[0], err)
	}
	return id, nil
}

// Open verifies ownership, submits the open transaction and returns the
// bound content read back from the ledger. The local cache is never
// consulted here, it may have been overwritten since the claim.
func (s *BoosterService) Open(ctx context.Context, userAddress string, boosterID int64) (*models.OpenResult, error) {
	owner, err := s.ledger.GetOwner(ctx, boosterID)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "get owner of booster %d: %w", boosterID, err)
	}
	if !strings.EqualFold(owner, userAddress) {
		return nil, flowErr(KindNotOwner, "booster %d is owned by %s", boosterID, owner)
	}

	tx, err := s.ledger.OpenBoosterToken(ctx, boosterID)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "open booster %d: %w", boosterID, err)
	}
	rcpt, err := tx.Wait(ctx)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "await open %s: %w", tx.Hash(), err)
	}
	if rcpt.Reverted {
		return nil, flowErr(KindLedgerRejected, "open %s reverted: %s", rcpt.TxHash, rcpt.Reason)
	}

	cards, err := s.ledger.GetBoosterContent(ctx, boosterID)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "get content of booster %d: %w", boosterID, err)
	}

	log.Infof("booster %d opened by %s", boosterID, userAddress)

	return &models.OpenResult{BoosterID: boosterID, Cards: cards}, nil
}

// Content returns the bound content of a booster straight from the ledger.
func (s *BoosterService) Content(ctx context.Context, boosterID int64) ([]int64, error) {
	cards, err := s.ledger.GetBoosterContent(ctx, boosterID)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "get content of booster %d: %w", boosterID, err)
	}
	return cards, nil
}
