package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
)

// MintService covers the operator-side ledger writes: registering
// collections and minting plain card tokens.
type MintService struct {
	ledger ledger.Client
}

func NewMintService(lc ledger.Client) *MintService {
	return &MintService{ledger: lc}
}

// awaitSuccess waits for finality and maps a revert to LedgerRejected.
func awaitSuccess(ctx context.Context, tx ledger.Tx, what string) (*ledger.Receipt, error) {
	rcpt, err := tx.Wait(ctx)
	if err != nil {
		return nil, flowErr(KindLedgerRejected, "await %s %s: %w", what, tx.Hash(), err)
	}
	if rcpt.Reverted {
		return nil, flowErr(KindLedgerRejected, "%s %s reverted: %s", what, rcpt.TxHash, rcpt.Reason)
	}
	return rcpt, nil
}

// CreateCollection registers a collection on the ledger and returns the
// mint transaction hash. The assigned id is read back via the registry.
func (s *MintService) CreateCollection(ctx context.Context, name string, cardCount int) (string, error) {
	tx, err := s.ledger.CreateCollection(ctx, name, cardCount)
	if err != nil {
		return "", flowErr(KindLedgerRejected, "create collection: %w", err)
	}
	rcpt, err := awaitSuccess(ctx, tx, "create collection")
	if err != nil {
		return "", err
	}
	log.Infof("collection %q (%d cards) created in tx %s", name, cardCount, rcpt.TxHash)
	return rcpt.TxHash, nil
}

func (s *MintService) MintCard(ctx context.Context, owner string, collectionID int64, cardNumber int) (string, error) {
	tx, err := s.ledger.MintCard(ctx, owner, collectionID, cardNumber)
	if err != nil {
		return "", flowErr(KindLedgerRejected, "mint card: %w", err)
	}
	rcpt, err := awaitSuccess(ctx, tx, "mint card")
	if err != nil {
		return "", err
	}
	log.Infof("card %d of collection %d minted to %s in tx %s", cardNumber, collectionID, owner, rcpt.TxHash)
	return rcpt.TxHash, nil
}

func (s *MintService) BatchMintCards(ctx context.Context, owners []string, collectionIDs []int64, cardNumbers []int) (string, error) {
	if len(owners) != len(collectionIDs) || len(owners) != len(cardNumbers) {
		return "", flowErr(KindLedgerRejected, "batch mint arrays differ in length: %d owners, %d collections, %d numbers",
			len(owners), len(collectionIDs), len(cardNumbers))
	}
	tx, err := s.ledger.BatchMintCards(ctx, owners, collectionIDs, cardNumbers)
	if err != nil {
		return "", flowErr(KindLedgerRejected, "batch mint: %w", err)
	}
	rcpt, err := awaitSuccess(ctx, tx, "batch mint")
	if err != nil {
		return "", err
	}
	log.Infof("batch of %d cards minted in tx %s", len(owners), rcpt.TxHash)
	return rcpt.TxHash, nil
}
