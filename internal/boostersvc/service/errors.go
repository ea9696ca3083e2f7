package service

import (
	"errors"
	"fmt"
)

// Kind tags a booster flow failure so callers can tell "nothing
// happened, retry safely" apart from "a token exists in a partially
// bound state, run the bind-only recovery".
type Kind string

const (
	// KindContentNotFound: no cached pack for the collection, run
	// generation first. No ledger call was made.
	KindContentNotFound Kind = "content_not_found"
	// KindLedgerRejected: a transaction reverted or the ledger was
	// unreachable. Nothing committed; the same operation is safe to retry.
	KindLedgerRejected Kind = "ledger_rejected"
	// KindEventNotFound: finality reached but the expected event is
	// missing from the receipt. Contract/ABI drift; do not retry.
	KindEventNotFound Kind = "event_not_found"
	// KindBindRejected: the mint committed but the bind did not. The
	// booster exists unbound; re-running the full claim would mint a
	// second token, so only a bind-only retry is safe.
	KindBindRejected Kind = "bind_rejected"
	// KindNotOwner: the caller does not own the token.
	KindNotOwner Kind = "not_owner"
	// KindCatalogUnavailable: catalog lookup failed. Never fatal to the
	// primary operation; output degrades to empty enrichment.
	KindCatalogUnavailable Kind = "catalog_unavailable"
)

type FlowError struct {
	Kind      Kind
	BoosterID int64 // the orphaned minted token, set on bind failures
	Err       error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error { return e.Err }

func flowErr(kind Kind, format string, args ...interface{}) *FlowError {
	return &FlowError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from an error chain, or "".
func KindOf(err error) Kind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
