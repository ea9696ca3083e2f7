package models

// PotentialBooster is a candidate pack generated off-ledger. It lives in
// the content cache until it is superseded by a newer generation pass.
// It is an advisory hint only, the ledger is the source of truth once
// content is bound.
type PotentialBooster struct {
	CollectionID   int64   `json:"collection_id"`
	CollectionName string  `json:"collection_name"`
	Cards          []int64 `json:"cards"` // composite card ids, ordered
	ImageURL       string  `json:"image_url,omitempty"`
}

// BoosterToken mirrors the on-ledger booster entity. A booster moves
// Minted -> Bound -> Opened, each transition one-way.
type BoosterToken struct {
	BoosterID int64   `json:"booster_id"`
	Owner     string  `json:"owner"`
	IsOpened  bool    `json:"is_opened"`
	Cards     []int64 `json:"cards,omitempty"` // nil until bound
}

type ClaimResult struct {
	BoosterID int64   `json:"booster_id"`
	Cards     []int64 `json:"cards"`
}

type OpenResult struct {
	BoosterID int64   `json:"booster_id"`
	Cards     []int64 `json:"cards"`
}
