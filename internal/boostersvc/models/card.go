package models

// CardKeyBase is the base of the composite on-ledger card key.
// A card is identified by collectionID*CardKeyBase + cardNumber, so the
// key is reconstructible from its parts without any lookup table.
// Card numbers must stay strictly below this base.
const CardKeyBase int64 = 1000

// CardID builds the composite on-ledger identifier for a card.
func CardID(collectionID int64, cardNumber int) int64 {
	return collectionID*CardKeyBase + int64(cardNumber)
}

// SplitCardID is the inverse of CardID.
func SplitCardID(cardID int64) (collectionID int64, cardNumber int) {
	return cardID / CardKeyBase, int(cardID % CardKeyBase)
}

// MintedCard is a plain (non-booster) token on the ledger. Ownership
// can change hands, the card content never does.
type MintedCard struct {
	TokenID        int64  `json:"token_id"`
	CollectionName string `json:"collection_name"`
	CardNumber     int    `json:"card_number"`
	Name           string `json:"name,omitempty"`      // catalog enrichment
	ImageURL       string `json:"image_url,omitempty"` // catalog enrichment
}

// HolderCards groups the minted cards of one address, for the
// minted-users directory.
type HolderCards struct {
	Address string       `json:"address"`
	Cards   []MintedCard `json:"cards"`
}
