package models

type Collection struct {
	ID        int64  `json:"id"`         // ledger-assigned, monotonic from 0
	Name      string `json:"name"`       // set name, e.g. "Base"
	CardCount int    `json:"card_count"` // number of card types in the set
	LogoURL   string `json:"logo_url,omitempty"`
}
