package comm

import (
	"encoding/json"
	"time"
)

// EventMessage is the envelope published on the booster events subject.
type EventMessage struct {
	Type string          `json:"type"` // e.g. "boosters-generated", "booster-claimed"
	Data json.RawMessage `json:"data"`
}

type BoostersGenerated struct {
	Count     int       `json:"count"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

type BoosterClaimed struct {
	BoosterID    int64  `json:"booster_id"`
	Owner        string `json:"owner"`
	CollectionID int64  `json:"collection_id"`
	CardCount    int    `json:"card_count"`
}

type BoosterOpened struct {
	BoosterID int64  `json:"booster_id"`
	Owner     string `json:"owner"`
}

// BoosterOrphaned reports a booster whose mint committed but whose bind
// failed. Operators watch these and run the bind-only recovery.
type BoosterOrphaned struct {
	BoosterID    int64  `json:"booster_id"`
	Owner        string `json:"owner"`
	CollectionID int64  `json:"collection_id"`
	Reason       string `json:"reason"`
}
