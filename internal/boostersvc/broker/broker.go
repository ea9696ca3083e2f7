package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/tcg-services/internal/comm"
)

const eventsSubject = "booster.events"

// Broker publishes booster lifecycle events to NATS so downstream
// services (notifiers, indexers) can follow along. All methods are
// nil-safe; the service runs fine without a NATS connection.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) publish(msgType string, payload interface{}) {
	if b == nil || b.Conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Error marshaling %s payload %s", msgType, err)
		return
	}

	msg := comm.EventMessage{Type: msgType, Data: data}
	out, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error marshaling %s event %s", msgType, err)
		return
	}

	if err := b.Conn.Publish(eventsSubject, out); err != nil {
		log.Errorf("Error publishing %s event %s", msgType, err)
	}
}

func (b *Broker) PublishGenerated(count, failed int) {
	b.publish("boosters-generated", comm.BoostersGenerated{
		Count:     count,
		Failed:    failed,
		Timestamp: time.Now().UTC(),
	})
}

func (b *Broker) PublishClaimed(boosterID int64, owner string, collectionID int64, cardCount int) {
	b.publish("booster-claimed", comm.BoosterClaimed{
		BoosterID:    boosterID,
		Owner:        owner,
		CollectionID: collectionID,
		CardCount:    cardCount,
	})
}

func (b *Broker) PublishOpened(boosterID int64, owner string) {
	b.publish("booster-opened", comm.BoosterOpened{
		BoosterID: boosterID,
		Owner:     owner,
	})
}

func (b *Broker) PublishOrphaned(boosterID int64, owner string, collectionID int64, reason string) {
	b.publish("booster-orphaned", comm.BoosterOrphaned{
		BoosterID:    boosterID,
		Owner:        owner,
		CollectionID: collectionID,
		Reason:       reason,
	})
}
