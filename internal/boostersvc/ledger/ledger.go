package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// EventBoosterCreated is emitted by the booster contract on mint. Its
// first argument is the assigned booster id, the second the owner.
const EventBoosterCreated = "BoosterCreated"

// Event is a named log entry emitted by a transaction, arguments in
// emission order, stringified.
type Event struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// Receipt is the final state of a transaction after finality.
type Receipt struct {
	TxHash   string          `json:"tx_hash"`
	Reverted bool            `json:"reverted"`
	Reason   string          `json:"reason,omitempty"`
	Events   []Event         `json:"events,omitempty"`
	FeePaid  decimal.Decimal `json:"fee_paid"`
}

// FirstEvent returns the first event with the given name, or nil.
func (r *Receipt) FirstEvent(name string) *Event {
	for i := range r.Events {
		if r.Events[i].Name == name {
			return &r.Events[i]
		}
	}
	return nil
}

// Tx is a submitted transaction. Once submitted it cannot be cancelled
// locally; Wait blocks until finality and returns the receipt.
type Tx interface {
	Hash() string
	Wait(ctx context.Context) (*Receipt, error)
}

// Client is the ledger collaborator. Submit operations return a Tx,
// reads return plain data. Signing and broadcasting are on the other
// side of this interface.
type Client interface {
	CreateCollection(ctx context.Context, name string, cardCount int) (Tx, error)
	MintCard(ctx context.Context, owner string, collectionID int64, cardNumber int) (Tx, error)
	BatchMintCards(ctx context.Context, owners []string, collectionIDs []int64, cardNumbers []int) (Tx, error)
	CreateBoosterToken(ctx context.Context, owner string) (Tx, error)
	BindBoosterContent(ctx context.Context, boosterID int64, cardIDs []int64) (Tx, error)
	OpenBoosterToken(ctx context.Context, boosterID int64) (Tx, error)

	GetCollections(ctx context.Context) ([]models.Collection, error)
	GetBoosterContent(ctx context.Context, boosterID int64) ([]int64, error)
	GetOwner(ctx context.Context, tokenID int64) (string, error)
	GetAllHolders(ctx context.Context) ([]string, error)
	GetHolderCards(ctx context.Context, owner string) ([]models.MintedCard, error)
}
