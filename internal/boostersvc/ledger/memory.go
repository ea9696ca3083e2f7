package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

// Memory is an in-process ledger used for development runs and tests.
// It enforces the same rules the contracts do: collection and token ids
// are assigned monotonically from zero, a booster moves Minted -> Bound
// -> Opened, and any transition out of order reverts.
type Memory struct {
	mu sync.Mutex

	collections []models.Collection
	cards       map[int64]*memCard
	boosters    map[int64]*memBooster

	nextTokenID   int64
	nextBoosterID int64

	// FailBind forces bind transactions to revert while set. Used to
	// exercise the orphaned-booster recovery path.
	FailBind bool
}

type memCard struct {
	owner        string
	collectionID int64
	cardNumber   int
}

type memBooster struct {
	owner  string
	cards  []int64
	bound  bool
	opened bool
}

var _ Client = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		cards:    make(map[int64]*memCard),
		boosters: make(map[int64]*memBooster),
	}
}

type memTx struct {
	hash string
	rcpt *Receipt
}

func (t *memTx) Hash() string { return t.hash }

func (t *memTx) Wait(ctx context.Context) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.rcpt, nil
}

func newMemTx(rcpt *Receipt) *memTx {
	id, _ := uuid.NewV4()
	rcpt.TxHash = id.String()
	rcpt.FeePaid = decimal.Zero
	return &memTx{hash: rcpt.TxHash, rcpt: rcpt}
}

func reverted(reason string) *memTx {
	return newMemTx(&Receipt{Reverted: true, Reason: reason})
}

func (m *Memory) CreateCollection(ctx context.Context, name string, cardCount int) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cardCount <= 0 || int64(cardCount) > models.CardKeyBase {
		return reverted("Invalid card count"), nil
	}

	id := int64(len(m.collections))
	m.collections = append(m.collections, models.Collection{
		ID:        id,
		Name:      name,
		CardCount: cardCount,
	})

	return newMemTx(&Receipt{
		Events: []Event{{
			Name: "CollectionCreated",
			Args: []string{strconv.FormatInt(id, 10), name},
		}},
	}), nil
}

func (m *Memory) MintCard(ctx context.Context, owner string, collectionID int64, cardNumber int) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mintCardLocked(owner, collectionID, cardNumber), nil
}

func (m *Memory) mintCardLocked(owner string, collectionID int64, cardNumber int) Tx {
	if collectionID < 0 || collectionID >= int64(len(m.collections)) {
		return reverted("Collection does not exist")
	}
	if cardNumber < 0 || cardNumber >= m.collections[collectionID].CardCount {
		return reverted("Invalid card number")
	}

	id := m.nextTokenID
	m.nextTokenID++
	m.cards[id] = &memCard{owner: owner, collectionID: collectionID, cardNumber: cardNumber}

	return newMemTx(&Receipt{
		Events: []Event{{
			Name: "CardMinted",
			Args: []string{strconv.FormatInt(id, 10), owner},
		}},
	})
}

func (m *Memory) BatchMintCards(ctx context.Context, owners []string, collectionIDs []int64, cardNumbers []int) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(owners) != len(collectionIDs) || len(owners) != len(cardNumbers) {
		return reverted("Array length mismatch"), nil
	}

	// validate the whole batch up front so a revert leaves nothing minted
	for i := range owners {
		if collectionIDs[i] < 0 || collectionIDs[i] >= int64(len(m.collections)) {
			return reverted("Collection does not exist"), nil
		}
		if cardNumbers[i] < 0 || cardNumbers[i] >= m.collections[collectionIDs[i]].CardCount {
			return reverted("Invalid card number"), nil
		}
	}

	var events []Event
	for i := range owners {
		tx := m.mintCardLocked(owners[i], collectionIDs[i], cardNumbers[i])
		rcpt, _ := tx.Wait(ctx)
		events = append(events, rcpt.Events...)
	}

	return newMemTx(&Receipt{Events: events}), nil
}

func (m *Memory) CreateBoosterToken(ctx context.Context, owner string) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextBoosterID
	m.nextBoosterID++
	m.boosters[id] = &memBooster{owner: owner}

	return newMemTx(&Receipt{
		Events: []Event{{
			Name: EventBoosterCreated,
			Args: []string{strconv.FormatInt(id, 10), owner},
		}},
	}), nil
}

func (m *Memory) BindBoosterContent(ctx context.Context, boosterID int64, cardIDs []int64) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailBind {
		return reverted("Bind forced to fail"), nil
	}

	b, ok := m.boosters[boosterID]
	if !ok {
		return reverted("Booster does not exist"), nil
	}
	if b.bound {
		return reverted("Booster content already set"), nil
	}

	b.cards = append([]int64(nil), cardIDs...)
	b.bound = true

	return newMemTx(&Receipt{
		Events: []Event{{
			Name: "BoosterContentSet",
			Args: []string{strconv.FormatInt(boosterID, 10)},
		}},
	}), nil
}

func (m *Memory) OpenBoosterToken(ctx context.Context, boosterID int64) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boosters[boosterID]
	if !ok {
		return reverted("Booster does not exist"), nil
	}
	if !b.bound {
		return reverted("Booster content not set"), nil
	}
	if b.opened {
		return reverted("Booster already opened"), nil
	}

	b.opened = true

	return newMemTx(&Receipt{
		Events: []Event{{
			Name: "BoosterOpened",
			Args: []string{strconv.FormatInt(boosterID, 10)},
		}},
	}), nil
}

func (m *Memory) GetCollections(ctx context.Context) ([]models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Collection(nil), m.collections...), nil
}

func (m *Memory) GetBoosterContent(ctx context.Context, boosterID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boosters[boosterID]
	if !ok {
		return nil, fmt.Errorf("booster %d does not exist", boosterID)
	}
	if !b.bound {
		return nil, fmt.Errorf("booster %d content not set", boosterID)
	}
	return append([]int64(nil), b.cards...), nil
}

// GetOwner resolves booster ids first, then plain card tokens. The two
// contracts keep separate id spaces in the reference deployment.
func (m *Memory) GetOwner(ctx context.Context, tokenID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.boosters[tokenID]; ok {
		return b.owner, nil
	}
	if c, ok := m.cards[tokenID]; ok {
		return c.owner, nil
	}
	return "", fmt.Errorf("token %d does not exist", tokenID)
}

func (m *Memory) GetAllHolders(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var holders []string
	for id := int64(0); id < m.nextTokenID; id++ {
		c, ok := m.cards[id]
		if !ok {
			continue
		}
		key := strings.ToLower(c.owner)
		if !seen[key] {
			seen[key] = true
			holders = append(holders, c.owner)
		}
	}
	return holders, nil
}

func (m *Memory) GetHolderCards(ctx context.Context, owner string) ([]models.MintedCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cards []models.MintedCard
	for id := int64(0); id < m.nextTokenID; id++ {
		c, ok := m.cards[id]
		if !ok || !strings.EqualFold(c.owner, owner) {
			continue
		}
		cards = append(cards, models.MintedCard{
			TokenID:        id,
			CollectionName: m.collections[c.collectionID].Name,
			CardNumber:     c.cardNumber,
		})
	}
	return cards, nil
}
