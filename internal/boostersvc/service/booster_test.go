package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/tcg-services/internal/boostersvc/cache"
	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

func mustGenerate(t *testing.T, gen *GeneratorService, collectionID int64, name string, cardCount int) *models.PotentialBooster {
	t.Helper()
	pb, err := gen.Generate(context.Background(), collectionID, name, cardCount)
	require.NoError(t, err)
	return pb
}

// spyLedger counts submissions going through to the wrapped ledger.
type spyLedger struct {
	ledger.Client
	creates int
	binds   int
	opens   int
}

func (s *spyLedger) CreateBoosterToken(ctx context.Context, owner string) (ledger.Tx, error) {
	s.creates++
	return s.Client.CreateBoosterToken(ctx, owner)
}

func (s *spyLedger) BindBoosterContent(ctx context.Context, boosterID int64, cardIDs []int64) (ledger.Tx, error) {
	s.binds++
	return s.Client.BindBoosterContent(ctx, boosterID, cardIDs)
}

func (s *spyLedger) OpenBoosterToken(ctx context.Context, boosterID int64) (ledger.Tx, error) {
	s.opens++
	return s.Client.OpenBoosterToken(ctx, boosterID)
}

// newBoosterFixture sets up a memory ledger with two collections:
// id 0 "Phantom" (unknown to the catalog) and id 1 "Base" (100 cards).
func newBoosterFixture(t *testing.T) (*ledger.Memory, *spyLedger, cache.Store, *BoosterService) {
	t.Helper()
	ctx := context.Background()

	mem := ledger.NewMemory()
	for _, c := range []struct {
		name  string
		count int
	}{{"Phantom", 50}, {"Base", 100}} {
		tx, err := mem.CreateCollection(ctx, c.name, c.count)
		require.NoError(t, err)
		rcpt, err := tx.Wait(ctx)
		require.NoError(t, err)
		require.False(t, rcpt.Reverted)
	}

	spy := &spyLedger{Client: mem}
	store := cache.NewMemoryStore()
	gen := NewGeneratorService(catalogWithSet("Base", "base1", 99))
	svc := NewBoosterService(spy, store, gen)
	return mem, spy, store, svc
}

func TestGenerateAllContinuesPastFailures(t *testing.T) {
	_, _, store, svc := newBoosterFixture(t)

	boosters, err := svc.GenerateAll(context.Background())
	require.Error(t, err, "the Phantom collection has no catalog set")
	require.Len(t, boosters, 1)
	assert.Equal(t, int64(1), boosters[0].CollectionID)

	_, ok := store.Get(1)
	assert.True(t, ok, "Base pack must be cached despite the Phantom failure")
	_, ok = store.Get(0)
	assert.False(t, ok)
}

func TestClaimWithoutContent(t *testing.T) {
	_, spy, _, svc := newBoosterFixture(t)

	_, err := svc.Claim(context.Background(), "0xAaa", 1)
	require.Error(t, err)
	assert.Equal(t, KindContentNotFound, KindOf(err))
	assert.Zero(t, spy.creates, "a cache miss must not touch the ledger")
}

func TestClaimAndOpenScenario(t *testing.T) {
	ctx := context.Background()
	_, spy, _, svc := newBoosterFixture(t)

	_, err := svc.GenerateAll(ctx)
	require.Error(t, err) // Phantom only

	claim, err := svc.Claim(ctx, "0xAaa", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claim.BoosterID)
	require.Len(t, claim.Cards, DefaultPackSize)
	for _, id := range claim.Cards {
		assert.GreaterOrEqual(t, id, int64(1000))
		assert.LessOrEqual(t, id, int64(1099))
	}

	opened, err := svc.Open(ctx, "0xAAA", claim.BoosterID)
	require.NoError(t, err, "ownership compare is case-insensitive")
	assert.Equal(t, claim.Cards, opened.Cards, "opened content comes from the ledger, identical to what was bound")

	_, err = svc.Open(ctx, "0xBbb", claim.BoosterID)
	require.Error(t, err)
	assert.Equal(t, KindNotOwner, KindOf(err))
	assert.Equal(t, 1, spy.opens, "a NotOwner failure must not issue a transaction")
}

func TestRepeatedClaimsReuseCachedContent(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc := newBoosterFixture(t)

	_, err := svc.GenerateAll(ctx)
	require.Error(t, err)

	first, err := svc.Claim(ctx, "0xAaa", 1)
	require.NoError(t, err)
	second, err := svc.Claim(ctx, "0xBbb", 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.BoosterID, second.BoosterID)
	assert.Equal(t, first.Cards, second.Cards,
		"without an intervening generation pass both claimants get the same content")
}

func TestClaimBindFailureLeavesOrphan(t *testing.T) {
	ctx := context.Background()
	mem, _, _, svc := newBoosterFixture(t)

	_, err := svc.GenerateAll(ctx)
	require.Error(t, err)

	mem.FailBind = true
	_, err = svc.Claim(ctx, "0xAaa", 1)
	require.Error(t, err)

	var fe *FlowError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, KindBindRejected, fe.Kind)
	boosterID := fe.BoosterID

	// the mint committed: the token exists, owned, unbound
	owner, err := mem.GetOwner(ctx, boosterID)
	require.NoError(t, err)
	assert.Equal(t, "0xAaa", owner)

	_, err = svc.Open(ctx, "0xAaa", boosterID)
	require.Error(t, err, "opening an unbound booster is rejected by the ledger")
	assert.Equal(t, KindLedgerRejected, KindOf(err))

	// operator recovery: bind-only, no second mint
	mem.FailBind = false
	bound, err := svc.Bind(ctx, boosterID, 1)
	require.NoError(t, err)
	assert.Equal(t, boosterID, bound.BoosterID)

	opened, err := svc.Open(ctx, "0xAaa", boosterID)
	require.NoError(t, err)
	assert.Equal(t, bound.Cards, opened.Cards)
}

func TestClaimEventNotFound(t *testing.T) {
	ctx := context.Background()
	_, _, store, _ := newBoosterFixture(t)

	// a ledger whose mint receipt carries no BoosterCreated event
	drifted := &eventlessLedger{Client: ledger.NewMemory()}
	gen := NewGeneratorService(catalogWithSet("Base", "base1", 99))
	svc := NewBoosterService(drifted, store, gen)

	store.Put(1, mustGenerate(t, gen, 1, "Base", 100))

	_, err := svc.Claim(ctx, "0xAaa", 1)
	require.Error(t, err)
	assert.Equal(t, KindEventNotFound, KindOf(err))
}

type eventlessLedger struct {
	ledger.Client
}

func (l *eventlessLedger) CreateBoosterToken(ctx context.Context, owner string) (ledger.Tx, error) {
	tx, err := l.Client.CreateBoosterToken(ctx, owner)
	if err != nil {
		return nil, err
	}
	rcpt, err := tx.Wait(ctx)
	if err != nil {
		return nil, err
	}
	stripped := *rcpt
	stripped.Events = nil
	return &staticTx{rcpt: &stripped}, nil
}

type staticTx struct {
	rcpt *ledger.Receipt
}

func (t *staticTx) Hash() string { return t.rcpt.TxHash }

func (t *staticTx) Wait(ctx context.Context) (*ledger.Receipt, error) { return t.rcpt, nil }
