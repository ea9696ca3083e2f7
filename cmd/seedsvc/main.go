package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	config "github.com/avvvet/tcg-services/configs"
	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/service"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "seed"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

// seedsvc is a one-shot operator tool: it registers the collections
// listed in SEED_COLLECTIONS ("Base:102,Jungle:64") and optionally
// batch-mints one random card per collection to each SEED_OWNERS address.
func main() {
	gatewayURL := os.Getenv("LEDGER_GATEWAY_URL")
	if gatewayURL == "" {
		log.Fatal("LEDGER_GATEWAY_URL is required")
	}
	ledgerClient := ledger.NewGateway(gatewayURL, os.Getenv("LEDGER_GATEWAY_KEY"))
	mintService := service.NewMintService(ledgerClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	collections, err := parseSeedCollections(os.Getenv("SEED_COLLECTIONS"))
	if err != nil {
		log.Fatalf("Invalid SEED_COLLECTIONS value: %v", err)
	}
	if len(collections) == 0 {
		log.Fatal("SEED_COLLECTIONS is empty, nothing to do")
	}

	for _, col := range collections {
		txHash, err := mintService.CreateCollection(ctx, col.name, col.cardCount)
		if err != nil {
			log.Fatalf("create collection %q: %v", col.name, err)
		}
		log.Infof("collection %q seeded in tx %s", col.name, txHash)
	}

	owners := splitList(os.Getenv("SEED_OWNERS"))
	if len(owners) == 0 {
		log.Info("no SEED_OWNERS set, skipping starter mint")
		return
	}

	// the ledger assigns collection ids monotonically, read them back
	registered, err := ledgerClient.GetCollections(ctx)
	if err != nil {
		log.Fatalf("read back collections: %v", err)
	}

	var batchOwners []string
	var batchCollections []int64
	var batchNumbers []int
	for _, owner := range owners {
		for _, col := range registered {
			batchOwners = append(batchOwners, owner)
			batchCollections = append(batchCollections, col.ID)
			batchNumbers = append(batchNumbers, 1+rand.Intn(col.CardCount-1))
		}
	}

	txHash, err := mintService.BatchMintCards(ctx, batchOwners, batchCollections, batchNumbers)
	if err != nil {
		log.Fatalf("batch mint starter cards: %v", err)
	}
	log.Infof("%d starter cards minted in tx %s", len(batchOwners), txHash)
}

type seedCollection struct {
	name      string
	cardCount int
}

func parseSeedCollections(raw string) ([]seedCollection, error) {
	var out []seedCollection
	for _, entry := range splitList(raw) {
		name, countStr, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("entry %q is not Name:cardCount", entry)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count <= 1 {
			return nil, fmt.Errorf("entry %q has an invalid card count", entry)
		}
		out = append(out, seedCollection{name: strings.TrimSpace(name), cardCount: count})
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
