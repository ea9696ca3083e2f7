package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/tcg-services/configs"
	"github.com/avvvet/tcg-services/internal/boostersvc/broker"
	"github.com/avvvet/tcg-services/internal/boostersvc/cache"
	"github.com/avvvet/tcg-services/internal/boostersvc/catalog"
	handlers "github.com/avvvet/tcg-services/internal/boostersvc/handlers"
	"github.com/avvvet/tcg-services/internal/boostersvc/ledger"
	"github.com/avvvet/tcg-services/internal/boostersvc/service"
	natscli "github.com/avvvet/tcg-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "booster"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

// newLedgerClient picks the ledger backing. LEDGER_MODE=memory runs an
// in-process ledger (development only, state lost on restart); anything
// else talks to the chain gateway.
func newLedgerClient() ledger.Client {
	if os.Getenv("LEDGER_MODE") == "memory" {
		log.Warn("LEDGER_MODE=memory: running against an in-process ledger, state is volatile")
		return ledger.NewMemory()
	}

	gatewayURL := os.Getenv("LEDGER_GATEWAY_URL")
	if gatewayURL == "" {
		log.Fatal("LEDGER_GATEWAY_URL is required unless LEDGER_MODE=memory")
	}
	return ledger.NewGateway(gatewayURL, os.Getenv("LEDGER_GATEWAY_KEY"))
}

func main() {

	// collaborators
	ledgerClient := newLedgerClient()

	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		catalogURL = "https://api.pokemontcg.io/v2"
	}
	catalogClient := catalog.NewClient(catalogURL, os.Getenv("CATALOG_API_KEY"))

	// core services
	store := cache.NewMemoryStore()
	generator := service.NewGeneratorService(catalogClient)
	boosterService := service.NewBoosterService(ledgerClient, store, generator)
	registryService := service.NewRegistryService(ledgerClient, catalogClient)
	holdersService := service.NewHoldersService(ledgerClient, catalogClient)
	mintService := service.NewMintService(ledgerClient)

	// NATS is optional; the service degrades to no event publishing
	var b *broker.Broker
	n, err := natscli.Connect()
	if err != nil {
		log.Warnf("unable to connect to NATS server, lifecycle events disabled %v", err)
	} else {
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		b = broker.NewBroker(n.Conn)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(registryService, holdersService, boosterService, mintService, b)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("BOOSTER_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
