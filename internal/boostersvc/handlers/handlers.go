package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/tcg-services/internal/boostersvc/broker"
	"github.com/avvvet/tcg-services/internal/boostersvc/service"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth

	Registry *service.RegistryService
	Holders  *service.HoldersService
	Boosters *service.BoosterService
	Mint     *service.MintService
	Broker   *broker.Broker
}

func NewHandler(registry *service.RegistryService, holders *service.HoldersService,
	boosters *service.BoosterService, mint *service.MintService, b *broker.Broker) *Handler {
	return &Handler{
		Registry: registry,
		Holders:  holders,
		Boosters: boosters,
		Mint:     mint,
		Broker:   b,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

// errorResponse maps a flow error to an HTTP response. The kind travels
// with the body so clients can tell a safe retry from an orphaned token.
func (h *Handler) errorResponse(w http.ResponseWriter, err error) {
	rsp := Response{
		Message: "request failed",
		Code:    http.StatusInternalServerError,
		Error:   err.Error(),
	}

	var fe *service.FlowError
	if errors.As(err, &fe) {
		rsp.Kind = string(fe.Kind)
		switch fe.Kind {
		case service.KindContentNotFound:
			rsp.Code = http.StatusNotFound
		case service.KindNotOwner:
			rsp.Code = http.StatusForbidden
		case service.KindLedgerRejected, service.KindEventNotFound:
			rsp.Code = http.StatusBadGateway
		case service.KindBindRejected:
			// the mint committed; hand back the orphaned id for the
			// bind-only recovery
			rsp.Code = http.StatusBadGateway
			rsp.Data = map[string]int64{"booster_id": fe.BoosterID}
		}
	}

	log.Errorf("request failed: %s", err)
	h.CreateResponse(w, rsp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.CreateResponse(w, Response{
			Message: "invalid request body",
			Code:    http.StatusBadRequest,
			Error:   err.Error(),
		})
		return false
	}
	return true
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "booster service is running at port " + os.Getenv("BOOSTER_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}
