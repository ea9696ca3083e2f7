package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/avvvet/tcg-services/internal/boostersvc/service"
)

func (h *Handler) GenerateBoostersHandler(w http.ResponseWriter, r *http.Request) {
	boosters, err := h.Boosters.GenerateAll(r.Context())
	if err != nil && len(boosters) == 0 {
		h.errorResponse(w, err)
		return
	}

	failed := 0
	msg := "boosters generated"
	if err != nil {
		// partial success: the generated packs are already cached
		msg = "boosters generated with failures: " + err.Error()
		failed = 1
		if agg, ok := err.(interface{ Unwrap() []error }); ok {
			failed = len(agg.Unwrap())
		}
	}
	h.Broker.PublishGenerated(len(boosters), failed)

	h.CreateResponse(w, Response{
		Message: msg,
		Code:    http.StatusOK,
		Data:    boosters,
	})
}

func (h *Handler) ClaimBoosterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserAddress  string `json:"user_address"`
		CollectionID int64  `json:"collection_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserAddress == "" {
		h.CreateResponse(w, Response{
			Message: "user_address is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.Boosters.Claim(r.Context(), req.UserAddress, req.CollectionID)
	if err != nil {
		var fe *service.FlowError
		if errors.As(err, &fe) && fe.Kind == service.KindBindRejected {
			h.Broker.PublishOrphaned(fe.BoosterID, req.UserAddress, req.CollectionID, fe.Error())
		}
		h.errorResponse(w, err)
		return
	}

	h.Broker.PublishClaimed(result.BoosterID, req.UserAddress, req.CollectionID, len(result.Cards))

	h.CreateResponse(w, Response{
		Message: "booster claimed",
		Code:    http.StatusOK,
		Data:    result,
	})
}

func (h *Handler) OpenBoosterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserAddress string `json:"user_address"`
		BoosterID   int64  `json:"booster_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserAddress == "" {
		h.CreateResponse(w, Response{
			Message: "user_address is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.Boosters.Open(r.Context(), req.UserAddress, req.BoosterID)
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.Broker.PublishOpened(result.BoosterID, req.UserAddress)

	h.CreateResponse(w, Response{
		Message: "booster opened",
		Code:    http.StatusOK,
		Data:    result,
	})
}

// BindBoosterHandler is the operator recovery path for boosters left
// minted but unbound by a failed claim.
func (h *Handler) BindBoosterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BoosterID    int64 `json:"booster_id"`
		CollectionID int64 `json:"collection_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.Boosters.Bind(r.Context(), req.BoosterID, req.CollectionID)
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "booster bound",
		Code:    http.StatusOK,
		Data:    result,
	})
}

func (h *Handler) BoosterContentHandler(w http.ResponseWriter, r *http.Request) {
	boosterID, err := strconv.ParseInt(chi.URLParam(r, "boosterID"), 10, 64)
	if err != nil {
		h.CreateResponse(w, Response{
			Message: "invalid booster id",
			Code:    http.StatusBadRequest,
			Error:   err.Error(),
		})
		return
	}

	cards, err := h.Boosters.Content(r.Context(), boosterID)
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "booster content",
		Code:    http.StatusOK,
		Data:    map[string]interface{}{"booster_id": boosterID, "cards": cards},
	})
}
