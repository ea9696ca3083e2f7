package handlers

import (
	"net/http"
)

func (h *Handler) ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := h.Registry.ListCollections(r.Context())
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "collections",
		Code:    http.StatusOK,
		Data:    collections,
	})
}

func (h *Handler) MintedUsersHandler(w http.ResponseWriter, r *http.Request) {
	holders, err := h.Holders.ListHolders(r.Context())
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "minted users",
		Code:    http.StatusOK,
		Data:    holders,
	})
}

func (h *Handler) CreateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		CardCount int    `json:"card_count"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if req.Name == "" || req.CardCount <= 0 {
		h.CreateResponse(w, Response{
			Message: "name and a positive card_count are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	txHash, err := h.Mint.CreateCollection(r.Context(), req.Name, req.CardCount)
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "collection created",
		Code:    http.StatusCreated,
		Data:    map[string]string{"tx_hash": txHash},
	})
}

func (h *Handler) MintCardHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerAddress string `json:"owner_address"`
		CollectionID int64  `json:"collection_id"`
		CardNumber   int    `json:"card_number"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if req.OwnerAddress == "" {
		h.CreateResponse(w, Response{
			Message: "owner_address is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	txHash, err := h.Mint.MintCard(r.Context(), req.OwnerAddress, req.CollectionID, req.CardNumber)
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "card minted",
		Code:    http.StatusCreated,
		Data:    map[string]string{"tx_hash": txHash},
	})
}

func (h *Handler) BatchMintHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owners        []string `json:"owners"`
		CollectionIDs []int64  `json:"collection_ids"`
		CardNumbers   []int    `json:"card_numbers"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if len(req.Owners) == 0 {
		h.CreateResponse(w, Response{
			Message: "owners is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	txHash, err := h.Mint.BatchMintCards(r.Context(), req.Owners, req.CollectionIDs, req.CardNumbers)
	if err != nil {
		h.errorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "batch minted",
		Code:    http.StatusCreated,
		Data:    map[string]string{"tx_hash": txHash},
	})
}
