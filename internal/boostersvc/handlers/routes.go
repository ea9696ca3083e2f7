package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes
		r.Get("/health", h.HealthHandler)
		r.Get("/collections", h.ListCollectionsHandler)
		r.Get("/minted-users", h.MintedUsersHandler)
		r.Get("/boosters/{boosterID}", h.BoosterContentHandler)
		r.Post("/boosters/claim", h.ClaimBoosterHandler)
		r.Post("/boosters/open", h.OpenBoosterHandler)

		// operator routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Post("/collections", h.CreateCollectionHandler)
			r.Post("/mint", h.MintCardHandler)
			r.Post("/batch-mint", h.BatchMintHandler)
			r.Post("/boosters/generate", h.GenerateBoostersHandler)
			r.Post("/boosters/bind", h.BindBoosterHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": 8003022,
		"exp":        expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: operator JWT for testing expires soon : %s", tokenString)
}
