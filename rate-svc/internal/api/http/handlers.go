package httpapi

import (
	"net/http"

	"qrmenu/internal/auth"
	"qrmenu/internal/httpx"
	"qrmenu/rate-svc/internal/domain"
	"qrmenu/rate-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Reviews service.ReviewServiceInterface
	Tokens  *auth.TokenManager
}

func NewHandler(reviews service.ReviewServiceInterface, tokens *auth.TokenManager) *Handler {
	return &Handler{Reviews: reviews, Tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpx.Health("rate-svc")).Methods("GET")
	r.HandleFunc("/api/reviews/create", h.createReview).Methods("POST")
	r.HandleFunc("/api/reviews/restaurant/{restaurantId:[0-9]+}", h.listReviews).Methods("GET")
	r.HandleFunc("/api/reviews/{id:[0-9]+}", h.Tokens.RequireFunc(h.deleteReview)).Methods("DELETE")
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	review, err := h.Reviews.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := httpx.PathInt(r, "restaurantId")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", 0)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	list, err := h.Reviews.List(r.Context(), restaurantID, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := httpx.PathInt(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	restaurantID, err := auth.RestaurantID(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.Reviews.Delete(r.Context(), restaurantID, reviewID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}
