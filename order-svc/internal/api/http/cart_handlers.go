package httpapi

import (
	"net/http"

	"qrmenu/internal/cart"
	"qrmenu/internal/httpx"
	"qrmenu/order-svc/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) respondCart(w http.ResponseWriter, view *domain.CartView, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.Carts.Get(r.Context(), mux.Vars(r)["sessionId"])
	h.respondCart(w, view, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.Carts.Clear(r.Context(), mux.Vars(r)["sessionId"])
	h.respondCart(w, view, err)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var in domain.AddToCartInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	view, err := h.Carts.AddItem(r.Context(), mux.Vars(r)["sessionId"], in)
	h.respondCart(w, view, err)
}

func (h *Handler) increaseLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.Carts.Increase(r.Context(), vars["sessionId"], vars["lineId"])
	h.respondCart(w, view, err)
}

func (h *Handler) decreaseLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.Carts.Decrease(r.Context(), vars["sessionId"], vars["lineId"])
	h.respondCart(w, view, err)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.Carts.Remove(r.Context(), vars["sessionId"], vars["lineId"])
	h.respondCart(w, view, err)
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var customer cart.Customer
	if err := httpx.Decode(r, &customer); err != nil {
		httpx.Error(w, err)
		return
	}
	view, err := h.Carts.SetCustomer(r.Context(), mux.Vars(r)["sessionId"], customer)
	h.respondCart(w, view, err)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.Carts.Checkout(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   o.Summary(),
	})
}
