package httpapi

import (
	"net/http"

	"qrmenu/internal/auth"
	"qrmenu/internal/httpx"
	"qrmenu/order-svc/internal/domain"
	"qrmenu/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Orders service.OrderServiceInterface
	Carts  service.CartServiceInterface
	Tokens *auth.TokenManager
}

func NewHandler(orders service.OrderServiceInterface, carts service.CartServiceInterface, tokens *auth.TokenManager) *Handler {
	return &Handler{Orders: orders, Carts: carts, Tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	staff := h.Tokens.RequireFunc

	r.HandleFunc("/health", httpx.Health("order-svc")).Methods("GET")

	r.HandleFunc("/api/orders/create", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders/track/{orderNumber}", h.trackOrder).Methods("GET")
	r.HandleFunc("/api/orders/restaurant/{restaurantId:[0-9]+}", staff(h.listOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}", staff(h.getOrder)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}", staff(h.updateOrder)).Methods("PUT")
	r.HandleFunc("/api/orders/{id:[0-9]+}", staff(h.cancelOrder)).Methods("DELETE")

	r.HandleFunc("/api/carts/{sessionId}", h.getCart).Methods("GET")
	r.HandleFunc("/api/carts/{sessionId}", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/carts/{sessionId}/items", h.addToCart).Methods("POST")
	r.HandleFunc("/api/carts/{sessionId}/lines/{lineId}/increase", h.increaseLine).Methods("POST")
	r.HandleFunc("/api/carts/{sessionId}/lines/{lineId}/decrease", h.decreaseLine).Methods("POST")
	r.HandleFunc("/api/carts/{sessionId}/lines/{lineId}", h.removeLine).Methods("DELETE")
	r.HandleFunc("/api/carts/{sessionId}/customer", h.setCustomer).Methods("PUT")
	r.HandleFunc("/api/carts/{sessionId}/checkout", h.checkout).Methods("POST")
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.Orders.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   o.Summary(),
	})
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	t, err := h.Orders.Track(r.Context(), mux.Vars(r)["orderNumber"])
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := httpx.PathInt(r, "restaurantId")
	if err == nil {
		err = auth.Authorize(r.Context(), restaurantID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}

	q := domain.ListQuery{
		Status:    domain.Status(r.URL.Query().Get("status")),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}
	if q.Page, err = httpx.QueryInt(r, "page", 1); err != nil {
		httpx.Error(w, err)
		return
	}
	if q.Limit, err = httpx.QueryInt(r, "limit", 0); err != nil {
		httpx.Error(w, err)
		return
	}

	list, err := h.Orders.List(r.Context(), restaurantID, q)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// staffOrder resolves {id} and the caller's restaurant.
func staffOrder(r *http.Request) (restaurantID, orderID int, err error) {
	orderID, err = httpx.PathInt(r, "id")
	if err != nil {
		return 0, 0, err
	}
	restaurantID, err = auth.RestaurantID(r.Context())
	return restaurantID, orderID, err
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, err := staffOrder(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.Orders.Get(r.Context(), restaurantID, orderID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, err := staffOrder(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var in domain.UpdateInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.Orders.Update(r.Context(), restaurantID, orderID, in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order updated successfully",
		"order":   o,
	})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	restaurantID, orderID, err := staffOrder(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.Orders.Cancel(r.Context(), restaurantID, orderID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order cancelled successfully",
		"order":   o,
	})
}
