package httpapi

import (
	"net/http"
	"strconv"

	"qrmenu/internal/apperr"
	"qrmenu/internal/auth"
	"qrmenu/internal/httpx"
	"qrmenu/internal/menu"
	"qrmenu/menu-svc/internal/domain"
)

type categoryRequest struct {
	RestaurantID int                `json:"restaurantId"`
	CategoryID   string             `json:"categoryId"`
	Category     menu.CategoryPatch `json:"category"`
	Updates      menu.CategoryPatch `json:"updates"`
}

type itemRequest struct {
	RestaurantID int            `json:"restaurantId"`
	CategoryID   string         `json:"categoryId"`
	ItemID       string         `json:"itemId"`
	Item         menu.ItemPatch `json:"item"`
	Updates      menu.ItemPatch `json:"updates"`
}

type batchRequest struct {
	RestaurantID int                 `json:"restaurantId"`
	CategoryID   string              `json:"categoryId"`
	Items        []menu.ItemPatch    `json:"items"`
	Positions    []domain.Reposition `json:"positions"`
}

// scope resolves the restaurant a staff request acts on: the explicit id when
// given, otherwise the caller's own restaurant.
func scope(r *http.Request, explicit int) (int, error) {
	if explicit == 0 {
		return auth.RestaurantID(r.Context())
	}
	if err := auth.Authorize(r.Context(), explicit); err != nil {
		return 0, err
	}
	return explicit, nil
}

func queryScope(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("restaurantId")
	if raw == "" {
		return scope(r, 0)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid restaurantId %q", raw)
	}
	return scope(r, id)
}

func required(name, v string) error {
	if v == "" {
		return apperr.Validation("%s is required", name)
	}
	return nil
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	rid, err := scope(r, req.RestaurantID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	c, err := h.Menus.AddCategory(r.Context(), rid, req.Category)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	rid, err := scope(r, req.RestaurantID)
	if err == nil {
		err = required("categoryId", req.CategoryID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	c, err := h.Menus.UpdateCategory(r.Context(), rid, req.CategoryID, req.Updates)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("categoryId")
	rid, err := queryScope(r)
	if err == nil {
		err = required("categoryId", categoryID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.Menus.DeleteCategory(r.Context(), rid, categoryID); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	rid, err := scope(r, req.RestaurantID)
	if err == nil {
		err = required("categoryId", req.CategoryID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	it, err := h.Menus.AddItem(r.Context(), rid, req.CategoryID, req.Item)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, it)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	rid, err := scope(r, req.RestaurantID)
	if err == nil {
		err = required("categoryId", req.CategoryID)
	}
	if err == nil {
		err = required("itemId", req.ItemID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	it, err := h.Menus.UpdateItem(r.Context(), rid, req.CategoryID, req.ItemID, req.Updates)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, it)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rid, err := queryScope(r)
	if err == nil {
		err = required("categoryId", q.Get("categoryId"))
	}
	if err == nil {
		err = required("itemId", q.Get("itemId"))
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.Menus.DeleteItem(r.Context(), rid, q.Get("categoryId"), q.Get("itemId")); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func (h *Handler) addItems(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	rid, err := scope(r, req.RestaurantID)
	if err == nil {
		err = required("categoryId", req.CategoryID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	items, err := h.Menus.AddItems(r.Context(), rid, req.CategoryID, req.Items)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{"items": items})
}

func (h *Handler) repositionItems(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	rid, err := scope(r, req.RestaurantID)
	if err == nil {
		err = required("categoryId", req.CategoryID)
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	c, err := h.Menus.RepositionItems(r.Context(), rid, req.CategoryID, req.Positions)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	rid, err := ownRestaurant(r, "restaurantId")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	m, err := h.Menus.GetMenu(r.Context(), rid)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) getPublicMenu(w http.ResponseWriter, r *http.Request) {
	rid, err := httpx.PathInt(r, "restaurantId")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	pm, err := h.Menus.PublicMenu(r.Context(), rid)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pm)
}
