package httpapi

import (
	"net/http"

	"qrmenu/internal/apperr"
	"qrmenu/internal/auth"
	"qrmenu/internal/httpx"
	"qrmenu/menu-svc/internal/domain"
	"qrmenu/menu-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Auth        service.AuthServiceInterface
	Restaurants service.RestaurantServiceInterface
	Menus       service.MenuServiceInterface
	Uploader    service.UploaderInterface
	Tokens      *auth.TokenManager
	UploadDir   string
}

func NewHandler(authSvc service.AuthServiceInterface, restSvc service.RestaurantServiceInterface, menuSvc service.MenuServiceInterface,
	uploader service.UploaderInterface, tokens *auth.TokenManager, uploadDir string) *Handler {
	return &Handler{
		Auth:        authSvc,
		Restaurants: restSvc,
		Menus:       menuSvc,
		Uploader:    uploader,
		Tokens:      tokens,
		UploadDir:   uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	staff := h.Tokens.RequireFunc

	r.HandleFunc("/health", httpx.Health("menu-svc")).Methods("GET")

	r.HandleFunc("/api/auth/signup", h.signup).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")

	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", staff(h.updateRestaurant)).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id}/logo", staff(h.uploadLogo)).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/qrcode", h.getQRCode).Methods("GET")

	r.HandleFunc("/api/menu/category", staff(h.addCategory)).Methods("POST")
	r.HandleFunc("/api/menu/category", staff(h.updateCategory)).Methods("PUT")
	r.HandleFunc("/api/menu/category", staff(h.deleteCategory)).Methods("DELETE")
	r.HandleFunc("/api/menu/item", staff(h.addItem)).Methods("POST")
	r.HandleFunc("/api/menu/item", staff(h.updateItem)).Methods("PUT")
	r.HandleFunc("/api/menu/item", staff(h.deleteItem)).Methods("DELETE")
	r.HandleFunc("/api/menu/batch", staff(h.addItems)).Methods("POST")
	r.HandleFunc("/api/menu/batch", staff(h.repositionItems)).Methods("PUT")
	r.HandleFunc("/api/menu/public/{restaurantId}", h.getPublicMenu).Methods("GET")
	r.HandleFunc("/api/menu/{restaurantId}", staff(h.getMenu)).Methods("GET")

	r.HandleFunc("/api/upload", staff(h.upload)).Methods("POST")
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir))))
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in domain.SignupInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	res, err := h.Auth.Signup(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rest)
}

// ownRestaurant reads {id} and checks the caller acts for it.
func ownRestaurant(r *http.Request, name string) (int, error) {
	id, err := httpx.PathInt(r, name)
	if err != nil {
		return 0, err
	}
	if err := auth.Authorize(r.Context(), id); err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := ownRestaurant(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var upd domain.RestaurantUpdate
	if err := httpx.Decode(r, &upd); err != nil {
		httpx.Error(w, err)
		return
	}
	rest, err := h.Restaurants.Update(r.Context(), id, upd)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rest)
}

func (h *Handler) saveImage(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		return "", apperr.Validation("file too large or malformed multipart form")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", apperr.Validation("error retrieving the file")
	}
	defer file.Close()
	return h.Uploader.Save(header.Filename, header.Size, file)
}

func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := ownRestaurant(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	url, err := h.saveImage(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.Restaurants.UpdateLogo(r.Context(), id, url); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"logo": url})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	url, err := h.saveImage(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{
		"message": "Image uploaded successfully",
		"url":     url,
	})
}

func (h *Handler) getQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt(r, "id")
	if err != nil {
		httpx.Error(w, err)
		return
	}
	qr, err := h.Restaurants.QRCode(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}
