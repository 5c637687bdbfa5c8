package domain

import (
	"errors"
	"time"

	"qrmenu/internal/menu"
)

// ErrVersionConflict is returned by the menu store when a conditional save
// lost a race against another writer.
var ErrVersionConflict = errors.New("menu version conflict")

type Restaurant struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	Logo         string    `json:"logo"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicRestaurant is the part of a restaurant customers may see.
type PublicRestaurant struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

func (r *Restaurant) Public() *PublicRestaurant {
	return &PublicRestaurant{
		ID:          r.ID,
		Name:        r.Name,
		Phone:       r.Phone,
		Address:     r.Address,
		Description: r.Description,
		Logo:        r.Logo,
	}
}

type RestaurantUpdate struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	Logo        *string `json:"logo"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *Restaurant `json:"user"`
}

// PublicMenu is what a customer sees after scanning the table QR code.
type PublicMenu struct {
	Restaurant *PublicRestaurant `json:"restaurant"`
	Menu       *menu.Menu        `json:"menu"`
	Demo       bool              `json:"demo,omitempty"`
}

type Reposition struct {
	ItemID   string `json:"itemId"`
	Position int    `json:"position"`
}
