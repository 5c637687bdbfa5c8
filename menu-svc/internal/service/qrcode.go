package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(restaurantID int) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the restaurant's public ordering page.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(restaurantID int) string {
	return fmt.Sprintf("%s/menu/%d", strings.TrimRight(g.BaseURL, "/"), restaurantID)
}

func (g DefaultQRGenerator) Generate(restaurantID int) ([]byte, error) {
	return qrcode.Encode(g.Link(restaurantID), qrcode.Medium, 256)
}
