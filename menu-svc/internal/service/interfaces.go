package service

import (
	"context"
	"io"

	"qrmenu/internal/menu"
	"qrmenu/menu-svc/internal/domain"
)

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	GetRestaurantByEmail(ctx context.Context, email string) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	UpdateRestaurantLogo(ctx context.Context, id int, logo string) error
	SaveQRCode(ctx context.Context, id int, qr []byte) error
	GetQRCode(ctx context.Context, id int) ([]byte, error)
}

// MenuRepository stores one versioned document per restaurant. GetMenu
// returns a NotFound error when the restaurant has no menu yet; CreateMenu and
// SaveMenu return domain.ErrVersionConflict when another writer got there first.
type MenuRepository interface {
	GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error)
	CreateMenu(ctx context.Context, m *menu.Menu) error
	SaveMenu(ctx context.Context, m *menu.Menu, expectedVersion int) error
}

type MenuCache interface {
	GetPublicMenu(ctx context.Context, restaurantID int) (*domain.PublicMenu, bool, error)
	SetPublicMenu(ctx context.Context, restaurantID int, pm *domain.PublicMenu) error
	InvalidatePublicMenu(ctx context.Context, restaurantID int) error
}

type TokenIssuer interface {
	Issue(restaurantID int, email string) (string, error)
}

type AuthServiceInterface interface {
	Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error)
	Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error)
}

type RestaurantServiceInterface interface {
	Get(ctx context.Context, id int) (*domain.Restaurant, error)
	Update(ctx context.Context, id int, upd domain.RestaurantUpdate) (*domain.Restaurant, error)
	UpdateLogo(ctx context.Context, id int, logo string) error
	QRCode(ctx context.Context, id int) ([]byte, error)
}

type MenuServiceInterface interface {
	AddCategory(ctx context.Context, restaurantID int, p menu.CategoryPatch) (*menu.Category, error)
	UpdateCategory(ctx context.Context, restaurantID int, categoryID string, p menu.CategoryPatch) (*menu.Category, error)
	DeleteCategory(ctx context.Context, restaurantID int, categoryID string) error
	AddItem(ctx context.Context, restaurantID int, categoryID string, p menu.ItemPatch) (*menu.Item, error)
	UpdateItem(ctx context.Context, restaurantID int, categoryID, itemID string, p menu.ItemPatch) (*menu.Item, error)
	DeleteItem(ctx context.Context, restaurantID int, categoryID, itemID string) error
	AddItems(ctx context.Context, restaurantID int, categoryID string, patches []menu.ItemPatch) ([]menu.Item, error)
	RepositionItems(ctx context.Context, restaurantID int, categoryID string, moves []domain.Reposition) (*menu.Category, error)
	GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error)
	PublicMenu(ctx context.Context, restaurantID int) (*domain.PublicMenu, error)
}

type UploaderInterface interface {
	Save(filename string, size int64, src io.Reader) (string, error)
}

var (
	_ AuthServiceInterface       = (*AuthService)(nil)
	_ RestaurantServiceInterface = (*RestaurantService)(nil)
	_ MenuServiceInterface       = (*MenuService)(nil)
	_ UploaderInterface          = (*LocalUploader)(nil)
)
