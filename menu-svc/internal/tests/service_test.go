package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/menu"
	"qrmenu/menu-svc/internal/domain"
	"qrmenu/menu-svc/internal/mocks"
	"qrmenu/menu-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string   { return &s }
func numPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool      { return &v }

func fixtureMenu() *menu.Menu {
	m := menu.New(1, time.Now())
	m.Version = 3
	c := m.AppendCategory(menu.NewCategory(menu.CategoryPatch{Name: strPtr("Pizza")}))
	c.AppendItem(menu.NewItem(menu.ItemPatch{Name: strPtr("Margherita"), Price: numPtr(9)}))
	c.AppendItem(menu.NewItem(menu.ItemPatch{Name: strPtr("Diavola"), Price: numPtr(11)}))
	return m
}

// freshCopies makes GetMenu return an independent copy on every call.
func freshCopies(m *menu.Menu) func(context.Context, int) (*menu.Menu, error) {
	return func(context.Context, int) (*menu.Menu, error) { return m.Clone(), nil }
}

type menuDeps struct {
	menus *mocks.MenuRepository
	rests *mocks.RestaurantRepository
	cache *mocks.MenuCache
}

func newMenuService(t *testing.T, sandbox bool) (*service.MenuService, menuDeps) {
	deps := menuDeps{
		menus: mocks.NewMenuRepository(t),
		rests: mocks.NewRestaurantRepository(t),
		cache: mocks.NewMenuCache(t),
	}
	return service.NewMenuService(deps.menus, deps.rests, deps.cache, zap.NewNop(), sandbox), deps
}

func TestMenuService_AddCategory_CreatesMenuLazily(t *testing.T) {
	svc, deps := newMenuService(t, false)
	ctx := context.Background()

	deps.menus.On("GetMenu", mock.Anything, 7).Return(nil, apperr.NotFound("menu for restaurant 7 not found")).Once()
	deps.rests.On("GetRestaurant", mock.Anything, 7).Return(&domain.Restaurant{ID: 7}, nil).Once()
	deps.menus.On("CreateMenu", mock.Anything, mock.MatchedBy(func(m *menu.Menu) bool {
		return m.RestaurantID == 7 && len(m.Categories) == 1
	})).Return(nil).Once()
	deps.cache.On("InvalidatePublicMenu", mock.Anything, 7).Return(nil).Once()

	c, err := svc.AddCategory(ctx, 7, menu.CategoryPatch{Name: strPtr("Starters")})
	require.NoError(t, err)
	assert.Equal(t, "Starters", c.Name)
	assert.Equal(t, 0, c.Position)
	assert.True(t, c.IsAvailable)
}

func TestMenuService_AddCategory_PositionIsPriorCount(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(nil).Once()
	deps.cache.On("InvalidatePublicMenu", mock.Anything, 1).Return(nil).Once()

	c, err := svc.AddCategory(context.Background(), 1, menu.CategoryPatch{Name: strPtr("Drinks")})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Position)
}

func TestMenuService_AddCategory_UnknownRestaurant(t *testing.T) {
	svc, deps := newMenuService(t, false)

	deps.menus.On("GetMenu", mock.Anything, 9).Return(nil, apperr.NotFound("menu for restaurant 9 not found")).Once()
	deps.rests.On("GetRestaurant", mock.Anything, 9).Return(nil, apperr.NotFound("restaurant 9 not found")).Once()

	_, err := svc.AddCategory(context.Background(), 9, menu.CategoryPatch{Name: strPtr("Starters")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMenuService_AddCategory_Validation(t *testing.T) {
	svc, deps := newMenuService(t, false)
	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(fixtureMenu())).Once()

	_, err := svc.AddCategory(context.Background(), 1, menu.CategoryPatch{Name: strPtr("  ")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestMenuService_RetriesLostRace(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()
	categoryID := current.Categories[0].ID

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Twice()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(domain.ErrVersionConflict).Once()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(nil).Once()
	deps.cache.On("InvalidatePublicMenu", mock.Anything, 1).Return(nil).Once()

	it, err := svc.AddItem(context.Background(), 1, categoryID, menu.ItemPatch{Name: strPtr("Calzone"), Price: numPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, 2, it.Position)
}

func TestMenuService_GivesUpAfterRepeatedConflicts(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Times(3)
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(domain.ErrVersionConflict).Times(3)

	_, err := svc.UpdateCategory(context.Background(), 1, current.Categories[0].ID, menu.CategoryPatch{Name: strPtr("Pies")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestMenuService_FailedSaveDoesNotTouchCache(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).
		Return(apperr.Storage(errors.New("connection reset"), "save menu")).Once()

	err := svc.DeleteCategory(context.Background(), 1, current.Categories[0].ID)
	assert.True(t, apperr.Is(err, apperr.KindStorage))
	deps.cache.AssertNotCalled(t, "InvalidatePublicMenu", mock.Anything, mock.Anything)
}

func TestMenuService_DeleteMissing(t *testing.T) {
	tests := []struct {
		name string
		run  func(svc *service.MenuService, m *menu.Menu) error
	}{
		{
			name: "missing item",
			run: func(svc *service.MenuService, m *menu.Menu) error {
				return svc.DeleteItem(context.Background(), 1, m.Categories[0].ID, "nope")
			},
		},
		{
			name: "missing category",
			run: func(svc *service.MenuService, m *menu.Menu) error {
				return svc.DeleteCategory(context.Background(), 1, "nope")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, deps := newMenuService(t, false)
			current := fixtureMenu()
			deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()

			err := testCase.run(svc, current)
			assert.True(t, apperr.Is(err, apperr.KindNotFound))
			deps.menus.AssertNotCalled(t, "SaveMenu", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMenuService_NonCreatingOpWithoutMenu(t *testing.T) {
	svc, deps := newMenuService(t, false)
	deps.menus.On("GetMenu", mock.Anything, 4).Return(nil, apperr.NotFound("menu for restaurant 4 not found")).Once()

	_, err := svc.AddItem(context.Background(), 4, "cat", menu.ItemPatch{Name: strPtr("Tea"), Price: numPtr(2)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "menu")
}

func TestMenuService_AddItems_ConsecutivePositions(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(nil).Once()
	deps.cache.On("InvalidatePublicMenu", mock.Anything, 1).Return(nil).Once()

	items, err := svc.AddItems(context.Background(), 1, current.Categories[0].ID, []menu.ItemPatch{
		{Name: strPtr("Funghi"), Price: numPtr(10)},
		{Name: strPtr("Marinara"), Price: numPtr(8)},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Funghi", items[0].Name)
	assert.Equal(t, 2, items[0].Position)
	assert.Equal(t, 3, items[1].Position)
}

func TestMenuService_AddItems_RejectsWholeBatch(t *testing.T) {
	svc, _ := newMenuService(t, false)

	_, err := svc.AddItems(context.Background(), 1, "cat", []menu.ItemPatch{
		{Name: strPtr("Funghi"), Price: numPtr(10)},
		{Name: strPtr("Broken"), Price: numPtr(5), DiscountedPrice: numPtr(6)},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestMenuService_RepositionItems(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()
	c := current.Categories[0]
	diavola := c.Items[1].ID

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(nil).Once()
	deps.cache.On("InvalidatePublicMenu", mock.Anything, 1).Return(nil).Once()

	updated, err := svc.RepositionItems(context.Background(), 1, c.ID, []domain.Reposition{{ItemID: diavola, Position: 0}})
	require.NoError(t, err)
	assert.Equal(t, "Diavola", updated.Items[0].Name)
	assert.Equal(t, 0, updated.Items[0].Position)
	assert.Equal(t, 1, updated.Items[1].Position)
}

func TestMenuService_UpdateItem(t *testing.T) {
	svc, deps := newMenuService(t, false)
	current := fixtureMenu()
	c := current.Categories[0]

	deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()
	deps.menus.On("SaveMenu", mock.Anything, mock.Anything, 3).Return(nil).Once()
	deps.cache.On("InvalidatePublicMenu", mock.Anything, 1).Return(nil).Once()

	it, err := svc.UpdateItem(context.Background(), 1, c.ID, c.Items[0].ID, menu.ItemPatch{
		DiscountedPrice: numPtr(8), IsAvailable: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, it.EffectivePrice())
	assert.False(t, it.IsAvailable)
	assert.Equal(t, "Margherita", it.Name)
}

func TestMenuService_PublicMenu(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		svc, deps := newMenuService(t, false)
		cached := &domain.PublicMenu{Restaurant: &domain.PublicRestaurant{ID: 1}, Menu: fixtureMenu()}
		deps.cache.On("GetPublicMenu", mock.Anything, 1).Return(cached, true, nil).Once()

		pm, err := svc.PublicMenu(context.Background(), 1)
		require.NoError(t, err)
		assert.Same(t, cached, pm)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		svc, deps := newMenuService(t, false)
		current := fixtureMenu()
		current.AppendCategory(menu.NewCategory(menu.CategoryPatch{Name: strPtr("Secret"), IsAvailable: boolPtr(false)}))

		deps.cache.On("GetPublicMenu", mock.Anything, 1).Return(nil, false, nil).Once()
		deps.rests.On("GetRestaurant", mock.Anything, 1).Return(&domain.Restaurant{ID: 1, Name: "Luigi's"}, nil).Once()
		deps.menus.On("GetMenu", mock.Anything, 1).Return(freshCopies(current)).Once()
		deps.cache.On("SetPublicMenu", mock.Anything, 1, mock.Anything).Return(nil).Once()

		pm, err := svc.PublicMenu(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Luigi's", pm.Restaurant.Name)
		require.Len(t, pm.Menu.Categories, 1)
		assert.False(t, pm.Demo)
	})

	t.Run("missing restaurant without sandbox", func(t *testing.T) {
		svc, deps := newMenuService(t, false)
		deps.cache.On("GetPublicMenu", mock.Anything, 5).Return(nil, false, nil).Once()
		deps.rests.On("GetRestaurant", mock.Anything, 5).Return(nil, apperr.NotFound("restaurant 5 not found")).Once()

		_, err := svc.PublicMenu(context.Background(), 5)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("missing restaurant in sandbox", func(t *testing.T) {
		svc, deps := newMenuService(t, true)
		deps.cache.On("GetPublicMenu", mock.Anything, 5).Return(nil, false, nil).Once()
		deps.rests.On("GetRestaurant", mock.Anything, 5).Return(nil, apperr.NotFound("restaurant 5 not found")).Once()

		pm, err := svc.PublicMenu(context.Background(), 5)
		require.NoError(t, err)
		assert.True(t, pm.Demo)
		assert.NotEmpty(t, pm.Menu.Categories)
		deps.cache.AssertNotCalled(t, "SetPublicMenu", mock.Anything, mock.Anything, mock.Anything)
	})
}
