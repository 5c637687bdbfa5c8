package service

import (
	"time"

	"qrmenu/internal/menu"
	"qrmenu/menu-svc/internal/domain"
)

func demoPrice(v float64) *float64 { return &v }

// DemoPublicMenu is served in sandbox mode when a restaurant has no data yet.
func DemoPublicMenu(restaurantID int, now time.Time) *domain.PublicMenu {
	m := menu.New(restaurantID, now)
	starters := m.AppendCategory(menu.Category{Name: "Starters", Description: "Small plates to share", IsAvailable: true})
	starters.AppendItem(menu.Item{Name: "Bruschetta", Description: "Tomato, basil, garlic", Price: 6.5, IsAvailable: true, IsVegetarian: true, IsPopular: true})
	starters.AppendItem(menu.Item{Name: "Soup of the Day", Price: 5, IsAvailable: true, Allergens: []string{"celery"}})

	mains := m.AppendCategory(menu.Category{Name: "Mains", IsAvailable: true})
	mains.AppendItem(menu.Item{Name: "Margherita Pizza", Price: 11, DiscountedPrice: demoPrice(9.5), IsAvailable: true, IsVegetarian: true, Allergens: []string{"gluten", "milk"}})
	mains.AppendItem(menu.Item{Name: "Grilled Salmon", Price: 18, IsAvailable: true, IsGlutenFree: true, Allergens: []string{"fish"}})

	drinks := m.AppendCategory(menu.Category{Name: "Drinks", IsAvailable: true})
	drinks.AppendItem(menu.Item{Name: "Lemonade", Price: 3, IsAvailable: true, IsVegan: true})

	m.Normalize()
	return &domain.PublicMenu{
		Restaurant: &domain.PublicRestaurant{
			ID:          restaurantID,
			Name:        "Demo Bistro",
			Description: "Sample restaurant shown in sandbox mode",
		},
		Menu: m,
		Demo: true,
	}
}
