package menu

// CategoryPatch carries optional fields; nil means "leave unchanged".
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
	IsAvailable *bool   `json:"isAvailable"`
}

// ItemPatch carries optional fields; nil means "leave unchanged". ClearDiscount
// removes an existing discounted price.
type ItemPatch struct {
	Name            *string                  `json:"name"`
	Description     *string                  `json:"description"`
	Price           *float64                 `json:"price"`
	DiscountedPrice *float64                 `json:"discountedPrice"`
	ClearDiscount   bool                     `json:"clearDiscount"`
	Image           *string                  `json:"image"`
	IsAvailable     *bool                    `json:"isAvailable"`
	IsPopular       *bool                    `json:"isPopular"`
	IsVegetarian    *bool                    `json:"isVegetarian"`
	IsVegan         *bool                    `json:"isVegan"`
	IsGlutenFree    *bool                    `json:"isGlutenFree"`
	Allergens       []string                 `json:"allergens"`
	NutritionalInfo map[string]interface{}   `json:"nutritionalInfo"`
	Position        *int                     `json:"position"`
	Variants        []map[string]interface{} `json:"variants"`
	Options         []map[string]interface{} `json:"options"`
}

// NewCategory builds a category from a patch; availability defaults to true.
func NewCategory(p CategoryPatch) Category {
	c := Category{IsAvailable: true, Items: []Item{}}
	p.applyFields(&c)
	return c
}

func (p CategoryPatch) applyFields(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.IsAvailable != nil {
		c.IsAvailable = *p.IsAvailable
	}
}

// Apply updates the category's fields and, when requested, its position within m.
func (p CategoryPatch) Apply(m *Menu, categoryID string) (*Category, error) {
	c, err := m.Category(categoryID)
	if err != nil {
		return nil, err
	}
	p.applyFields(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if p.Position != nil {
		if err := m.MoveCategory(categoryID, *p.Position); err != nil {
			return nil, err
		}
	}
	return m.Category(categoryID)
}

// NewItem builds an item from a patch; availability defaults to true.
func NewItem(p ItemPatch) Item {
	it := Item{IsAvailable: true, Allergens: []string{}}
	p.applyFields(&it)
	return it
}

func (p ItemPatch) applyFields(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.ClearDiscount {
		it.DiscountedPrice = nil
	}
	if p.DiscountedPrice != nil {
		v := *p.DiscountedPrice
		it.DiscountedPrice = &v
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.IsAvailable != nil {
		it.IsAvailable = *p.IsAvailable
	}
	if p.IsPopular != nil {
		it.IsPopular = *p.IsPopular
	}
	if p.IsVegetarian != nil {
		it.IsVegetarian = *p.IsVegetarian
	}
	if p.IsVegan != nil {
		it.IsVegan = *p.IsVegan
	}
	if p.IsGlutenFree != nil {
		it.IsGlutenFree = *p.IsGlutenFree
	}
	if p.Allergens != nil {
		it.Allergens = append([]string{}, p.Allergens...)
	}
	if p.NutritionalInfo != nil {
		it.NutritionalInfo = p.NutritionalInfo
	}
	if p.Variants != nil {
		it.Variants = p.Variants
	}
	if p.Options != nil {
		it.Options = p.Options
	}
}

// Apply updates the item's fields and, when requested, its position within c.
func (p ItemPatch) Apply(c *Category, itemID string) (*Item, error) {
	it, err := c.Item(itemID)
	if err != nil {
		return nil, err
	}
	p.applyFields(it)
	if err := it.Validate(); err != nil {
		return nil, err
	}
	if p.Position != nil {
		if err := c.MoveItem(itemID, *p.Position); err != nil {
			return nil, err
		}
	}
	return c.Item(itemID)
}
