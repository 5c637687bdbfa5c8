package menu

import (
	"testing"
	"time"

	"qrmenu/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }
func num(v float64) *float64 { return &v }
func pos(v int) *int { return &v }
func flag(v bool) *bool { return &v }

func itemNames(c *Category) []string {
	names := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		names = append(names, it.Name)
	}
	return names
}

func TestAppendCategory_PositionIsPriorCount(t *testing.T) {
	m := New(1, time.Now())

	first := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Starters")}))
	assert.Equal(t, 0, first.Position)
	assert.True(t, first.IsAvailable)
	assert.NotEmpty(t, first.ID)

	second := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Mains")}))
	assert.Equal(t, 1, second.Position)
}

func TestRemoveItem_RenumbersContiguously(t *testing.T) {
	m := New(1, time.Now())
	c := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Pizza")}))
	a := c.AppendItem(NewItem(ItemPatch{Name: str("Margherita"), Price: num(9)})).ID
	b := c.AppendItem(NewItem(ItemPatch{Name: str("Diavola"), Price: num(11)})).ID
	c.AppendItem(NewItem(ItemPatch{Name: str("Quattro"), Price: num(12)}))

	require.NoError(t, c.RemoveItem(a))
	assert.Equal(t, []string{"Diavola", "Quattro"}, itemNames(c))
	assert.Equal(t, 0, c.Items[0].Position)
	assert.Equal(t, 1, c.Items[1].Position)

	err := c.RemoveItem(a)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = c.Item(b)
	assert.NoError(t, err)
}

func TestMoveItem_ClampsAndRenumbers(t *testing.T) {
	m := New(1, time.Now())
	c := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Drinks")}))
	water := c.AppendItem(NewItem(ItemPatch{Name: str("Water"), Price: num(1)})).ID
	c.AppendItem(NewItem(ItemPatch{Name: str("Cola"), Price: num(2)}))
	tea := c.AppendItem(NewItem(ItemPatch{Name: str("Tea"), Price: num(2)})).ID

	require.NoError(t, c.MoveItem(tea, 0))
	assert.Equal(t, []string{"Tea", "Water", "Cola"}, itemNames(c))

	require.NoError(t, c.MoveItem(water, 99))
	assert.Equal(t, []string{"Tea", "Cola", "Water"}, itemNames(c))
	for i, it := range c.Items {
		assert.Equal(t, i, it.Position)
	}
}

func TestNormalize_StableOnTies(t *testing.T) {
	m := &Menu{Categories: []Category{
		{ID: "b", Name: "B", Position: 3},
		{ID: "a", Name: "A", Position: 1},
		{ID: "c", Name: "C", Position: 3},
	}}
	m.Normalize()

	require.Len(t, m.Categories, 3)
	assert.Equal(t, "a", m.Categories[0].ID)
	assert.Equal(t, "b", m.Categories[1].ID)
	assert.Equal(t, "c", m.Categories[2].ID)
	assert.Equal(t, 2, m.Categories[2].Position)
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{name: "valid", item: Item{Name: "Soup", Price: 5}},
		{name: "valid discount", item: Item{Name: "Soup", Price: 5, DiscountedPrice: num(4)}},
		{name: "missing name", item: Item{Price: 5}, wantErr: true},
		{name: "negative price", item: Item{Name: "Soup", Price: -5}, wantErr: true},
		{name: "discount not lower", item: Item{Name: "Soup", Price: 5, DiscountedPrice: num(5)}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.item.Validate()
			if testCase.wantErr {
				assert.True(t, apperr.Is(err, apperr.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemPatch_ApplyDoesNotTouchOtherFields(t *testing.T) {
	m := New(1, time.Now())
	c := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Desserts")}))
	id := c.AppendItem(NewItem(ItemPatch{
		Name: str("Tiramisu"), Price: num(7), DiscountedPrice: num(6), Allergens: []string{"egg"},
	})).ID

	updated, err := ItemPatch{IsPopular: flag(true)}.Apply(c, id)
	require.NoError(t, err)
	assert.True(t, updated.IsPopular)
	assert.Equal(t, "Tiramisu", updated.Name)
	assert.Equal(t, 6.0, updated.EffectivePrice())
	assert.Equal(t, []string{"egg"}, updated.Allergens)

	updated, err = ItemPatch{ClearDiscount: true}.Apply(c, id)
	require.NoError(t, err)
	assert.Nil(t, updated.DiscountedPrice)

	_, err = ItemPatch{Price: num(-1)}.Apply(c, id)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCategoryPatch_ApplyMovesCategory(t *testing.T) {
	m := New(1, time.Now())
	m.AppendCategory(NewCategory(CategoryPatch{Name: str("Starters")}))
	mainsID := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Mains")})).ID

	updated, err := CategoryPatch{Position: pos(0), IsAvailable: flag(false)}.Apply(m, mainsID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Position)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Starters", m.Categories[1].Name)
}

func TestPublic_DropsUnavailableCategories(t *testing.T) {
	m := New(1, time.Now())
	m.AppendCategory(NewCategory(CategoryPatch{Name: str("Hidden"), IsAvailable: flag(false)}))
	visible := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Visible")}))
	visible.AppendItem(NewItem(ItemPatch{Name: str("Bread"), Price: num(2)}))

	public := m.Public()
	require.Len(t, public.Categories, 1)
	assert.Equal(t, "Visible", public.Categories[0].Name)
	assert.Len(t, m.Categories, 2)

	it, c, ok := m.FindItem(visible.Items[0].ID)
	assert.True(t, ok)
	assert.Equal(t, "Bread", it.Name)
	assert.Equal(t, "Visible", c.Name)
}

func TestClone_IsDeep(t *testing.T) {
	m := New(1, time.Now())
	c := m.AppendCategory(NewCategory(CategoryPatch{Name: str("Soups")}))
	c.AppendItem(NewItem(ItemPatch{Name: str("Borscht"), Price: num(6)}))

	cp := m.Clone()
	cp.Categories[0].Items[0].Name = "Changed"
	assert.Equal(t, "Borscht", m.Categories[0].Items[0].Name)
}
