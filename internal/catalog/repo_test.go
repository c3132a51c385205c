package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestApplyProductPatch_NameOnlyKeepsStock(t *testing.T) {
	// stok dibaca di bawah lock; patch tanpa field stock tidak boleh
	// menyentuhnya sama sekali
	p := Product{ID: "p1", Name: "Kopi", PriceCents: 1500, Stock: 5}

	require.NoError(t, applyProductPatch(&p, UpdateProductInput{Name: strPtr("Kopi Gayo")}))

	assert.Equal(t, "Kopi Gayo", p.Name)
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, 1500, p.PriceCents)
}

func TestApplyProductPatch_AllFields(t *testing.T) {
	p := Product{ID: "p1", Name: "Kopi", PriceCents: 1500, Stock: 5}

	require.NoError(t, applyProductPatch(&p, UpdateProductInput{
		Name:       strPtr("Teh"),
		PriceCents: intPtr(800),
		Stock:      intPtr(12),
		CategoryID: strPtr("c1"),
	}))

	assert.Equal(t, "Teh", p.Name)
	assert.Equal(t, 800, p.PriceCents)
	assert.Equal(t, 12, p.Stock)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "c1", *p.CategoryID)
}

func TestApplyProductPatch_ClearCategory(t *testing.T) {
	cid := "c1"
	p := Product{ID: "p1", Name: "Kopi", CategoryID: &cid, CategoryName: "Minuman"}

	require.NoError(t, applyProductPatch(&p, UpdateProductInput{CategoryID: strPtr("")}))

	assert.Nil(t, p.CategoryID)
	assert.Empty(t, p.CategoryName)
}

func TestApplyProductPatch_Validation(t *testing.T) {
	p := Product{ID: "p1", Name: "Kopi", PriceCents: 1500, Stock: 5}

	assert.ErrorIs(t, applyProductPatch(&p, UpdateProductInput{Name: strPtr("")}), ErrInvalidName)
	assert.ErrorIs(t, applyProductPatch(&p, UpdateProductInput{PriceCents: intPtr(-1)}), ErrInvalidPrice)
	assert.ErrorIs(t, applyProductPatch(&p, UpdateProductInput{Stock: intPtr(-1)}), ErrInvalidStock)

	// gagal validasi tidak setengah jadi mengubah state
	assert.Equal(t, "Kopi", p.Name)
	assert.Equal(t, 5, p.Stock)
}
