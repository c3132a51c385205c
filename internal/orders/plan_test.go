package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotalCents(t *testing.T) {
	items := []OrderItem{
		{PriceCents: 1500, Quantity: 2},
		{PriceCents: 700, Quantity: 3},
	}
	assert.Equal(t, 5100, subtotalCents(items))
	assert.Equal(t, 0, subtotalCents(nil))
}

func TestClampTotal(t *testing.T) {
	assert.Equal(t, 800, clampTotal(1000, 200))
	assert.Equal(t, 0, clampTotal(1000, 1000))
	assert.Equal(t, 0, clampTotal(1000, 1500))
	assert.Equal(t, 0, clampTotal(0, 0))
}

func TestReservedQty(t *testing.T) {
	items := []OrderItem{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 3},
	}
	m := reservedQty(items)
	assert.Equal(t, 5, m["a"])
	assert.Equal(t, 1, m["b"])
}

func TestRequestedQty_AggregatesDuplicates(t *testing.T) {
	items := []ItemInput{
		{ProductID: "a", Quantity: 5},
		{ProductID: "a", Quantity: 5},
		{ProductID: "b", Quantity: 1},
	}
	m := requestedQty(items)
	assert.Equal(t, 10, m["a"])
	assert.Equal(t, 1, m["b"])
}

func TestItemDeltas(t *testing.T) {
	old := []OrderItem{
		{ProductID: "a", Quantity: 3},
		{ProductID: "b", Quantity: 2},
		{ProductID: "c", Quantity: 1},
	}
	next := []ItemInput{
		{ProductID: "a", Quantity: 5}, // naik 2
		{ProductID: "b", Quantity: 2}, // tetap
		{ProductID: "d", Quantity: 4}, // baru
	}

	deltas := itemDeltas(old, next)

	assert.Equal(t, 2, deltas["a"])
	assert.NotContains(t, deltas, "b")
	assert.Equal(t, -1, deltas["c"]) // hilang -> release penuh
	assert.Equal(t, 4, deltas["d"])
}

func TestItemDeltas_DuplicateLinesAggregate(t *testing.T) {
	old := []OrderItem{{ProductID: "a", Quantity: 1}}
	next := []ItemInput{
		{ProductID: "a", Quantity: 2},
		{ProductID: "a", Quantity: 3},
	}
	deltas := itemDeltas(old, next)
	assert.Equal(t, 4, deltas["a"])
}
