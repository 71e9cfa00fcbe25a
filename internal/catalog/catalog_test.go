package catalog

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/storefront/internal/domain"
)

func product(id int64, name string, price int64) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func TestFilterByPrice_InclusiveBounds(t *testing.T) {
	products := []domain.Product{
		product(1, "a", 10),
		product(2, "b", 50),
		product(3, "c", 100),
		product(4, "d", 101),
	}

	filtered := FilterByPrice(products, decimal.NewFromInt(10), decimal.NewFromInt(100))

	require.Len(t, filtered, 3)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[2].ID)
}

func TestFilterByPrice_RandomInputsStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := make([]domain.Product, 200)
	for i := range products {
		products[i] = product(int64(i), fmt.Sprintf("p%d", i), int64(rng.Intn(1000)))
	}

	min := decimal.NewFromInt(250)
	max := decimal.NewFromInt(750)
	filtered := FilterByPrice(products, min, max)

	for _, p := range filtered {
		assert.True(t, p.Price.GreaterThanOrEqual(min), "price %s below min", p.Price)
		assert.True(t, p.Price.LessThanOrEqual(max), "price %s above max", p.Price)
	}
}

func TestFilterByPrice_DoesNotMutateSource(t *testing.T) {
	products := []domain.Product{product(2, "b", 50), product(1, "a", 10)}

	_ = FilterByPrice(products, decimal.NewFromInt(20), decimal.NewFromInt(60))
	_ = SortBy(products, SortNameAsc)

	assert.Equal(t, int64(2), products[0].ID)
	assert.Equal(t, int64(1), products[1].ID)
}

func TestSortBy_NameAsc(t *testing.T) {
	products := []domain.Product{product(1, "B", 1), product(2, "A", 2)}

	sorted := SortBy(products, SortNameAsc)

	require.Len(t, sorted, 2)
	assert.Equal(t, "A", sorted[0].Name)
	assert.Equal(t, "B", sorted[1].Name)
}

func TestSortBy_PriceKeys(t *testing.T) {
	products := []domain.Product{product(1, "a", 30), product(2, "b", 10), product(3, "c", 20)}

	asc := SortBy(products, SortPriceAsc)
	assert.Equal(t, []int64{2, 3, 1}, ids(asc))

	desc := SortBy(products, SortPriceDesc)
	assert.Equal(t, []int64{1, 3, 2}, ids(desc))
}

func TestSortBy_RatingAndDiscountDesc(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Rating: 3.5, DiscountPct: 10},
		{ID: 2, Rating: 4.8, DiscountPct: 5},
		{ID: 3, Rating: 4.1, DiscountPct: 25},
	}

	assert.Equal(t, []int64{2, 3, 1}, ids(SortBy(products, SortRatingDesc)))
	assert.Equal(t, []int64{3, 1, 2}, ids(SortBy(products, SortDiscountDesc)))
}

func TestSortBy_UnknownKeyKeepsOrder(t *testing.T) {
	products := []domain.Product{product(2, "b", 50), product(1, "a", 10)}

	sorted := SortBy(products, SortKey("bogus"))
	assert.Equal(t, []int64{2, 1}, ids(sorted))
}

func TestPaginate(t *testing.T) {
	products := make([]domain.Product, 10)
	for i := range products {
		products[i] = product(int64(i+1), fmt.Sprintf("p%d", i+1), 1)
	}

	page1 := Paginate(products, 1, 4)
	require.Len(t, page1, 4)
	assert.Equal(t, int64(1), page1[0].ID)

	page3 := Paginate(products, 3, 4)
	require.Len(t, page3, 2)
	assert.Equal(t, int64(9), page3[0].ID)
}

func TestPaginate_OutOfRangePageIsEmpty(t *testing.T) {
	products := make([]domain.Product, 10)
	for i := range products {
		products[i] = product(int64(i+1), "p", 1)
	}

	assert.Empty(t, Paginate(products, 3, 15))
	assert.Empty(t, Paginate(products, 0, 5))
	assert.Empty(t, Paginate(nil, 1, 5))
}

func TestPaginate_HugePageIsEmptyNotPanic(t *testing.T) {
	products := make([]domain.Product, 10)
	for i := range products {
		products[i] = product(int64(i+1), "p", 1)
	}

	// (page-1)*size would wrap negative here; the result must still be
	// an empty page, never a panic.
	assert.Empty(t, Paginate(products, math.MaxInt-1, 12))
	assert.Empty(t, Paginate(products, math.MaxInt, math.MaxInt))
	assert.Len(t, Paginate(products, 1, math.MaxInt), 10)
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
