package repositories_test

import (
	"sync"
	"testing"

	"market/internal/models"
	"market/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMockItemRepository_ReserveStock(t *testing.T) {
	repo := repositories.NewMockItemRepository()
	err := repo.Create(&models.Item{ID: "item-1", Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: 10})
	assert.NoError(t, err)

	// Reservation succeeds and decrements iff enough stock is available.
	assert.NoError(t, repo.ReserveStock("item-1", 3))
	item, _ := repo.GetByID("item-1")
	assert.Equal(t, 7, item.Stock)

	// An oversized reservation fails without side effect.
	assert.ErrorIs(t, repo.ReserveStock("item-1", 8), models.ErrOutOfStock)
	item, _ = repo.GetByID("item-1")
	assert.Equal(t, 7, item.Stock)

	// Release restores the reserved quantity.
	assert.NoError(t, repo.ReleaseStock("item-1", 3))
	item, _ = repo.GetByID("item-1")
	assert.Equal(t, 10, item.Stock)

	assert.ErrorIs(t, repo.ReserveStock("missing", 1), models.ErrItemNotFound)
	assert.ErrorIs(t, repo.ReleaseStock("missing", 1), models.ErrItemNotFound)
}

func TestMockItemRepository_ReserveStockConcurrent(t *testing.T) {
	const stock = 50
	const workers = 100

	repo := repositories.NewMockItemRepository()
	err := repo.Create(&models.Item{ID: "item-1", Name: "Keyboard", Price: decimal.NewFromInt(100), Stock: stock})
	assert.NoError(t, err)

	// 100 buyers race for 50 units, one each. The conditional decrement
	// must hand out exactly 50 reservations and never go negative.
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.ReserveStock("item-1", 1)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, models.ErrOutOfStock)
		}
	}
	assert.Equal(t, stock, successes)

	item, err := repo.GetByID("item-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, item.Stock)
}
