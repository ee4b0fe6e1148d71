package repositories_test

import (
	"testing"

	"market/internal/models"
	"market/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func storedPlacedOrder(t *testing.T, repo *repositories.MockOrderRepository) *models.Order {
	t.Helper()
	order, err := models.NewOrder("member-1", models.Address{City: "Seoul", Street: "1 Teheran-ro", Zip: "06234"}, []models.OrderLine{{
		ItemID: "item-1", ItemName: "Keyboard", UnitPrice: decimal.NewFromInt(10000), Quantity: 1,
	}})
	assert.NoError(t, err)
	assert.NoError(t, repo.Create(order))
	return order
}

func noopRelease(string, int) error { return nil }

func TestMockOrderRepository_SaveRejectsStaleFulfillment(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := storedPlacedOrder(t, repo)

	// Two requests load the same PLACED order.
	cancelling, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	confirming, err := repo.GetByID(order.ID)
	assert.NoError(t, err)

	// The cancellation commits first.
	assert.NoError(t, cancelling.Cancel(noopRelease))
	assert.NoError(t, repo.Save(cancelling))

	// The other snapshot passed its in-memory guard before the cancel
	// landed; its write must still lose.
	assert.NoError(t, confirming.Delivery.Confirm())
	err = repo.Save(confirming)
	var stateErr *models.StateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.DeliveryCanceled, stateErr.Status)
	assert.ErrorIs(t, err, models.ErrModifiedConcurrently)

	// The cancellation survives.
	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCanceled, stored.Status)
	assert.Equal(t, models.DeliveryCanceled, stored.Delivery.Status)
}

func TestMockOrderRepository_SaveRejectsStaleCancel(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := storedPlacedOrder(t, repo)

	confirming, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	cancelling, err := repo.GetByID(order.ID)
	assert.NoError(t, err)

	// This time the fulfillment transition commits first.
	assert.NoError(t, confirming.Delivery.Confirm())
	assert.NoError(t, repo.Save(confirming))

	assert.NoError(t, cancelling.Cancel(noopRelease))
	err = repo.Save(cancelling)
	var stateErr *models.StateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.DeliveryConfirmed, stateErr.Status)

	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderOrdered, stored.Status)
	assert.Equal(t, models.DeliveryConfirmed, stored.Delivery.Status)
}

func TestMockOrderRepository_SaveAfterReload(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	order := storedPlacedOrder(t, repo)

	// Sequential saves through fresh loads keep passing the guard.
	loaded, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.NoError(t, loaded.Delivery.Confirm())
	assert.NoError(t, repo.Save(loaded))

	loaded, err = repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.NoError(t, loaded.Delivery.Ship())
	assert.NoError(t, repo.Save(loaded))

	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.DeliveryShipped, stored.Delivery.Status)
}
