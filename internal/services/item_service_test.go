package services_test

import (
	"fmt"
	"testing"

	"market/internal/models"
	"market/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestItemService_GetAllItems(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo)

	expectedItems := []models.Item{
		{ID: "1", Name: "Item A", Price: decimal.NewFromInt(100), Stock: 100},
		{ID: "2", Name: "Item B", Price: decimal.NewFromInt(200), Stock: 50},
	}

	mockRepo.On("GetAll").Return(expectedItems, nil).Once()

	items, err := service.GetAllItems()

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, expectedItems, items)
	mockRepo.AssertExpectations(t)
}

func TestItemService_GetItemByID(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo)

	expectedItem := &models.Item{ID: "1", Name: "Item A", Price: decimal.NewFromInt(100), Stock: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", "1").Return(expectedItem, nil).Once()
	item, err := service.GetItemByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedItem, item)
	mockRepo.AssertExpectations(t)

	// Test item not found
	mockRepo.On("GetByID", "99").Return(nil, models.ErrItemNotFound).Once()
	item, err = service.GetItemByID("99")
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	assert.Nil(t, item)
	mockRepo.AssertExpectations(t)
}

func TestItemService_CreateItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo)

	newItem := &models.Item{Name: "New Item", Price: decimal.NewFromInt(500), Stock: 20}

	// Test successful creation
	mockRepo.On("Create", newItem).Return(nil).Once()
	err := service.CreateItem(newItem)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test rejection of non-positive price
	err = service.CreateItem(&models.Item{Name: "Free Item", Price: decimal.Zero, Stock: 1})
	var vErr *models.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "price", vErr.Field)

	// Test rejection of negative stock
	err = service.CreateItem(&models.Item{Name: "Odd Item", Price: decimal.NewFromInt(100), Stock: -1})
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "stock", vErr.Field)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", newItem).Return(fmt.Errorf("database error")).Once()
	err = service.CreateItem(newItem)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestItemService_UpdateItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo)

	updatedItem := &models.Item{ID: "1", Name: "Item A Updated", Price: decimal.NewFromInt(120), Stock: 95}

	// Test successful update
	mockRepo.On("Update", updatedItem).Return(nil).Once()
	err := service.UpdateItem(updatedItem)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test update failure (item not found in repo)
	missing := &models.Item{ID: "99", Name: "NonExistent", Price: decimal.NewFromInt(1), Stock: 1}
	mockRepo.On("Update", missing).Return(models.ErrItemNotFound).Once()
	err = service.UpdateItem(missing)
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	mockRepo.AssertExpectations(t)
}

func TestItemService_DeleteItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	service := services.NewItemService(mockRepo)

	// Test successful deletion
	mockRepo.On("Delete", "1").Return(nil).Once()
	err := service.DeleteItem("1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test deletion failure (item not found)
	mockRepo.On("Delete", "99").Return(models.ErrItemNotFound).Once()
	err = service.DeleteItem("99")
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	mockRepo.AssertExpectations(t)
}
