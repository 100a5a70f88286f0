package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/repository"
)

func TestProductService_Lifecycle(t *testing.T) {
	_, products, changeLogs := newServices(t)

	detail, err := products.CreateProduct(CreateProductInput{ProductCode: "P001", ProductName: "Widget"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, detail.Status, "status defaults to ACTIVE")

	_, err = products.UpdateProduct(detail.ProductID, UpdateProductInput{ProductName: "Widget2"}, "alice")
	require.NoError(t, err)

	require.NoError(t, products.DeleteProduct(detail.ProductID, "alice"))

	// the full history of the deleted product stays queryable, newest first
	page, err := changeLogs.GetChangeLogs(SearchCondition{ProductID: &detail.ProductID}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), page.TotalElements)

	assert.Equal(t, model.ChangeTypeDelete, page.Content[0].ChangeType)
	assert.Equal(t, model.ChangeTypeUpdate, page.Content[1].ChangeType)
	assert.Equal(t, model.ChangeTypeCreate, page.Content[2].ChangeType)

	update := page.Content[1]
	require.NotNil(t, update.ChangedField)
	assert.Equal(t, "productName", *update.ChangedField)
	assert.Equal(t, "Widget", *update.OldValue)
	assert.Equal(t, "Widget2", *update.NewValue)
	assert.Equal(t, "alice", update.ChangedBy)

	// the product itself is gone
	_, err = products.GetProduct(detail.ProductID)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
}

func TestProductService_CreateDuplicateCode(t *testing.T) {
	_, products, changeLogs := newServices(t)

	first, err := products.CreateProduct(CreateProductInput{ProductCode: "P001", ProductName: "Widget"}, "")
	require.NoError(t, err)

	_, err = products.CreateProduct(CreateProductInput{ProductCode: "P001", ProductName: "Other"}, "")
	assert.ErrorIs(t, err, apperr.ErrDuplicateCode)

	// the failed creation left no audit trace
	createType := model.ChangeTypeCreate
	page, err := changeLogs.GetChangeLogs(SearchCondition{ChangeType: &createType}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, first.ProductID, page.Content[0].ProductID)
}

func TestProductService_CategoryHandling(t *testing.T) {
	db, products, changeLogs := newServices(t)

	category := &model.Category{CategoryName: "Electronics", Depth: 1, SortOrder: 1}
	require.NoError(t, db.Create(category).Error)

	t.Run("unknown category is rejected on create", func(t *testing.T) {
		missing := uint(9999)
		_, err := products.CreateProduct(CreateProductInput{
			ProductCode: "P400",
			ProductName: "Orphan",
			CategoryID:  &missing,
		}, "")
		assert.ErrorIs(t, err, apperr.ErrCategoryNotFound)
	})

	t.Run("category changes are audited by name", func(t *testing.T) {
		detail, err := products.CreateProduct(CreateProductInput{
			ProductCode: "P001",
			ProductName: "Widget",
			CategoryID:  &category.CategoryID,
		}, "")
		require.NoError(t, err)
		require.NotNil(t, detail.CategoryName)
		assert.Equal(t, "Electronics", *detail.CategoryName)

		// drop the category association
		_, err = products.UpdateProduct(detail.ProductID, UpdateProductInput{ProductName: "Widget"}, "")
		require.NoError(t, err)

		updateType := model.ChangeTypeUpdate
		page, err := changeLogs.GetChangeLogs(SearchCondition{ChangeType: &updateType}, 0, 10)
		require.NoError(t, err)
		require.Equal(t, int64(1), page.TotalElements)

		entry := page.Content[0]
		assert.Equal(t, "categoryId", *entry.ChangedField)
		assert.Equal(t, "Electronics", *entry.OldValue)
		assert.Equal(t, "null", *entry.NewValue)
	})

	t.Run("unknown category is rejected on update", func(t *testing.T) {
		detail, err := products.CreateProduct(CreateProductInput{ProductCode: "P002", ProductName: "Gadget"}, "")
		require.NoError(t, err)

		missing := uint(9999)
		_, err = products.UpdateProduct(detail.ProductID, UpdateProductInput{
			ProductName: "Gadget",
			CategoryID:  &missing,
		}, "")
		assert.ErrorIs(t, err, apperr.ErrCategoryNotFound)
	})
}

func TestProductService_UpdateIsIdempotentInAudit(t *testing.T) {
	_, products, changeLogs := newServices(t)

	detail, err := products.CreateProduct(CreateProductInput{
		ProductCode: "P001",
		ProductName: "Widget",
		Description: "desc",
	}, "")
	require.NoError(t, err)

	_, err = products.UpdateProduct(detail.ProductID, UpdateProductInput{
		ProductName: "Widget",
		Description: "desc",
	}, "")
	require.NoError(t, err)

	updateType := model.ChangeTypeUpdate
	page, err := changeLogs.GetChangeLogs(SearchCondition{ChangeType: &updateType}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalElements, "identical update appends no rows")
}

func TestProductService_AuditFailureRollsBackMutation(t *testing.T) {
	db, products, _ := newServices(t)

	detail, err := products.CreateProduct(CreateProductInput{ProductCode: "P001", ProductName: "Widget"}, "")
	require.NoError(t, err)

	// make the audit append impossible; the mutation must roll back with it
	require.NoError(t, db.Migrator().DropTable(&model.ProductChangeLog{}))

	_, err = products.UpdateProduct(detail.ProductID, UpdateProductInput{ProductName: "Widget2"}, "")
	require.Error(t, err)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, "product_id = ?", detail.ProductID).Error)
	assert.Equal(t, "Widget", reloaded.ProductName, "update must not survive a failed audit append")

	err = products.DeleteProduct(detail.ProductID, "")
	require.Error(t, err)
	require.NoError(t, db.First(&reloaded, "product_id = ?", detail.ProductID).Error)
}

func TestProductService_SearchValidation(t *testing.T) {
	_, products, _ := newServices(t)

	var appErr *apperr.Error

	_, err := products.SearchProducts(repository.SearchParams{}, -1, 10)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "COMMON_001", appErr.Code)

	_, err = products.SearchProducts(repository.SearchParams{}, 0, 0)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "COMMON_001", appErr.Code)
}

func TestProductService_GetProductDetail(t *testing.T) {
	db, products, _ := newServices(t)

	detail, err := products.CreateProduct(CreateProductInput{ProductCode: "P001", ProductName: "Widget"}, "")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, db.Create(&model.PriceHistory{
		ProductID: detail.ProductID,
		Price:     99.5,
		StartDate: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&model.ProductOption{
		ProductID:   detail.ProductID,
		OptionName:  "color",
		OptionValue: "red",
	}).Error)
	require.NoError(t, db.Create(&model.Inventory{
		ProductID:     detail.ProductID,
		Quantity:      7,
		WarehouseCode: "WH1",
	}).Error)

	got, err := products.GetProduct(detail.ProductID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	assert.Equal(t, 99.5, *got.CurrentPrice)
	require.Len(t, got.Options, 1)
	assert.Equal(t, "color", got.Options[0].OptionName)
	require.Len(t, got.Inventories, 1)
	assert.Equal(t, 7, got.Inventories[0].Quantity)
}
