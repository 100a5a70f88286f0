package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/apperr"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/repository"
)

// CreateProductInput carries the fields of a product creation command
type CreateProductInput struct {
	ProductCode string
	ProductName string
	Description string
	CategoryID  *uint
	Status      model.ProductStatus
}

// UpdateProductInput carries the fields of a product update command. The
// product code is immutable and deliberately absent. An empty status keeps
// the current one.
type UpdateProductInput struct {
	ProductName string
	Description string
	CategoryID  *uint
	Status      model.ProductStatus
}

// ProductDetail is the full read model of one product
type ProductDetail struct {
	repository.ProductSummary
	CurrentPrice *float64              `json:"currentPrice"`
	Options      []model.ProductOption `json:"options"`
	Inventories  []model.Inventory     `json:"inventories"`
}

// ProductService implements the product commands and the search operation.
// Every mutation and its audit rows run in one transaction: if the audit
// append fails, the mutation rolls back.
type ProductService struct {
	db         *gorm.DB
	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	changeLogs *ChangeLogService
	log        *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(db *gorm.DB, products *repository.ProductRepository, categories *repository.CategoryRepository, changeLogs *ChangeLogService, log *zap.Logger) *ProductService {
	return &ProductService{
		db:         db,
		products:   products,
		categories: categories,
		changeLogs: changeLogs,
		log:        log,
	}
}

// SearchProducts returns one page of products matching the optional filters
func (s *ProductService) SearchProducts(params repository.SearchParams, page, size int) (*Page[repository.ProductSummary], error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	rows, total, err := s.products.Search(params, page, size, time.Now())
	if err != nil {
		s.log.Error("Product search failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return NewPage(rows, page, size, total), nil
}

// GetProduct returns the detail view of one product, including its
// currently valid price, options and inventory rows
func (s *ProductService) GetProduct(id uint) (*ProductDetail, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		s.log.Error("Product lookup failed", zap.Uint("product_id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return s.detailOf(product)
}

// CreateProduct creates a product and its CREATE audit entry atomically.
// The unique index on product_code is the authority on duplicates; the
// pre-check only gives the friendly path.
func (s *ProductService) CreateProduct(in CreateProductInput, actor string) (*ProductDetail, error) {
	if in.ProductCode == "" {
		return nil, apperr.InvalidArgument("productCode is required")
	}
	if in.ProductName == "" {
		return nil, apperr.InvalidArgument("productName is required")
	}
	status := in.Status
	if status == "" {
		status = model.StatusActive
	}
	if !status.Valid() {
		return nil, apperr.InvalidArgument("unknown product status")
	}

	exists, err := s.products.ExistsByCode(in.ProductCode)
	if err != nil {
		s.log.Error("Product code check failed", zap.String("product_code", in.ProductCode), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.ErrDuplicateCode
	}

	if _, err := s.resolveCategory(in.CategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{
		ProductCode: in.ProductCode,
		ProductName: in.ProductName,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Status:      status,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).Create(product); err != nil {
			return err
		}
		return s.changeLogs.RecordCreate(tx, product, actor)
	})
	if err != nil {
		// a concurrent creator may win the race past the pre-check; the
		// constraint violation surfaces as the same duplicate-code error
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, apperr.ErrDuplicateCode
		}
		s.log.Error("Product creation failed", zap.String("product_code", in.ProductCode), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.log.Info("Product created",
		zap.Uint("product_id", product.ProductID),
		zap.String("product_code", product.ProductCode))
	return s.detailOf(product)
}

// UpdateProduct applies the update and appends one UPDATE audit entry per
// changed field, all in one transaction. The product code never changes.
func (s *ProductService) UpdateProduct(id uint, in UpdateProductInput, actor string) (*ProductDetail, error) {
	if in.ProductName == "" {
		return nil, apperr.InvalidArgument("productName is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, apperr.InvalidArgument("unknown product status")
	}

	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		s.log.Error("Product lookup failed", zap.Uint("product_id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	// pre-mutation snapshot for the audit diff
	oldName := product.ProductName
	oldDescription := product.Description
	oldStatus := product.Status
	snap := Snapshot{
		ProductName:  &oldName,
		Description:  &oldDescription,
		CategoryName: s.lookupCategoryName(product.CategoryID),
		Status:       &oldStatus,
	}

	newCategory, err := s.resolveCategory(in.CategoryID)
	if err != nil {
		return nil, err
	}
	var newCategoryName *string
	if newCategory != nil {
		newCategoryName = &newCategory.CategoryName
	}

	product.ProductName = in.ProductName
	product.Description = in.Description
	product.CategoryID = in.CategoryID
	if in.Status != "" {
		product.Status = in.Status
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).Save(product); err != nil {
			return err
		}
		return s.changeLogs.RecordUpdate(tx, product, newCategoryName, snap, actor)
	})
	if err != nil {
		s.log.Error("Product update failed", zap.Uint("product_id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}

	s.log.Info("Product updated", zap.Uint("product_id", product.ProductID))
	return s.detailOf(product)
}

// DeleteProduct soft-deletes a product and appends its DELETE audit entry
// atomically. The audit history of the product remains queryable.
func (s *ProductService) DeleteProduct(id uint, actor string) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrProductNotFound
		}
		s.log.Error("Product lookup failed", zap.Uint("product_id", id), zap.Error(err))
		return apperr.Internal(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).Delete(product); err != nil {
			return err
		}
		return s.changeLogs.RecordDelete(tx, product, actor)
	})
	if err != nil {
		s.log.Error("Product deletion failed", zap.Uint("product_id", id), zap.Error(err))
		return apperr.Internal(err)
	}

	s.log.Info("Product deleted", zap.Uint("product_id", product.ProductID))
	return nil
}

// ListCategories returns all categories in tree display order
func (s *ProductService) ListCategories() ([]model.Category, error) {
	categories, err := s.categories.ListAll()
	if err != nil {
		s.log.Error("Category listing failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// resolveCategory loads the referenced category, or nil when no reference
// is given. A dangling reference is a caller error.
func (s *ProductService) resolveCategory(id *uint) (*model.Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.categories.FindByID(*id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrCategoryNotFound
		}
		s.log.Error("Category lookup failed", zap.Uint("category_id", *id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return category, nil
}

// lookupCategoryName resolves a category name for display and diffing,
// tolerating a missing row
func (s *ProductService) lookupCategoryName(id *uint) *string {
	if id == nil {
		return nil
	}
	category, err := s.categories.FindByID(*id)
	if err != nil {
		return nil
	}
	return &category.CategoryName
}

func (s *ProductService) detailOf(product *model.Product) (*ProductDetail, error) {
	detail := &ProductDetail{
		ProductSummary: repository.ProductSummary{
			ProductID:        product.ProductID,
			ProductCode:      product.ProductCode,
			ProductName:      product.ProductName,
			Description:      product.Description,
			CategoryID:       product.CategoryID,
			CategoryName:     s.lookupCategoryName(product.CategoryID),
			Status:           product.Status,
			CreatedDate:      product.CreatedDate,
			LastModifiedDate: product.LastModifiedDate,
		},
	}

	price, err := s.products.CurrentPrice(product.ProductID, time.Now())
	if err != nil {
		s.log.Error("Current price lookup failed", zap.Uint("product_id", product.ProductID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if price != nil {
		detail.CurrentPrice = &price.Price
	}

	if detail.Options, err = s.products.OptionsByProduct(product.ProductID); err != nil {
		s.log.Error("Option lookup failed", zap.Uint("product_id", product.ProductID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if detail.Inventories, err = s.products.InventoriesByProduct(product.ProductID); err != nil {
		s.log.Error("Inventory lookup failed", zap.Uint("product_id", product.ProductID), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return detail, nil
}
