package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicateCode is returned when the unique index on product_code rejects an insert
var ErrDuplicateCode = errors.New("product code already exists")

// SearchParams are the optional product search filters. Empty strings and
// nil bounds impose no constraint.
type SearchParams struct {
	ProductName string
	ProductCode string
	MinPrice    *float64
	MaxPrice    *float64
}

// ProductSummary is one search result row, left-joined to category
type ProductSummary struct {
	ProductID        uint                `json:"productId"`
	ProductCode      string              `json:"productCode"`
	ProductName      string              `json:"productName"`
	Description      string              `json:"description"`
	CategoryID       *uint               `json:"categoryId"`
	CategoryName     *string             `json:"categoryName"`
	Status           model.ProductStatus `json:"status"`
	CreatedDate      time.Time           `json:"createdDate"`
	LastModifiedDate time.Time           `json:"lastModifiedDate"`
}

// ProductRepository provides access to product storage
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// searchQuery builds the filtered product query. Each absent filter adds no
// condition at all, so filters compose with AND and never match nothing.
func (r *ProductRepository) searchQuery(params SearchParams, now time.Time) *gorm.DB {
	q := r.db.Model(&model.Product{}).
		Joins("LEFT JOIN category ON category.category_id = product.category_id")

	if params.ProductName != "" {
		q = q.Where("LOWER(product.product_name) LIKE ?", "%"+strings.ToLower(params.ProductName)+"%")
	}
	if params.ProductCode != "" {
		q = q.Where("LOWER(product.product_code) LIKE ?", "%"+strings.ToLower(params.ProductCode)+"%")
	}

	// Price bounds are a semi-join against product ids that have a currently
	// valid price row in range, so multiple price rows never duplicate results.
	if params.MinPrice != nil || params.MaxPrice != nil {
		valid := r.db.Model(&model.PriceHistory{}).
			Select("price_history.product_id").
			Where("price_history.end_date IS NULL OR price_history.end_date > ?", now)
		if params.MinPrice != nil {
			valid = valid.Where("price_history.price >= ?", *params.MinPrice)
		}
		if params.MaxPrice != nil {
			valid = valid.Where("price_history.price <= ?", *params.MaxPrice)
		}
		valid = valid.Group("price_history.product_id")
		q = q.Where("product.product_id IN (?)", valid)
	}

	return q
}

// Search returns one page of products matching the filters plus the total
// count of the full filtered set. Ordering is creation date descending with
// id descending as tie-break, which keeps pagination deterministic.
func (r *ProductRepository) Search(params SearchParams, page, size int, now time.Time) ([]ProductSummary, int64, error) {
	var total int64
	if err := r.searchQuery(params, now).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ProductSummary
	err := r.searchQuery(params, now).
		Select("product.product_id, product.product_code, product.product_name, product.description, " +
			"product.category_id, category.category_name, product.status, product.created_date, product.last_modified_date").
		Order("product.created_date DESC, product.product_id DESC").
		Offset(page * size).
		Limit(size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CurrentPrice resolves the price row valid at the given instant. More than
// one row can qualify when validity windows overlap; the most recently
// started row wins, with id as the final tie-break. Absence of a current
// price is a valid result, reported as nil.
func (r *ProductRepository) CurrentPrice(productID uint, now time.Time) (*model.PriceHistory, error) {
	var price model.PriceHistory
	err := r.db.
		Where("product_id = ?", productID).
		Where("end_date IS NULL OR end_date > ?", now).
		Order("start_date DESC, price_id DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// Create inserts a new product. A unique-index violation on product_code is
// reported as ErrDuplicateCode.
func (r *ProductRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// ExistsByCode reports whether a product with the given code exists
func (r *ProductRepository) ExistsByCode(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Where("product_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID retrieves a product by id, excluding soft-deleted rows
func (r *ProductRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDUnscoped retrieves a product by id including soft-deleted rows.
// Change-log queries use it so audit history of removed products stays
// reachable.
func (r *ProductRepository) FindByIDUnscoped(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Unscoped().First(&product, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save persists changes to an existing product
func (r *ProductRepository) Save(product *model.Product) error {
	return r.db.Save(product).Error
}

// Delete soft-deletes a product. Its change-log rows are left untouched.
func (r *ProductRepository) Delete(product *model.Product) error {
	result := r.db.Delete(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OptionsByProduct returns the option rows of a product
func (r *ProductRepository) OptionsByProduct(productID uint) ([]model.ProductOption, error) {
	var options []model.ProductOption
	if err := r.db.Where("product_id = ?", productID).Order("option_id").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// InventoriesByProduct returns the inventory rows of a product
func (r *ProductRepository) InventoriesByProduct(productID uint) ([]model.Inventory, error) {
	var inventories []model.Inventory
	if err := r.db.Where("product_id = ?", productID).Order("inventory_id").Find(&inventories).Error; err != nil {
		return nil, err
	}
	return inventories, nil
}
