package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
)

// CategoryRepository provides access to category storage
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

// FindByID retrieves a category by id
func (r *CategoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "category_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ListAll returns every category in tree display order
func (r *CategoryRepository) ListAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("depth, sort_order, category_id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
