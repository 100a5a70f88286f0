package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/VelkaressiaBlutkrone/spring-react-product-mng/internal/model"
)

// ChangeLogEntry is one audit row denormalized with the owning product's
// current code and name, resolved at read time
type ChangeLogEntry struct {
	ChangeLogID  uint             `json:"changeLogId"`
	ProductID    uint             `json:"productId"`
	ProductCode  string           `json:"productCode"`
	ProductName  string           `json:"productName"`
	ChangeType   model.ChangeType `json:"changeType"`
	ChangedField *string          `json:"changedField"`
	OldValue     *string          `json:"oldValue"`
	NewValue     *string          `json:"newValue"`
	ChangedBy    string           `json:"changedBy"`
	ChangedDate  time.Time        `json:"changedDate"`
}

// ChangeLogRepository provides access to the append-only product change log
type ChangeLogRepository struct {
	db *gorm.DB
}

// NewChangeLogRepository creates a new change-log repository
func NewChangeLogRepository(db *gorm.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ChangeLogRepository) WithTx(tx *gorm.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: tx}
}

// Append inserts a new audit row. Rows are never updated or deleted.
func (r *ChangeLogRepository) Append(entry *model.ProductChangeLog) error {
	return r.db.Create(entry).Error
}

// base joins the change log to the product table. The join is unscoped on
// deleted_at so entries of soft-deleted products still resolve their code
// and name.
func (r *ChangeLogRepository) base() *gorm.DB {
	return r.db.Model(&model.ProductChangeLog{}).
		Joins("JOIN product ON product.product_id = product_change_log.product_id")
}

const entryColumns = "product_change_log.change_log_id, product_change_log.product_id, " +
	"product.product_code, product.product_name, product_change_log.change_type, " +
	"product_change_log.changed_field, product_change_log.old_value, product_change_log.new_value, " +
	"product_change_log.changed_by, product_change_log.changed_date"

// find counts the full filtered set, then fetches one page newest first
func (r *ChangeLogRepository) find(where func(*gorm.DB) *gorm.DB, page, size int) ([]ChangeLogEntry, int64, error) {
	var total int64
	if err := where(r.base()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []ChangeLogEntry
	err := where(r.base()).
		Select(entryColumns).
		Order("product_change_log.changed_date DESC, product_change_log.change_log_id DESC").
		Offset(page * size).
		Limit(size).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindByProductBetween returns entries for a product with changed_date in
// the inclusive-exclusive window [start, end)
func (r *ChangeLogRepository) FindByProductBetween(productID uint, start, end time.Time, page, size int) ([]ChangeLogEntry, int64, error) {
	return r.find(func(q *gorm.DB) *gorm.DB {
		return q.Where("product_change_log.product_id = ?", productID).
			Where("product_change_log.changed_date >= ? AND product_change_log.changed_date < ?", start, end)
	}, page, size)
}

// FindByProduct returns all entries for a product
func (r *ChangeLogRepository) FindByProduct(productID uint, page, size int) ([]ChangeLogEntry, int64, error) {
	return r.find(func(q *gorm.DB) *gorm.DB {
		return q.Where("product_change_log.product_id = ?", productID)
	}, page, size)
}

// FindByType returns all entries of one change type across all products
func (r *ChangeLogRepository) FindByType(changeType model.ChangeType, page, size int) ([]ChangeLogEntry, int64, error) {
	return r.find(func(q *gorm.DB) *gorm.DB {
		return q.Where("product_change_log.change_type = ?", changeType)
	}, page, size)
}

// FindBetween returns all entries with changed_date in [start, end)
func (r *ChangeLogRepository) FindBetween(start, end time.Time, page, size int) ([]ChangeLogEntry, int64, error) {
	return r.find(func(q *gorm.DB) *gorm.DB {
		return q.Where("product_change_log.changed_date >= ? AND product_change_log.changed_date < ?", start, end)
	}, page, size)
}

// FindAll returns every entry
func (r *ChangeLogRepository) FindAll(page, size int) ([]ChangeLogEntry, int64, error) {
	return r.find(func(q *gorm.DB) *gorm.DB { return q }, page, size)
}

// FindSince returns entries with changed_date at or after the given instant
func (r *ChangeLogRepository) FindSince(start time.Time, page, size int) ([]ChangeLogEntry, int64, error) {
	return r.find(func(q *gorm.DB) *gorm.DB {
		return q.Where("product_change_log.changed_date >= ?", start)
	}, page, size)
}
