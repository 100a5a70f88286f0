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

// SystemActor is recorded as changed_by when the caller supplies no actor
const SystemActor = "SYSTEM"

const (
	createdMarker = "Product created"
	deletedMarker = "Product deleted"
	nullMarker    = "null"
)

// Snapshot captures the pre-mutation state of the audited product fields.
// Nil fields are treated as absent and, for name and status, skip the
// comparison entirely.
type Snapshot struct {
	ProductName  *string
	Description  *string
	CategoryName *string
	Status       *model.ProductStatus
}

// SearchCondition selects change-log entries. When several fields are set
// they are evaluated with a fixed precedence: product+window, product,
// type, window, then unfiltered.
type SearchCondition struct {
	ProductID  *uint
	ChangeType *model.ChangeType
	StartDate  *time.Time
	EndDate    *time.Time
}

// ChangeLogService records field-level audit entries for product mutations
// and answers change-log queries
type ChangeLogService struct {
	changeLogs *repository.ChangeLogRepository
	products   *repository.ProductRepository
	log        *zap.Logger
}

// NewChangeLogService creates a new change-log service
func NewChangeLogService(changeLogs *repository.ChangeLogRepository, products *repository.ProductRepository, log *zap.Logger) *ChangeLogService {
	return &ChangeLogService{changeLogs: changeLogs, products: products, log: log}
}

func (s *ChangeLogService) append(tx *gorm.DB, entry *model.ProductChangeLog) error {
	if entry.ChangedBy == "" {
		entry.ChangedBy = SystemActor
	}
	if entry.ChangedDate.IsZero() {
		entry.ChangedDate = time.Now()
	}
	s.log.Debug("Appending change log",
		zap.Uint("product_id", entry.ProductID),
		zap.String("change_type", string(entry.ChangeType)))
	return s.changeLogs.WithTx(tx).Append(entry)
}

// RecordCreate appends the single CREATE entry for a new product. It must
// run inside the transaction that created the product; a failed append
// fails the whole mutation.
func (s *ChangeLogService) RecordCreate(tx *gorm.DB, product *model.Product, actor string) error {
	marker := createdMarker
	return s.append(tx, &model.ProductChangeLog{
		ProductID:  product.ProductID,
		ChangeType: model.ChangeTypeCreate,
		NewValue:   &marker,
		ChangedBy:  actor,
	})
}

// RecordDelete appends the single DELETE entry for a removed product
func (s *ChangeLogService) RecordDelete(tx *gorm.DB, product *model.Product, actor string) error {
	marker := deletedMarker
	return s.append(tx, &model.ProductChangeLog{
		ProductID:  product.ProductID,
		ChangeType: model.ChangeTypeDelete,
		OldValue:   &marker,
		ChangedBy:  actor,
	})
}

// RecordUpdate compares the pre-mutation snapshot against the post-mutation
// product and appends one UPDATE entry per differing field. The comparison
// table is processed in a fixed order, which fixes the order of the
// appended rows: productName, description, categoryId, status.
func (s *ChangeLogService) RecordUpdate(tx *gorm.DB, product *model.Product, newCategoryName *string, snap Snapshot, actor string) error {
	checks := []struct {
		field string
		diff  func() (oldValue, newValue string, changed bool)
	}{
		{
			// compared only when the snapshot carries a name
			field: "productName",
			diff: func() (string, string, bool) {
				if snap.ProductName == nil {
					return "", "", false
				}
				return *snap.ProductName, product.ProductName, *snap.ProductName != product.ProductName
			},
		},
		{
			// both sides normalized to empty string, so absent and empty
			// are indistinguishable
			field: "description",
			diff: func() (string, string, bool) {
				oldDesc := ""
				if snap.Description != nil {
					oldDesc = *snap.Description
				}
				return oldDesc, product.Description, oldDesc != product.Description
			},
		},
		{
			// no-category sides are stored as the literal "null"
			field: "categoryId",
			diff: func() (string, string, bool) {
				oldName, newName := nullMarker, nullMarker
				if snap.CategoryName != nil {
					oldName = *snap.CategoryName
				}
				if newCategoryName != nil {
					newName = *newCategoryName
				}
				changed := (snap.CategoryName == nil && newCategoryName != nil) ||
					(snap.CategoryName != nil && (newCategoryName == nil || *snap.CategoryName != *newCategoryName))
				return oldName, newName, changed
			},
		},
		{
			// compared only when the snapshot carries a status
			field: "status",
			diff: func() (string, string, bool) {
				if snap.Status == nil {
					return "", "", false
				}
				return string(*snap.Status), string(product.Status), *snap.Status != product.Status
			},
		},
	}

	for _, check := range checks {
		oldValue, newValue, changed := check.diff()
		if !changed {
			continue
		}
		field := check.field
		entry := &model.ProductChangeLog{
			ProductID:    product.ProductID,
			ChangeType:   model.ChangeTypeUpdate,
			ChangedField: &field,
			OldValue:     &oldValue,
			NewValue:     &newValue,
			ChangedBy:    actor,
		}
		if err := s.append(tx, entry); err != nil {
			return err
		}
	}
	return nil
}

// GetChangeLogs returns one page of audit entries matching the condition,
// newest first. A referenced product must exist, soft-deleted ones
// included, otherwise the query fails with PRODUCT_001.
func (s *ChangeLogService) GetChangeLogs(cond SearchCondition, page, size int) (*Page[repository.ChangeLogEntry], error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}

	var (
		entries []repository.ChangeLogEntry
		total   int64
		err     error
	)

	switch {
	case cond.ProductID != nil && cond.StartDate != nil && cond.EndDate != nil:
		if err := s.ensureProductExists(*cond.ProductID); err != nil {
			return nil, err
		}
		entries, total, err = s.changeLogs.FindByProductBetween(*cond.ProductID, *cond.StartDate, *cond.EndDate, page, size)
	case cond.ProductID != nil:
		if err := s.ensureProductExists(*cond.ProductID); err != nil {
			return nil, err
		}
		entries, total, err = s.changeLogs.FindByProduct(*cond.ProductID, page, size)
	case cond.ChangeType != nil:
		entries, total, err = s.changeLogs.FindByType(*cond.ChangeType, page, size)
	case cond.StartDate != nil && cond.EndDate != nil:
		entries, total, err = s.changeLogs.FindBetween(*cond.StartDate, *cond.EndDate, page, size)
	default:
		entries, total, err = s.changeLogs.FindAll(page, size)
	}
	if err != nil {
		s.log.Error("Change log query failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	return NewPage(entries, page, size, total), nil
}

// GetRecentChangeLogs returns entries changed at or after the given instant
func (s *ChangeLogService) GetRecentChangeLogs(start time.Time, page, size int) (*Page[repository.ChangeLogEntry], error) {
	if err := validatePage(page, size); err != nil {
		return nil, err
	}
	entries, total, err := s.changeLogs.FindSince(start, page, size)
	if err != nil {
		s.log.Error("Recent change log query failed", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return NewPage(entries, page, size, total), nil
}

func (s *ChangeLogService) ensureProductExists(productID uint) error {
	if _, err := s.products.FindByIDUnscoped(productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrProductNotFound
		}
		s.log.Error("Product lookup failed", zap.Uint("product_id", productID), zap.Error(err))
		return apperr.Internal(err)
	}
	return nil
}
