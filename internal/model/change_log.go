package model

import "time"

// ChangeType classifies a change-log entry
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "CREATE"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

// Valid reports whether the change type is a known member of the enumeration
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypeCreate, ChangeTypeUpdate, ChangeTypeDelete:
		return true
	}
	return false
}

// ProductChangeLog is one immutable audit entry for a product mutation.
// Rows are append-only; they are never updated or deleted, even when the
// product itself is removed.
type ProductChangeLog struct {
	ChangeLogID  uint       `json:"changeLogId" gorm:"column:change_log_id;primarykey"`
	ProductID    uint       `json:"productId" gorm:"column:product_id;not null;index"`
	ChangeType   ChangeType `json:"changeType" gorm:"column:change_type;type:varchar(20);not null"`
	ChangedField *string    `json:"changedField" gorm:"column:changed_field;type:varchar(100)"`
	OldValue     *string    `json:"oldValue" gorm:"column:old_value;type:text"`
	NewValue     *string    `json:"newValue" gorm:"column:new_value;type:text"`
	ChangedBy    string     `json:"changedBy" gorm:"column:changed_by;type:varchar(100)"`
	ChangedDate  time.Time  `json:"changedDate" gorm:"column:changed_date;not null;index"`
}

// TableName overrides the table name used by GORM
func (ProductChangeLog) TableName() string {
	return "product_change_log"
}
