package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus is the lifecycle state of a product
type ProductStatus string

const (
	StatusActive       ProductStatus = "ACTIVE"
	StatusInactive     ProductStatus = "INACTIVE"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
	StatusDeleted      ProductStatus = "DELETED"
)

// Valid reports whether the status is a known member of the enumeration
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued, StatusDeleted:
		return true
	}
	return false
}

// Product represents the product master data.
// ProductCode is unique and immutable after creation.
type Product struct {
	ProductID        uint           `json:"productId" gorm:"column:product_id;primarykey"`
	ProductCode      string         `json:"productCode" gorm:"column:product_code;type:varchar(100);uniqueIndex;not null"`
	ProductName      string         `json:"productName" gorm:"column:product_name;type:varchar(255);not null"`
	Description      string         `json:"description" gorm:"column:description;type:text"`
	CategoryID       *uint          `json:"categoryId" gorm:"column:category_id"`
	Status           ProductStatus  `json:"status" gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	CreatedDate      time.Time      `json:"createdDate" gorm:"column:created_date;autoCreateTime"`
	LastModifiedDate time.Time      `json:"lastModifiedDate" gorm:"column:last_modified_date;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

// TableName overrides the table name used by GORM
func (Product) TableName() string {
	return "product"
}
