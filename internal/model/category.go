package model

import "time"

// Category represents a product category. Categories form a tree through
// ParentID; the parent is referenced by id only, never embedded.
type Category struct {
	CategoryID       uint      `json:"categoryId" gorm:"column:category_id;primarykey"`
	CategoryName     string    `json:"categoryName" gorm:"column:category_name;type:varchar(100);not null"`
	ParentID         *uint     `json:"parentId" gorm:"column:parent_id"`
	Depth            int       `json:"depth" gorm:"column:depth"`
	SortOrder        int       `json:"sortOrder" gorm:"column:sort_order"`
	CreatedDate      time.Time `json:"createdDate" gorm:"column:created_date;autoCreateTime"`
	LastModifiedDate time.Time `json:"lastModifiedDate" gorm:"column:last_modified_date;autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Category) TableName() string {
	return "category"
}
