package model

import "time"

// Inventory is a stock record for a product in one warehouse
type Inventory struct {
	InventoryID      uint      `json:"inventoryId" gorm:"column:inventory_id;primarykey"`
	ProductID        uint      `json:"productId" gorm:"column:product_id;not null;index"`
	Quantity         int       `json:"quantity" gorm:"column:quantity;not null"`
	WarehouseCode    string    `json:"warehouseCode" gorm:"column:warehouse_code;type:varchar(50)"`
	CreatedDate      time.Time `json:"createdDate" gorm:"column:created_date;autoCreateTime"`
	LastModifiedDate time.Time `json:"lastModifiedDate" gorm:"column:last_modified_date;autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Inventory) TableName() string {
	return "inventory"
}

// ProductOption is a name/value variant attribute of a product
type ProductOption struct {
	OptionID         uint      `json:"optionId" gorm:"column:option_id;primarykey"`
	ProductID        uint      `json:"productId" gorm:"column:product_id;not null;index"`
	OptionName       string    `json:"optionName" gorm:"column:option_name;type:varchar(100);not null"`
	OptionValue      string    `json:"optionValue" gorm:"column:option_value;type:varchar(255);not null"`
	CreatedDate      time.Time `json:"createdDate" gorm:"column:created_date;autoCreateTime"`
	LastModifiedDate time.Time `json:"lastModifiedDate" gorm:"column:last_modified_date;autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (ProductOption) TableName() string {
	return "product_option"
}
