package model

import "time"

// PriceHistory is one time-bounded price row for a product. A row is the
// current price when EndDate is null or still in the future; historical
// rows are kept forever.
type PriceHistory struct {
	PriceID          uint       `json:"priceId" gorm:"column:price_id;primarykey"`
	ProductID        uint       `json:"productId" gorm:"column:product_id;not null;index"`
	Price            float64    `json:"price" gorm:"column:price;not null"`
	StartDate        time.Time  `json:"startDate" gorm:"column:start_date;not null"`
	EndDate          *time.Time `json:"endDate" gorm:"column:end_date"`
	CreatedDate      time.Time  `json:"createdDate" gorm:"column:created_date;autoCreateTime"`
	LastModifiedDate time.Time  `json:"lastModifiedDate" gorm:"column:last_modified_date;autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (PriceHistory) TableName() string {
	return "price_history"
}
