package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                    // 主键
	SKU            string         `gorm:"uniqueIndex;not null" json:"sku"`                         // SKU 编码
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`                  // 商品名称
	Price          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 售价
	Cost           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost"`       // 单位成本
	StockQuantity  int            `gorm:"not null;default:0" json:"stock_quantity"`                // 当前库存（仅允许库存台账修改）
	TrackInventory bool           `gorm:"not null" json:"track_inventory"`                         // 是否跟踪库存（不可加 default 标签，否则插入时 false 会被跳过）
	AllowBackorder bool           `gorm:"not null;default:false" json:"allow_backorder"`           // 是否允许超卖（负库存）
	IsActive       bool           `gorm:"not null;index" json:"is_active"`                         // 是否上架
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
