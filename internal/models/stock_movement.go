package models

import "time"

// StockMovement 库存流水表（只追加，每行满足 new_stock = previous_stock + delta）
type StockMovement struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                       // 主键
	ProductID     uint      `gorm:"index:idx_stock_movement_product;not null" json:"product_id"` // 商品ID
	Delta         int       `gorm:"not null" json:"delta"`                                      // 库存变化量（负为出库）
	PreviousStock int       `gorm:"not null" json:"previous_stock"`                             // 变动前库存
	NewStock      int       `gorm:"not null" json:"new_stock"`                                  // 变动后库存
	ReferenceType string    `gorm:"type:varchar(20);index;not null" json:"reference_type"`      // 关联类型
	ReferenceID   uint      `gorm:"index" json:"reference_id"`                                  // 关联单据ID（订单等）
	Reason        string    `gorm:"type:varchar(500)" json:"reason,omitempty"`                  // 备注原因
	CreatedAt     time.Time `gorm:"index:idx_stock_movement_product" json:"created_at"`         // 创建时间
}

// TableName 指定表名
func (StockMovement) TableName() string {
	return "stock_movements"
}
