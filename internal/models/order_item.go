package models

import (
	"time"

	"gorm.io/gorm"
)

// 订单项类型
const (
	OrderItemTypeNormal    = "normal"     // 正常商品
	OrderItemTypeUpsell    = "upsell"     // 加购升级
	OrderItemTypeCrossSell = "cross_sell" // 交叉销售
)

// OrderItem 订单项表（单价与成本均为下单时快照，不随商品目录变动）
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                            // 订单ID
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                          // 商品ID
	ProductName string         `gorm:"type:varchar(255);not null" json:"product_name"`            // 商品名称快照
	SKU         string         `gorm:"type:varchar(100)" json:"sku"`                              // SKU 快照
	Quantity    int            `gorm:"not null" json:"quantity"`                                  // 数量
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 单价快照
	UnitCost    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_cost"`    // 单位成本快照（COGS）
	Subtotal    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`     // 小计
	Discount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`     // 行折扣
	Total       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`        // 行合计（subtotal - discount）
	ItemType    string         `gorm:"type:varchar(20);not null;default:'normal'" json:"item_type"` // 订单项类型
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
