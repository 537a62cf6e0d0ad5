package models

import "time"

// OrderHistory 订单操作日志表（只追加，每次生命周期操作恰好一行）
type OrderHistory struct {
	ID          uint        `gorm:"primarykey" json:"id"`                             // 主键
	OrderID     uint        `gorm:"index;not null" json:"order_id"`                   // 订单ID
	Action      string      `gorm:"type:varchar(50);index;not null" json:"action"`    // 操作名
	OldStatus   OrderStatus `gorm:"type:varchar(20)" json:"old_status"`               // 操作前状态
	NewStatus   OrderStatus `gorm:"type:varchar(20)" json:"new_status"`               // 操作后状态
	Notes       string      `gorm:"type:varchar(1000)" json:"notes,omitempty"`        // 备注
	PerformedBy string      `gorm:"type:varchar(100);index" json:"performed_by"`      // 操作人（外部已解析的身份标识）
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`                          // 操作时间
}

// TableName 指定表名
func (OrderHistory) TableName() string {
	return "order_histories"
}
