package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号
	CustomerName    string         `gorm:"type:varchar(100);not null" json:"customer_name"`               // 收件人姓名
	CustomerPhone   string         `gorm:"type:varchar(30);index" json:"customer_phone"`                  // 收件人电话
	ShippingAddress string         `gorm:"type:varchar(500)" json:"shipping_address"`                     // 收货地址
	City            string         `gorm:"type:varchar(100);index" json:"city"`                           // 收货城市
	Status          OrderStatus    `gorm:"type:varchar(20);index;not null" json:"status"`                 // 订单状态
	PaymentStatus   PaymentStatus  `gorm:"type:varchar(20);index;not null" json:"payment_status"`         // 收款状态
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 商品小计
	DeliveryCharges Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charges"` // 配送费
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 应收总额
	CashCollected   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cash_collected"`   // 实际代收现金
	IsConfirmed     bool           `gorm:"not null;default:false" json:"is_confirmed"`                    // 是否已人工确认
	ConfirmedBy     string         `gorm:"type:varchar(100)" json:"confirmed_by,omitempty"`               // 确认人
	ConfirmedAt     *time.Time     `json:"confirmed_at"`                                                  // 确认时间
	TrackingNumber  string         `gorm:"type:varchar(100);index" json:"tracking_number,omitempty"`      // 运单号
	Courier         string         `gorm:"type:varchar(100)" json:"courier,omitempty"`                    // 承运商
	ShippedAt       *time.Time     `json:"shipped_at"`                                                    // 发货时间
	OutForDeliveryAt *time.Time    `json:"out_for_delivery_at"`                                           // 最近一次派送时间
	DeliveryAttempts int           `gorm:"not null;default:0" json:"delivery_attempts"`                   // 派送尝试次数
	DeliveredAt     *time.Time     `json:"delivered_at"`                                                  // 签收时间
	PaymentCollected bool          `gorm:"not null;default:false" json:"payment_collected"`               // 现金是否已代收
	FailureReason   string         `gorm:"type:varchar(500)" json:"failure_reason,omitempty"`             // 派送失败原因
	IsReturned      bool           `gorm:"not null;default:false" json:"is_returned"`                     // 是否已退回
	ReturnReason    string         `gorm:"type:varchar(500)" json:"return_reason,omitempty"`              // 退回原因
	ReturnedAt      *time.Time     `json:"returned_at"`                                                   // 退回时间
	CancelReason    string         `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`              // 取消原因
	CancelledAt     *time.Time     `gorm:"index" json:"cancelled_at"`                                     // 取消时间
	RefundedAt      *time.Time     `json:"refunded_at"`                                                   // 退款时间
	StockReserved   bool           `gorm:"not null;default:false" json:"stock_reserved"`                  // 下单时是否占用了库存
	StockReleased   bool           `gorm:"not null;default:false" json:"stock_released"`                  // 占用库存是否已释放
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                       // 待确认超时时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Items   []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`   // 订单项
	History []OrderHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"` // 操作日志
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
