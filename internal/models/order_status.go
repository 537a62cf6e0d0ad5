package models

// OrderStatus 订单状态（封闭枚举，所有比较必须使用本类型）
type OrderStatus string

// 订单生命周期状态
const (
	OrderStatusPending        OrderStatus = "pending"          // 待确认
	OrderStatusConfirmed      OrderStatus = "confirmed"        // 已确认
	OrderStatusProcessing     OrderStatus = "processing"       // 备货中
	OrderStatusShipped        OrderStatus = "shipped"          // 已发货
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery" // 派送中
	OrderStatusDelivered      OrderStatus = "delivered"        // 已签收
	OrderStatusFailed         OrderStatus = "failed"           // 派送失败（可重试）
	OrderStatusReturned       OrderStatus = "returned"         // 已退回
	OrderStatusCancelled      OrderStatus = "cancelled"        // 已取消
	OrderStatusRefunded       OrderStatus = "refunded"         // 已退款
)

// Valid 判断是否为已知状态
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusFailed, OrderStatusReturned, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Terminal 判断是否为终态（正常流程不再迁移）
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String 返回状态字符串
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus 收款状态
type PaymentStatus string

// 收款状态（COD 场景下表示快递员实际代收现金的结果）
const (
	PaymentStatusPending  PaymentStatus = "pending"  // 未收款
	PaymentStatusPaid     PaymentStatus = "paid"     // 已收款
	PaymentStatusFailed   PaymentStatus = "failed"   // 收款失败
	PaymentStatusRefunded PaymentStatus = "refunded" // 已退款
)

// Valid 判断是否为已知收款状态
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
