package constants

// 库存流水关联类型常量
const (
	StockRefTypeOrder        = "ORDER"
	StockRefTypeReturn       = "RETURN"
	StockRefTypeCancellation = "CANCELLATION"
	StockRefTypeAdjustment   = "ADJUSTMENT"
)

// 订单历史动作常量
const (
	HistoryActionCreated        = "created"
	HistoryActionConfirmed      = "confirmed"
	HistoryActionProcessing     = "processing"
	HistoryActionShipped        = "shipped"
	HistoryActionOutForDelivery = "out_for_delivery"
	HistoryActionDelivered      = "delivered"
	HistoryActionDeliveryFailed = "delivery_failed"
	HistoryActionReturned       = "returned"
	HistoryActionCancelled      = "cancelled"
	HistoryActionRefunded       = "refunded"
	HistoryActionExpired        = "expired"
)

// 系统操作者常量
const (
	ActorSystem = "system"
)

// 配置键常量
const (
	SettingKeyCostSettings = "cost_settings"
	SettingKeyOrderConfig  = "order_config"
)

// 队列名常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
	QueueLow      = "low"
)

// 异步任务类型常量
const (
	TaskTypeOrderExpire = "order:expire"
)
