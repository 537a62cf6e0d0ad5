package models

// CostSettings 成本参数（单行配置，作为依赖注入利润核算引擎，核心层只读）
type CostSettings struct {
	DefaultShippingCost     Money `json:"default_shipping_cost"`     // 默认运费（去程）
	PackagingCost           Money `json:"packaging_cost"`            // 包装成本
	ReturnShippingCost      Money `json:"return_shipping_cost"`      // 退货运费（回程）
	AgentConfirmationFee    Money `json:"agent_confirmation_fee"`    // 客服确认费
	AgentDeliveryFee        Money `json:"agent_delivery_fee"`        // 派送佣金
	CODCollectionFeePercent Money `json:"cod_collection_fee_percent"` // 代收手续费百分比
	OtherFixedFees          Money `json:"other_fixed_fees"`          // 其他固定费用
}
