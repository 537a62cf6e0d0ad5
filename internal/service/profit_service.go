package service

import (
	"github.com/cod-next/internal/models"

	"github.com/shopspring/decimal"
)

// ProfitService 利润核算服务（按订单当前状态重新推导，不落库）
type ProfitService struct {
	settingService *SettingService
}

// NewProfitService 创建利润核算服务
func NewProfitService(settingService *SettingService) *ProfitService {
	return &ProfitService{settingService: settingService}
}

// ProfitBreakdown 利润拆解结果
type ProfitBreakdown struct {
	OrderID         uint               `json:"order_id"`
	Status          models.OrderStatus `json:"status"`
	TotalAmount     models.Money       `json:"total_amount"`
	COGS            models.Money       `json:"cogs"`
	GrossProfit     models.Money       `json:"gross_profit"`
	ShippingCost    models.Money       `json:"shipping_cost"`
	PackagingCost   models.Money       `json:"packaging_cost"`
	ReturnShipping  models.Money       `json:"return_shipping_cost"`
	ConfirmationFee models.Money       `json:"agent_confirmation_fee"`
	DeliveryFee     models.Money       `json:"agent_delivery_fee"`
	CODFee          models.Money       `json:"cod_collection_fee"`
	OtherFees       models.Money       `json:"other_fixed_fees"`
	TotalDeductions models.Money       `json:"total_deductions"`
	NetProfit       models.Money       `json:"net_profit"`
	MarginPercent   models.Money       `json:"margin_percent"`
	IsProfitable    bool               `json:"is_profitable"`
}

// ComputeProfit 按成本参数计算订单利润拆解
func (s *ProfitService) ComputeProfit(order *models.Order) (*ProfitBreakdown, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	settings, err := s.settingService.GetCostSettings()
	if err != nil {
		return nil, err
	}
	breakdown := ComputeProfit(order, order.Items, settings)
	return breakdown, nil
}

// ComputeProfit 利润核算纯函数：成本随订单推进逐级累加。
// CANCELLED 不计收入也不计物流成本；RETURNED 货值全损，扣减项
// 只剩双程运费。
func ComputeProfit(order *models.Order, items []models.OrderItem, settings models.CostSettings) *ProfitBreakdown {
	breakdown := &ProfitBreakdown{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}

	cogs := decimal.Zero
	for _, item := range items {
		cogs = cogs.Add(item.UnitCost.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	breakdown.COGS = models.NewMoneyFromDecimal(cogs)

	total := order.TotalAmount.Decimal
	gross := total.Sub(cogs)

	shipping := decimal.Zero
	packaging := decimal.Zero
	returnShipping := decimal.Zero
	confirmation := decimal.Zero
	delivery := decimal.Zero
	codFee := decimal.Zero
	other := decimal.Zero

	switch order.Status {
	case models.OrderStatusPending:
		// 尚无人工介入，不产生任何扣减项
	case models.OrderStatusConfirmed, models.OrderStatusProcessing:
		confirmation = settings.AgentConfirmationFee.Decimal
	case models.OrderStatusShipped, models.OrderStatusOutForDelivery, models.OrderStatusFailed:
		confirmation = settings.AgentConfirmationFee.Decimal
		packaging = settings.PackagingCost.Decimal
	case models.OrderStatusDelivered:
		confirmation = settings.AgentConfirmationFee.Decimal
		packaging = settings.PackagingCost.Decimal
		shipping = settings.DefaultShippingCost.Decimal
		delivery = settings.AgentDeliveryFee.Decimal
		other = settings.OtherFixedFees.Decimal
		codFee = total.Mul(settings.CODCollectionFeePercent.Decimal).Div(decimal.NewFromInt(100))
	case models.OrderStatusReturned, models.OrderStatusRefunded:
		// 货值全损：即使曾短暂代收现金，收入也随退款归零
		gross = decimal.Zero.Sub(cogs)
		shipping = settings.DefaultShippingCost.Decimal
		returnShipping = settings.ReturnShippingCost.Decimal
	case models.OrderStatusCancelled:
		// 取消单未发货，无物流成本，收入按零计
		gross = decimal.Zero
		confirmation = settings.AgentConfirmationFee.Decimal
	}

	deductions := shipping.Add(packaging).Add(returnShipping).
		Add(confirmation).Add(delivery).Add(codFee).Add(other)
	net := gross.Sub(deductions)

	breakdown.GrossProfit = models.NewMoneyFromDecimal(gross)
	breakdown.ShippingCost = models.NewMoneyFromDecimal(shipping)
	breakdown.PackagingCost = models.NewMoneyFromDecimal(packaging)
	breakdown.ReturnShipping = models.NewMoneyFromDecimal(returnShipping)
	breakdown.ConfirmationFee = models.NewMoneyFromDecimal(confirmation)
	breakdown.DeliveryFee = models.NewMoneyFromDecimal(delivery)
	breakdown.CODFee = models.NewMoneyFromDecimal(codFee)
	breakdown.OtherFees = models.NewMoneyFromDecimal(other)
	breakdown.TotalDeductions = models.NewMoneyFromDecimal(deductions)
	breakdown.NetProfit = models.NewMoneyFromDecimal(net)
	if total.GreaterThan(decimal.Zero) {
		breakdown.MarginPercent = models.NewMoneyFromDecimal(net.Div(total).Mul(decimal.NewFromInt(100)))
	} else {
		breakdown.MarginPercent = models.NewMoneyFromDecimal(decimal.Zero)
	}
	breakdown.IsProfitable = net.GreaterThan(decimal.Zero)
	return breakdown
}
