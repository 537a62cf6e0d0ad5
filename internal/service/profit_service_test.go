package service

import (
	"testing"

	"github.com/cod-next/internal/models"

	"github.com/shopspring/decimal"
)

func testCostSettings() models.CostSettings {
	return models.CostSettings{
		DefaultShippingCost:     models.NewMoneyFromInt(35),
		PackagingCost:           models.NewMoneyFromInt(3),
		ReturnShippingCost:      models.NewMoneyFromInt(35),
		AgentConfirmationFee:    models.NewMoneyFromInt(5),
		AgentDeliveryFee:        models.NewMoneyFromInt(10),
		CODCollectionFeePercent: models.NewMoneyFromDecimal(decimal.Zero),
		OtherFixedFees:          models.NewMoneyFromDecimal(decimal.Zero),
	}
}

func testProfitOrder(status models.OrderStatus) (*models.Order, []models.OrderItem) {
	order := &models.Order{
		ID:          1,
		Status:      status,
		TotalAmount: models.NewMoneyFromInt(220),
	}
	items := []models.OrderItem{
		{
			ProductID: 1,
			Quantity:  1,
			UnitCost:  models.NewMoneyFromInt(80),
		},
	}
	return order, items
}

func assertMoney(t *testing.T, name string, got models.Money, want int64) {
	t.Helper()
	if !got.Decimal.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("%s want %d got %s", name, want, got.String())
	}
}

func TestComputeProfitPendingHasNoDeductions(t *testing.T) {
	order, items := testProfitOrder(models.OrderStatusPending)
	got := ComputeProfit(order, items, testCostSettings())

	assertMoney(t, "cogs", got.COGS, 80)
	assertMoney(t, "gross_profit", got.GrossProfit, 140)
	assertMoney(t, "total_deductions", got.TotalDeductions, 0)
	assertMoney(t, "net_profit", got.NetProfit, 140)
	if !got.IsProfitable {
		t.Fatalf("pending order with positive margin should be profitable")
	}
}

func TestComputeProfitConfirmedChargesConfirmationFee(t *testing.T) {
	order, items := testProfitOrder(models.OrderStatusConfirmed)
	got := ComputeProfit(order, items, testCostSettings())

	assertMoney(t, "total_deductions", got.TotalDeductions, 5)
	assertMoney(t, "net_profit", got.NetProfit, 135)
}

func TestComputeProfitShippedAddsPackaging(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.OrderStatusShipped,
		models.OrderStatusOutForDelivery,
		models.OrderStatusFailed,
	} {
		order, items := testProfitOrder(status)
		got := ComputeProfit(order, items, testCostSettings())

		assertMoney(t, "confirmation_fee", got.ConfirmationFee, 5)
		assertMoney(t, "packaging_cost", got.PackagingCost, 3)
		assertMoney(t, "total_deductions", got.TotalDeductions, 8)
		assertMoney(t, "net_profit", got.NetProfit, 132)
	}
}

func TestComputeProfitDelivered(t *testing.T) {
	order, items := testProfitOrder(models.OrderStatusDelivered)
	got := ComputeProfit(order, items, testCostSettings())

	assertMoney(t, "cogs", got.COGS, 80)
	assertMoney(t, "gross_profit", got.GrossProfit, 140)
	assertMoney(t, "shipping_cost", got.ShippingCost, 35)
	assertMoney(t, "packaging_cost", got.PackagingCost, 3)
	assertMoney(t, "confirmation_fee", got.ConfirmationFee, 5)
	assertMoney(t, "delivery_fee", got.DeliveryFee, 10)
	assertMoney(t, "total_deductions", got.TotalDeductions, 53)
	assertMoney(t, "net_profit", got.NetProfit, 87)
	if !got.IsProfitable {
		t.Fatalf("delivered order should be profitable")
	}
}

func TestComputeProfitDeliveredWithCODFeePercent(t *testing.T) {
	settings := testCostSettings()
	settings.CODCollectionFeePercent = models.NewMoneyFromInt(2)

	order, items := testProfitOrder(models.OrderStatusDelivered)
	got := ComputeProfit(order, items, settings)

	// 220 * 2% = 4.40
	if !got.CODFee.Decimal.Equal(decimal.RequireFromString("4.4")) {
		t.Fatalf("cod_fee want 4.40 got %s", got.CODFee.String())
	}
	if !got.TotalDeductions.Decimal.Equal(decimal.RequireFromString("57.4")) {
		t.Fatalf("total_deductions want 57.40 got %s", got.TotalDeductions.String())
	}
}

func TestComputeProfitReturnedLosesGoodsValue(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.OrderStatusReturned,
		models.OrderStatusRefunded,
	} {
		order, items := testProfitOrder(status)
		got := ComputeProfit(order, items, testCostSettings())

		assertMoney(t, "gross_profit", got.GrossProfit, -80)
		assertMoney(t, "shipping_cost", got.ShippingCost, 35)
		assertMoney(t, "return_shipping_cost", got.ReturnShipping, 35)
		assertMoney(t, "confirmation_fee", got.ConfirmationFee, 0)
		assertMoney(t, "packaging_cost", got.PackagingCost, 0)
		assertMoney(t, "total_deductions", got.TotalDeductions, 70)
		assertMoney(t, "net_profit", got.NetProfit, -150)
		if got.IsProfitable {
			t.Fatalf("returned order should not be profitable")
		}
	}
}

func TestComputeProfitCancelledKeepsConfirmationFeeOnly(t *testing.T) {
	order, items := testProfitOrder(models.OrderStatusCancelled)
	got := ComputeProfit(order, items, testCostSettings())

	assertMoney(t, "gross_profit", got.GrossProfit, 0)
	assertMoney(t, "total_deductions", got.TotalDeductions, 5)
	assertMoney(t, "net_profit", got.NetProfit, -5)
}

func TestComputeProfitMultipleItems(t *testing.T) {
	order := &models.Order{
		ID:          2,
		Status:      models.OrderStatusDelivered,
		TotalAmount: models.NewMoneyFromInt(500),
	}
	items := []models.OrderItem{
		{ProductID: 1, Quantity: 2, UnitCost: models.NewMoneyFromInt(80)},
		{ProductID: 2, Quantity: 3, UnitCost: models.NewMoneyFromInt(20)},
	}
	got := ComputeProfit(order, items, testCostSettings())

	assertMoney(t, "cogs", got.COGS, 220)
	assertMoney(t, "gross_profit", got.GrossProfit, 280)
	assertMoney(t, "net_profit", got.NetProfit, 227)
}

func TestComputeProfitZeroTotalHasZeroMargin(t *testing.T) {
	order := &models.Order{
		ID:          3,
		Status:      models.OrderStatusCancelled,
		TotalAmount: models.NewMoneyFromDecimal(decimal.Zero),
	}
	got := ComputeProfit(order, nil, testCostSettings())

	if !got.MarginPercent.Decimal.Equal(decimal.Zero) {
		t.Fatalf("margin_percent want 0 got %s", got.MarginPercent.String())
	}
}
