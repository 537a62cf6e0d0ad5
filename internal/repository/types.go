package repository

import (
	"time"

	"github.com/cod-next/internal/models"
)

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	OrderNo       string
	CustomerPhone string
	City          string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
	LowStock   *int
}

// StockMovementListFilter 查询库存流水的过滤条件
type StockMovementListFilter struct {
	Page          int
	PageSize      int
	ProductID     uint
	ReferenceType string
	ReferenceID   uint
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// OrderHistoryListFilter 查询订单历史的过滤条件
type OrderHistoryListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Action      string
	PerformedBy string
}
