package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cod-next/internal/constants"
	"github.com/cod-next/internal/logger"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/queue"
	"github.com/cod-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单状态机服务：Order.status 的唯一写入口。
// 每次迁移在同一事务内完成状态写入、库存联动与历史追加。
type OrderService struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	historyRepo      repository.OrderHistoryRepository
	inventoryService *InventoryService
	settingService   *SettingService
	queueClient      *queue.Client
	expireMinutes    int
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, historyRepo repository.OrderHistoryRepository, inventoryService *InventoryService, settingService *SettingService, queueClient *queue.Client, expireMinutes int) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		historyRepo:      historyRepo,
		inventoryService: inventoryService,
		settingService:   settingService,
		queueClient:      queueClient,
		expireMinutes:    expireMinutes,
	}
}

// allowedTransitions 迁移合法性表：仅表内的 (当前, 目标) 对被放行
var allowedTransitions = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderStatusPending: {
		models.OrderStatusConfirmed: true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusProcessing: true,
		models.OrderStatusShipped:    true,
		models.OrderStatusCancelled:  true,
	},
	models.OrderStatusProcessing: {
		models.OrderStatusShipped:   true,
		models.OrderStatusCancelled: true,
	},
	models.OrderStatusShipped: {
		models.OrderStatusOutForDelivery: true,
		models.OrderStatusDelivered:      true,
		models.OrderStatusFailed:         true,
	},
	models.OrderStatusOutForDelivery: {
		models.OrderStatusDelivered: true,
		models.OrderStatusFailed:    true,
	},
	models.OrderStatusFailed: {
		models.OrderStatusOutForDelivery: true,
		models.OrderStatusReturned:       true,
	},
	models.OrderStatusDelivered: {
		models.OrderStatusReturned: true,
	},
	models.OrderStatusReturned: {
		models.OrderStatusRefunded: true,
	},
}

func isTransitionAllowed(current, target models.OrderStatus) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	City            string
	DeliveryCharges models.Money
	Items           []CreateOrderItem
	CreatedBy       string
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
	Discount  models.Money
	ItemType  string
}

// CreateOrder 创建订单：商品价格与成本按下单时快照，逐项预占库存。
// 任一商品库存不足则整单回滚，不允许部分预占。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" || len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
	}
	if input.DeliveryCharges.Decimal.IsNegative() {
		return nil, ErrInvalidOrderItem
	}

	expireMinutes := s.resolveExpireMinutes()
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireMinutes) * time.Minute)

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		City:            strings.TrimSpace(input.City),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryCharges: input.DeliveryCharges,
		ExpiresAt:       &expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		subtotal := decimal.Zero
		anyTracked := false
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, in := range input.Items {
			product, err := productRepo.GetByID(in.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.IsActive {
				return ErrProductNotFound
			}
			if product.TrackInventory {
				anyTracked = true
			}

			qty := decimal.NewFromInt(int64(in.Quantity))
			lineSubtotal := product.Price.Decimal.Mul(qty)
			lineTotal := lineSubtotal.Sub(in.Discount.Decimal)
			if lineTotal.IsNegative() {
				return ErrInvalidOrderItem
			}
			itemType := strings.TrimSpace(in.ItemType)
			if itemType == "" {
				itemType = models.OrderItemTypeNormal
			}
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Quantity:    in.Quantity,
				UnitPrice:   product.Price,
				UnitCost:    product.Cost,
				Subtotal:    models.NewMoneyFromDecimal(lineSubtotal),
				Discount:    in.Discount,
				Total:       models.NewMoneyFromDecimal(lineTotal),
				ItemType:    itemType,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			subtotal = subtotal.Add(lineTotal)
		}

		order.Subtotal = models.NewMoneyFromDecimal(subtotal)
		order.TotalAmount = models.NewMoneyFromDecimal(subtotal.Add(input.DeliveryCharges.Decimal))
		order.StockReserved = anyTracked

		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		order.Items = items

		for _, item := range order.Items {
			if err := s.inventoryService.Reserve(tx, item.ProductID, item.Quantity, order.ID); err != nil {
				return err
			}
		}

		return s.appendHistory(tx, order.ID, constants.HistoryActionCreated, "", models.OrderStatusPending, "", resolveActor(input.CreatedBy), now)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInvalidOrderItem) {
			return nil, err
		}
		logger.Errorw("order_create_failed", "error", err)
		return nil, ErrOrderCreateFailed
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderExpire(queue.OrderExpirePayload{
			OrderID: order.ID,
		}, time.Duration(expireMinutes)*time.Minute); err != nil {
			logger.Warnw("order_enqueue_expire_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total_amount", order.TotalAmount.String(),
		"stock_reserved", order.StockReserved,
	)
	return order, nil
}

// Confirm 人工确认订单（仅限待确认状态）
func (s *OrderService) Confirm(orderID uint, confirmedBy string) (*models.Order, error) {
	now := time.Now()
	return s.applyTransition(orderID, models.OrderStatusConfirmed, constants.HistoryActionConfirmed, resolveActor(confirmedBy), "", func(order *models.Order, updates map[string]interface{}) error {
		updates["is_confirmed"] = true
		updates["confirmed_by"] = resolveActor(confirmedBy)
		updates["confirmed_at"] = now
		updates["expires_at"] = nil
		return nil
	}, nil)
}

// StartProcessing 进入备货（仅限已确认状态）
func (s *OrderService) StartProcessing(orderID uint, actor string) (*models.Order, error) {
	return s.applyTransition(orderID, models.OrderStatusProcessing, constants.HistoryActionProcessing, resolveActor(actor), "", nil, nil)
}

// Ship 发货：未经人工确认的订单不得交给承运商
func (s *OrderService) Ship(orderID uint, trackingNumber, courier, actor string) (*models.Order, error) {
	now := time.Now()
	return s.applyTransition(orderID, models.OrderStatusShipped, constants.HistoryActionShipped, resolveActor(actor), fmt.Sprintf("运单号 %s（%s）", trackingNumber, courier), func(order *models.Order, updates map[string]interface{}) error {
		if !order.IsConfirmed {
			return ErrShipUnconfirmed
		}
		updates["tracking_number"] = strings.TrimSpace(trackingNumber)
		updates["courier"] = strings.TrimSpace(courier)
		updates["shipped_at"] = now
		return nil
	}, nil)
}

// MarkOutForDelivery 开始派送（发货后或派送失败后重试）
func (s *OrderService) MarkOutForDelivery(orderID uint, actor string) (*models.Order, error) {
	now := time.Now()
	return s.applyTransition(orderID, models.OrderStatusOutForDelivery, constants.HistoryActionOutForDelivery, resolveActor(actor), "", func(order *models.Order, updates map[string]interface{}) error {
		updates["out_for_delivery_at"] = now
		updates["delivery_attempts"] = order.DeliveryAttempts + 1
		return nil
	}, nil)
}

// DeliverInput 派送结果输入
type DeliverInput struct {
	Success       bool
	CashCollected *models.Money
	FailureReason string
	Actor         string
}

// Deliver 记录派送结果。成功时记录代收现金（缺省按应收总额），
// 失败时仅记录原因，货仍在承运商手中，不做库存回补。
func (s *OrderService) Deliver(orderID uint, input DeliverInput) (*models.Order, error) {
	now := time.Now()
	actor := resolveActor(input.Actor)

	if !input.Success {
		return s.applyTransition(orderID, models.OrderStatusFailed, constants.HistoryActionDeliveryFailed, actor, strings.TrimSpace(input.FailureReason), func(order *models.Order, updates map[string]interface{}) error {
			updates["failure_reason"] = strings.TrimSpace(input.FailureReason)
			updates["payment_status"] = models.PaymentStatusFailed
			return nil
		}, nil)
	}

	if input.CashCollected != nil && input.CashCollected.Decimal.IsNegative() {
		return nil, ErrInvalidCashAmount
	}
	return s.applyTransition(orderID, models.OrderStatusDelivered, constants.HistoryActionDelivered, actor, "", func(order *models.Order, updates map[string]interface{}) error {
		cash := order.TotalAmount
		if input.CashCollected != nil {
			cash = *input.CashCollected
		}
		updates["payment_status"] = models.PaymentStatusPaid
		updates["payment_collected"] = true
		updates["cash_collected"] = cash
		updates["delivered_at"] = now
		return nil
	}, nil)
}

// Return 退货：签收后或派送失败后退回仓库，触发库存回补。
// 已代收现金的订单收款状态转为待退款链路（refunded），
// 未代收的回到 pending。
func (s *OrderService) Return(orderID uint, reason, actor string) (*models.Order, error) {
	now := time.Now()
	return s.applyTransition(orderID, models.OrderStatusReturned, constants.HistoryActionReturned, resolveActor(actor), strings.TrimSpace(reason), func(order *models.Order, updates map[string]interface{}) error {
		updates["is_returned"] = true
		updates["return_reason"] = strings.TrimSpace(reason)
		updates["returned_at"] = now
		if order.PaymentCollected {
			updates["payment_status"] = models.PaymentStatusRefunded
		} else {
			updates["payment_status"] = models.PaymentStatusPending
		}
		return nil
	}, func(tx *gorm.DB, order *models.Order, updates map[string]interface{}) error {
		return s.releaseOrderStock(tx, order, updates, constants.StockRefTypeReturn, "退货入库")
	})
}

// Cancel 取消订单（仅限发货前），已预占的库存全部回补
func (s *OrderService) Cancel(orderID uint, reason, actor string) (*models.Order, error) {
	return s.cancel(orderID, reason, resolveActor(actor), constants.HistoryActionCancelled)
}

// CancelExpiredOrder 待确认超时自动取消（由队列触发）。
// 订单已不在待确认状态时静默跳过。
func (s *OrderService) CancelExpiredOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return order, nil
	}
	if order.ExpiresAt == nil || order.ExpiresAt.After(time.Now()) {
		return order, nil
	}
	return s.cancel(orderID, "订单超时未确认", constants.ActorSystem, constants.HistoryActionExpired)
}

func (s *OrderService) cancel(orderID uint, reason, actor, action string) (*models.Order, error) {
	now := time.Now()
	return s.applyTransition(orderID, models.OrderStatusCancelled, action, actor, strings.TrimSpace(reason), func(order *models.Order, updates map[string]interface{}) error {
		updates["cancel_reason"] = strings.TrimSpace(reason)
		updates["cancelled_at"] = now
		return nil
	}, func(tx *gorm.DB, order *models.Order, updates map[string]interface{}) error {
		return s.releaseOrderStock(tx, order, updates, constants.StockRefTypeCancellation, "取消回补")
	})
}

// Refund 退款：仅限已退回的订单，收款状态终结为已退款
func (s *OrderService) Refund(orderID uint, notes, actor string) (*models.Order, error) {
	now := time.Now()
	return s.applyTransition(orderID, models.OrderStatusRefunded, constants.HistoryActionRefunded, resolveActor(actor), strings.TrimSpace(notes), func(order *models.Order, updates map[string]interface{}) error {
		updates["payment_status"] = models.PaymentStatusRefunded
		updates["refunded_at"] = now
		return nil
	}, nil)
}

// applyTransition 在一个事务内执行状态迁移：加行锁校验合法性，
// 写入状态与附加字段，执行库存联动，追加一行历史。任一步失败
// 整体回滚。
func (s *OrderService) applyTransition(
	orderID uint,
	target models.OrderStatus,
	action, actor, notes string,
	mutate func(order *models.Order, updates map[string]interface{}) error,
	sideEffect func(tx *gorm.DB, order *models.Order, updates map[string]interface{}) error,
) (*models.Order, error) {
	var result *models.Order
	now := time.Now()

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !isTransitionAllowed(order.Status, target) {
			return ErrInvalidTransition
		}

		updates := map[string]interface{}{
			"updated_at": now,
		}
		if mutate != nil {
			if err := mutate(order, updates); err != nil {
				return err
			}
		}
		if sideEffect != nil {
			if err := sideEffect(tx, order, updates); err != nil {
				return err
			}
		}
		oldStatus := order.Status
		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return err
		}
		if err := s.appendHistory(tx, order.ID, action, oldStatus, target, notes, actor, now); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound),
			errors.Is(err, ErrInvalidTransition),
			errors.Is(err, ErrShipUnconfirmed),
			errors.Is(err, ErrDoubleRelease),
			errors.Is(err, ErrInvalidCashAmount):
			return nil, err
		}
		logger.Errorw("order_transition_failed",
			"order_id", orderID,
			"target_status", target.String(),
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	logger.Infow("order_transition_applied",
		"order_id", result.ID,
		"order_no", result.OrderNo,
		"old_status", result.Status.String(),
		"new_status", target.String(),
		"action", action,
		"performed_by", actor,
	)

	full, err := s.orderRepo.GetByID(orderID)
	if err == nil && full != nil {
		return full, nil
	}
	result.Status = target
	result.UpdatedAt = now
	return result, nil
}

// releaseOrderStock 回补订单全部订单项的库存。仅当下单时确实
// 预占过且尚未释放时执行；重复释放由 stock_released 标记拦截。
// 同一商品的多行订单项（如加购行）合并数量后释放一次。
func (s *OrderService) releaseOrderStock(tx *gorm.DB, order *models.Order, updates map[string]interface{}, referenceType, reason string) error {
	if !order.StockReserved || order.StockReleased {
		return nil
	}
	quantities := make(map[uint]int, len(order.Items))
	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		if _, seen := quantities[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}
	for _, productID := range productIDs {
		if err := s.inventoryService.Release(tx, productID, quantities[productID], order.ID, referenceType, reason); err != nil {
			return err
		}
	}
	updates["stock_released"] = true
	return nil
}

func (s *OrderService) appendHistory(tx *gorm.DB, orderID uint, action string, oldStatus, newStatus models.OrderStatus, notes, actor string, now time.Time) error {
	return s.historyRepo.WithTx(tx).Create(&models.OrderHistory{
		OrderID:     orderID,
		Action:      action,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Notes:       notes,
		PerformedBy: actor,
		CreatedAt:   now,
	})
}

// GetOrder 获取订单详情（含订单项与历史）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNo 按订单号获取订单详情
func (s *OrderService) GetOrderByNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 管理端订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// GetOrderHistory 获取订单操作日志
func (s *OrderService) GetOrderHistory(orderID uint) ([]models.OrderHistory, error) {
	return s.historyRepo.ListByOrder(orderID)
}

func (s *OrderService) resolveExpireMinutes() int {
	minutes := s.expireMinutes
	if minutes <= 0 {
		minutes = 1440
	}
	resolved, err := s.settingService.GetOrderExpireMinutes(minutes)
	if err != nil {
		logger.Warnw("order_expire_minutes_resolve_failed", "error", err)
		return minutes
	}
	return resolved
}

func resolveActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return constants.ActorSystem
	}
	return actor
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("COD%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
