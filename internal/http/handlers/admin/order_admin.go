package admin

import (
	"errors"
	"time"

	"github.com/cod-next/internal/http/response"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"
	"github.com/cod-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderItemRequest 创建订单项请求
type CreateOrderItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	Quantity  int          `json:"quantity" binding:"required"`
	Discount  models.Money `json:"discount"`
	ItemType  string       `json:"item_type"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerName    string                   `json:"customer_name" binding:"required"`
	CustomerPhone   string                   `json:"customer_phone" binding:"required"`
	ShippingAddress string                   `json:"shipping_address" binding:"required"`
	City            string                   `json:"city"`
	DeliveryCharges models.Money             `json:"delivery_charges"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1"`
}

// AdminCreateOrder 手工录单
func (h *Handler) AdminCreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	input := service.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		DeliveryCharges: req.DeliveryCharges,
		CreatedBy:       c.GetString("username"),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
			ItemType:  item.ItemType,
		})
	}

	order, err := h.OrderService.CreateOrder(input)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminListOrders 订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := getPagination(c)
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        models.OrderStatus(c.Query("status")),
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		OrderNo:       c.Query("order_no"),
		CustomerPhone: c.Query("customer_phone"),
		City:          c.Query("city")}
	if from, ok := parseQueryTime(c.Query("created_from")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseQueryTime(c.Query("created_to")); ok {
		filter.CreatedTo = &to
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询订单失败", err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminGetOrderByNo 按单号查询订单
func (h *Handler) AdminGetOrderByNo(c *gin.Context) {
	orderNo := c.Param("order_no")
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "无效的订单号", nil)
		return
	}

	order, err := h.OrderService.GetOrderByNo(orderNo)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminConfirmOrder 电话确认订单
func (h *Handler) AdminConfirmOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.Confirm(id, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminProcessOrder 进入拣货打包
func (h *Handler) AdminProcessOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.StartProcessing(id, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// ShipOrderRequest 发货请求
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number"`
	Courier        string `json:"courier"`
}

// AdminShipOrder 发货交接承运商
func (h *Handler) AdminShipOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.Ship(id, req.TrackingNumber, req.Courier, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminMarkOutForDelivery 标记派送中
func (h *Handler) AdminMarkOutForDelivery(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.MarkOutForDelivery(id, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// DeliverOrderRequest 派送结果请求
type DeliverOrderRequest struct {
	Success       bool          `json:"success"`
	CashCollected *models.Money `json:"cash_collected"`
	FailureReason string        `json:"failure_reason"`
}

// AdminDeliverOrder 记录派送结果：成功收款或派送失败
func (h *Handler) AdminDeliverOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req DeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.Deliver(id, service.DeliverInput{
		Success:       req.Success,
		CashCollected: req.CashCollected,
		FailureReason: req.FailureReason,
		Actor:         c.GetString("username"),
	})
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// ReturnOrderRequest 退货请求
type ReturnOrderRequest struct {
	Reason string `json:"reason"`
}

// AdminReturnOrder 登记退货
func (h *Handler) AdminReturnOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req ReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.Return(id, req.Reason, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// AdminCancelOrder 取消订单
func (h *Handler) AdminCancelOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.Cancel(id, req.Reason, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// RefundOrderRequest 退款请求
type RefundOrderRequest struct {
	Notes string `json:"notes"`
}

// AdminRefundOrder 退货后退款
func (h *Handler) AdminRefundOrder(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req RefundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.Refund(id, req.Notes, c.GetString("username"))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, order)
}

// AdminGetOrderHistory 订单操作历史
func (h *Handler) AdminGetOrderHistory(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	history, err := h.OrderService.GetOrderHistory(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	response.Success(c, history)
}

// AdminGetOrderProfit 订单利润核算
func (h *Handler) AdminGetOrderProfit(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	breakdown, err := h.ProfitService.ComputeProfit(order)
	if err != nil {
		respondError(c, response.CodeInternal, "利润核算失败", err)
		return
	}

	response.Success(c, breakdown)
}

// respondOrderError 将订单服务错误映射为统一响应。
func (h *Handler) respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "订单不存在", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "商品不存在或已下架", nil)
	case errors.Is(err, service.ErrInvalidOrderItem):
		respondError(c, response.CodeBadRequest, "订单明细不合法", nil)
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, response.CodeBadRequest, "库存不足", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, response.CodeBadRequest, "当前状态不允许该操作", nil)
	case errors.Is(err, service.ErrShipUnconfirmed):
		respondError(c, response.CodeBadRequest, "订单未经电话确认，不能发货", nil)
	case errors.Is(err, service.ErrInvalidCashAmount):
		respondError(c, response.CodeBadRequest, "代收金额不合法", nil)
	default:
		respondError(c, response.CodeInternal, "订单操作失败", err)
	}
}

func parseQueryTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
