package admin

import (
	"errors"
	"strconv"

	"github.com/cod-next/internal/http/response"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"
	"github.com/cod-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 创建/更新商品请求。
// track_inventory / is_active 不传时默认 true。
type ProductRequest struct {
	SKU            string       `json:"sku" binding:"required"`
	Name           string       `json:"name" binding:"required"`
	Price          models.Money `json:"price"`
	Cost           models.Money `json:"cost"`
	StockQuantity  *int         `json:"stock_quantity"`
	TrackInventory *bool        `json:"track_inventory"`
	AllowBackorder bool         `json:"allow_backorder"`
	IsActive       *bool        `json:"is_active"`
}

func (r *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		SKU:            r.SKU,
		Name:           r.Name,
		Price:          r.Price,
		Cost:           r.Cost,
		StockQuantity:  r.StockQuantity,
		TrackInventory: boolOrDefault(r.TrackInventory, true),
		AllowBackorder: r.AllowBackorder,
		IsActive:       boolOrDefault(r.IsActive, true),
	}
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// GetAdminProducts 商品列表
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := getPagination(c)
	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		OnlyActive: c.Query("only_active") == "true",
	}
	if raw := c.Query("low_stock"); raw != "" {
		if threshold, err := strconv.Atoi(raw); err == nil {
			filter.LowStock = &threshold
		}
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询商品失败", err)
		return
	}

	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	product, err := h.ProductService.Get(id)
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		h.respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		h.respondProductError(c, err)
		return
	}

	response.Success(c, nil)
}

// AdjustStockRequest 手工调整库存请求
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdjustProductStock 手工调整库存（盘点修正等）
func (h *Handler) AdjustProductStock(c *gin.Context) {
	id, ok := getPathID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, err := h.InventoryService.Adjust(id, req.Delta, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStockParams) {
			respondError(c, response.CodeBadRequest, "库存调整参数不合法", nil)
			return
		}
		h.respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// GetStockMovements 库存流水
func (h *Handler) GetStockMovements(c *gin.Context) {
	page, pageSize := getPagination(c)
	filter := repository.StockMovementListFilter{
		Page:          page,
		PageSize:      pageSize,
		ReferenceType: c.Query("reference_type"),
	}
	if raw := c.Query("product_id"); raw != "" {
		if productID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ProductID = uint(productID)
		}
	}
	if raw := c.Query("reference_id"); raw != "" {
		if referenceID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ReferenceID = uint(referenceID)
		}
	}
	if from, ok := parseQueryTime(c.Query("created_from")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseQueryTime(c.Query("created_to")); ok {
		filter.CreatedTo = &to
	}

	movements, total, err := h.InventoryService.GetMovementHistory(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询库存流水失败", err)
		return
	}

	response.SuccessWithPage(c, movements, response.NewPagination(page, pageSize, total))
}

func (h *Handler) respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "商品不存在", nil)
	case errors.Is(err, service.ErrProductSKUExists):
		respondError(c, response.CodeBadRequest, "SKU 已存在", nil)
	default:
		respondError(c, response.CodeInternal, "商品操作失败", err)
	}
}
