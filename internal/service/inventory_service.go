package service

import (
	"time"

	"github.com/cod-next/internal/constants"
	"github.com/cod-next/internal/logger"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存台账服务：stock_quantity 的唯一写入口，
// 每次变动同事务追加一条 StockMovement 流水。
type InventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewInventoryService 创建库存台账服务
func NewInventoryService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// Reserve 预占库存（须在事务内调用）。
// 未跟踪库存的商品直接成功且不产生流水；跟踪库存且不允许
// 超卖时，库存不足返回 ErrInsufficientStock。
func (s *InventoryService) Reserve(tx *gorm.DB, productID uint, quantity int, orderID uint) error {
	if productID == 0 || quantity <= 0 {
		return ErrInvalidStockParams
	}
	productRepo := s.productRepo.WithTx(tx)
	product, err := productRepo.GetByIDForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.TrackInventory {
		return nil
	}
	if !product.AllowBackorder && quantity > product.StockQuantity {
		return ErrInsufficientStock
	}

	newStock := product.StockQuantity - quantity
	if err := productRepo.UpdateStock(productID, newStock); err != nil {
		return err
	}
	movement := &models.StockMovement{
		ProductID:     productID,
		Delta:         -quantity,
		PreviousStock: product.StockQuantity,
		NewStock:      newStock,
		ReferenceType: constants.StockRefTypeOrder,
		ReferenceID:   orderID,
		Reason:        "订单预占",
		CreatedAt:     time.Now(),
	}
	return s.movementRepo.WithTx(tx).Create(movement)
}

// Release 释放库存（须在事务内调用）。退货物理入库，不设上限；
// 同一订单同一商品的重复释放由状态机把关，这里再作兜底拦截。
func (s *InventoryService) Release(tx *gorm.DB, productID uint, quantity int, orderID uint, referenceType, reason string) error {
	if productID == 0 || quantity <= 0 {
		return ErrInvalidStockParams
	}
	if referenceType != constants.StockRefTypeReturn && referenceType != constants.StockRefTypeCancellation {
		return ErrInvalidStockParams
	}
	movementRepo := s.movementRepo.WithTx(tx)
	released, err := movementRepo.Exists(productID, referenceType, orderID)
	if err != nil {
		return err
	}
	if released {
		logger.Errorw("stock_double_release_rejected",
			"product_id", productID,
			"order_id", orderID,
			"reference_type", referenceType,
		)
		return ErrDoubleRelease
	}

	productRepo := s.productRepo.WithTx(tx)
	product, err := productRepo.GetByIDForUpdate(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.TrackInventory {
		return nil
	}

	newStock := product.StockQuantity + quantity
	if err := productRepo.UpdateStock(productID, newStock); err != nil {
		return err
	}
	movement := &models.StockMovement{
		ProductID:     productID,
		Delta:         quantity,
		PreviousStock: product.StockQuantity,
		NewStock:      newStock,
		ReferenceType: referenceType,
		ReferenceID:   orderID,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	return movementRepo.Create(movement)
}

// Adjust 管理端手工调整库存
func (s *InventoryService) Adjust(productID uint, delta int, reason string) (*models.Product, error) {
	if productID == 0 || delta == 0 {
		return nil, ErrInvalidStockParams
	}
	var product *models.Product
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		locked, err := productRepo.GetByIDForUpdate(productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrProductNotFound
		}
		newStock := locked.StockQuantity + delta
		if err := productRepo.UpdateStock(productID, newStock); err != nil {
			return err
		}
		movement := &models.StockMovement{
			ProductID:     productID,
			Delta:         delta,
			PreviousStock: locked.StockQuantity,
			NewStock:      newStock,
			ReferenceType: constants.StockRefTypeAdjustment,
			ReferenceID:   0,
			Reason:        reason,
			CreatedAt:     time.Now(),
		}
		if err := s.movementRepo.WithTx(tx).Create(movement); err != nil {
			return err
		}
		locked.StockQuantity = newStock
		product = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("stock_adjusted",
		"product_id", productID,
		"delta", delta,
		"new_stock", product.StockQuantity,
		"reason", reason,
	)
	return product, nil
}

// GetMovementHistory 获取商品库存流水（按时间倒序）
func (s *InventoryService) GetMovementHistory(filter repository.StockMovementListFilter) ([]models.StockMovement, int64, error) {
	return s.movementRepo.List(filter)
}
