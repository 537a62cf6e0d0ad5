package repository

import (
	"github.com/cod-next/internal/models"

	"gorm.io/gorm"
)

// StockMovementRepository 库存流水数据访问接口
type StockMovementRepository interface {
	Create(movement *models.StockMovement) error
	List(filter StockMovementListFilter) ([]models.StockMovement, int64, error)
	Exists(productID uint, referenceType string, referenceID uint) (bool, error)
	SumDelta(productID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormStockMovementRepository
}

// GormStockMovementRepository GORM 实现
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository 创建库存流水仓库
func NewStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStockMovementRepository) WithTx(tx *gorm.DB) *GormStockMovementRepository {
	if tx == nil {
		return r
	}
	return &GormStockMovementRepository{db: tx}
}

// Create 追加库存流水（只增不改）
func (r *GormStockMovementRepository) Create(movement *models.StockMovement) error {
	return r.db.Create(movement).Error
}

// List 库存流水列表
func (r *GormStockMovementRepository) List(filter StockMovementListFilter) ([]models.StockMovement, int64, error) {
	var movements []models.StockMovement
	query := r.db.Model(&models.StockMovement{})

	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.ReferenceID != 0 {
		query = query.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// Exists 判断是否已存在指定关联的流水
func (r *GormStockMovementRepository) Exists(productID uint, referenceType string, referenceID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.StockMovement{}).
		Where("product_id = ? AND reference_type = ? AND reference_id = ?", productID, referenceType, referenceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumDelta 汇总某商品的流水净变动
func (r *GormStockMovementRepository) SumDelta(productID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.StockMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
