package repository

import (
	"github.com/cod-next/internal/models"

	"gorm.io/gorm"
)

// OrderHistoryRepository 订单历史数据访问接口
type OrderHistoryRepository interface {
	Create(entry *models.OrderHistory) error
	ListByOrder(orderID uint) ([]models.OrderHistory, error)
	List(filter OrderHistoryListFilter) ([]models.OrderHistory, int64, error)
	WithTx(tx *gorm.DB) *GormOrderHistoryRepository
}

// GormOrderHistoryRepository GORM 实现
type GormOrderHistoryRepository struct {
	db *gorm.DB
}

// NewOrderHistoryRepository 创建订单历史仓库
func NewOrderHistoryRepository(db *gorm.DB) *GormOrderHistoryRepository {
	return &GormOrderHistoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderHistoryRepository) WithTx(tx *gorm.DB) *GormOrderHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderHistoryRepository{db: tx}
}

// Create 追加订单历史（只增不改）
func (r *GormOrderHistoryRepository) Create(entry *models.OrderHistory) error {
	return r.db.Create(entry).Error
}

// ListByOrder 按时间顺序获取订单全部历史
func (r *GormOrderHistoryRepository) ListByOrder(orderID uint) ([]models.OrderHistory, error) {
	var entries []models.OrderHistory
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// List 订单历史列表
func (r *GormOrderHistoryRepository) List(filter OrderHistoryListFilter) ([]models.OrderHistory, int64, error) {
	var entries []models.OrderHistory
	query := r.db.Model(&models.OrderHistory{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.PerformedBy != "" {
		query = query.Where("performed_by = ?", filter.PerformedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
