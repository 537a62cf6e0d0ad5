package service

import (
	"strings"

	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	SKU            string
	Name           string
	Price          models.Money
	Cost           models.Money
	StockQuantity  *int
	TrackInventory bool
	AllowBackorder bool
	IsActive       bool
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get 获取商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, ErrInvalidStockParams
	}
	if input.Price.Decimal.IsNegative() || input.Cost.Decimal.IsNegative() {
		return nil, ErrSettingInvalid
	}
	count, err := s.productRepo.CountBySKU(sku, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductSKUExists
	}

	product := &models.Product{
		SKU:            sku,
		Name:           name,
		Price:          input.Price,
		Cost:           input.Cost,
		TrackInventory: input.TrackInventory,
		AllowBackorder: input.AllowBackorder,
		IsActive:       input.IsActive,
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品（库存数量不在此处修改，必须走库存台账）
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, ErrInvalidStockParams
	}
	if sku != product.SKU {
		count, err := s.productRepo.CountBySKU(sku, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrProductSKUExists
		}
	}

	product.SKU = sku
	product.Name = name
	product.Price = input.Price
	product.Cost = input.Cost
	product.TrackInventory = input.TrackInventory
	product.AllowBackorder = input.AllowBackorder
	product.IsActive = input.IsActive
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 下架并软删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}
