package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cod-next/internal/constants"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newInventoryTestService(t *testing.T, name string) (*InventoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.StockMovement{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	return NewInventoryService(productRepo, movementRepo), db
}

func createTestProduct(t *testing.T, db *gorm.DB, sku string, stock int, track, backorder bool) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:            sku,
		Name:           "测试商品",
		Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Cost:           models.NewMoneyFromDecimal(decimal.NewFromInt(40)),
		StockQuantity:  stock,
		TrackInventory: track,
		AllowBackorder: backorder,
		IsActive:       true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestInventoryReserveWritesMovement(t *testing.T) {
	svc, db := newInventoryTestService(t, "reserve")
	product := createTestProduct(t, db, "SKU-R1", 10, true, false)

	if err := svc.Reserve(db, product.ID, 3, 100); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 7 {
		t.Fatalf("stock want 7 got %d", reloaded.StockQuantity)
	}

	var movement models.StockMovement
	if err := db.Where("product_id = ?", product.ID).First(&movement).Error; err != nil {
		t.Fatalf("load movement failed: %v", err)
	}
	if movement.Delta != -3 || movement.PreviousStock != 10 || movement.NewStock != 7 {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if movement.ReferenceType != constants.StockRefTypeOrder || movement.ReferenceID != 100 {
		t.Fatalf("unexpected movement reference: %+v", movement)
	}
}

func TestInventoryReserveUntrackedProductSkipsLedger(t *testing.T) {
	svc, db := newInventoryTestService(t, "untracked")
	product := createTestProduct(t, db, "SKU-U1", 0, false, false)

	if err := svc.Reserve(db, product.ID, 5, 101); err != nil {
		t.Fatalf("reserve untracked failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.StockMovement{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("untracked product should not produce movements, got %d", count)
	}
}

func TestInventoryReserveInsufficientStock(t *testing.T) {
	svc, db := newInventoryTestService(t, "insufficient")
	product := createTestProduct(t, db, "SKU-I1", 2, true, false)

	err := svc.Reserve(db, product.ID, 3, 102)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 2 {
		t.Fatalf("stock should be unchanged, got %d", reloaded.StockQuantity)
	}
}

func TestInventoryReserveBackorderAllowsNegativeStock(t *testing.T) {
	svc, db := newInventoryTestService(t, "backorder")
	product := createTestProduct(t, db, "SKU-B1", 1, true, true)

	if err := svc.Reserve(db, product.ID, 4, 103); err != nil {
		t.Fatalf("backorder reserve failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != -3 {
		t.Fatalf("stock want -3 got %d", reloaded.StockQuantity)
	}
}

func TestInventoryReleaseRestoresStock(t *testing.T) {
	svc, db := newInventoryTestService(t, "release")
	product := createTestProduct(t, db, "SKU-L1", 10, true, false)

	if err := svc.Reserve(db, product.ID, 4, 104); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := svc.Release(db, product.ID, 4, 104, constants.StockRefTypeReturn, "退货入库"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 10 {
		t.Fatalf("stock want 10 got %d", reloaded.StockQuantity)
	}

	// 预占与回补相抵，流水净变动应为零
	sum, err := repository.NewStockMovementRepository(db).SumDelta(product.ID)
	if err != nil {
		t.Fatalf("sum delta failed: %v", err)
	}
	if sum != 0 {
		t.Fatalf("movement delta sum want 0 got %d", sum)
	}
}

func TestInventoryReleaseRejectsDoubleRelease(t *testing.T) {
	svc, db := newInventoryTestService(t, "double")
	product := createTestProduct(t, db, "SKU-D1", 10, true, false)

	if err := svc.Release(db, product.ID, 2, 105, constants.StockRefTypeCancellation, "取消回补"); err != nil {
		t.Fatalf("first release failed: %v", err)
	}
	err := svc.Release(db, product.ID, 2, 105, constants.StockRefTypeCancellation, "取消回补")
	if !errors.Is(err, ErrDoubleRelease) {
		t.Fatalf("expected double release rejection, got: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 12 {
		t.Fatalf("stock want 12 got %d", reloaded.StockQuantity)
	}
}

func TestInventoryReleaseRejectsInvalidReferenceType(t *testing.T) {
	svc, db := newInventoryTestService(t, "refkind")
	product := createTestProduct(t, db, "SKU-K1", 10, true, false)

	err := svc.Release(db, product.ID, 1, 106, constants.StockRefTypeOrder, "非法引用")
	if !errors.Is(err, ErrInvalidStockParams) {
		t.Fatalf("expected invalid stock params, got: %v", err)
	}
}

func TestProductFlagsPersistFalseValues(t *testing.T) {
	_, db := newInventoryTestService(t, "flags")
	product := &models.Product{
		SKU:            "SKU-F1",
		Name:           "包装服务",
		Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		Cost:           models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		TrackInventory: false,
		IsActive:       false,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.TrackInventory {
		t.Fatalf("track_inventory=false should persist")
	}
	if reloaded.IsActive {
		t.Fatalf("is_active=false should persist")
	}
}

func TestStockMovementReplayMatchesLiveStock(t *testing.T) {
	svc, db := newInventoryTestService(t, "replay")
	product := createTestProduct(t, db, "SKU-P1", 10, true, false)

	if err := svc.Reserve(db, product.ID, 3, 201); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := svc.Reserve(db, product.ID, 2, 202); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := svc.Release(db, product.ID, 2, 202, constants.StockRefTypeCancellation, "取消回补"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, err := svc.Adjust(product.ID, 5, "盘点补录"); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if _, err := svc.Adjust(product.ID, -1, "盘点修正"); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if err := svc.Release(db, product.ID, 3, 201, constants.StockRefTypeReturn, "退货入库"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	var movements []models.StockMovement
	if err := db.Where("product_id = ?", product.ID).Order("id asc").Find(&movements).Error; err != nil {
		t.Fatalf("load movements failed: %v", err)
	}
	if len(movements) != 6 {
		t.Fatalf("movements want 6 got %d", len(movements))
	}

	// 从初始库存按流水顺序重放，每行内部自洽且与上一行衔接
	replayed := 10
	for i, m := range movements {
		if m.PreviousStock != replayed {
			t.Fatalf("movement %d previous_stock want %d got %d", i, replayed, m.PreviousStock)
		}
		if m.NewStock != m.PreviousStock+m.Delta {
			t.Fatalf("movement %d new_stock want %d got %d", i, m.PreviousStock+m.Delta, m.NewStock)
		}
		replayed = m.NewStock
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != replayed {
		t.Fatalf("live stock want %d got %d", replayed, reloaded.StockQuantity)
	}
	if reloaded.StockQuantity != 14 {
		t.Fatalf("final stock want 14 got %d", reloaded.StockQuantity)
	}
}

func TestInventoryAdjust(t *testing.T) {
	svc, db := newInventoryTestService(t, "adjust")
	product := createTestProduct(t, db, "SKU-A1", 10, true, false)

	updated, err := svc.Adjust(product.ID, -4, "盘点修正")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if updated.StockQuantity != 6 {
		t.Fatalf("stock want 6 got %d", updated.StockQuantity)
	}

	var movement models.StockMovement
	if err := db.Where("product_id = ? AND reference_type = ?", product.ID, constants.StockRefTypeAdjustment).First(&movement).Error; err != nil {
		t.Fatalf("load adjustment movement failed: %v", err)
	}
	if movement.Delta != -4 || movement.Reason != "盘点修正" {
		t.Fatalf("unexpected movement: %+v", movement)
	}

	if _, err := svc.Adjust(product.ID, 0, "空调整"); !errors.Is(err, ErrInvalidStockParams) {
		t.Fatalf("zero delta should be rejected, got: %v", err)
	}
}
