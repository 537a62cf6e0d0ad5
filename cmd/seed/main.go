package main

import (
	"github.com/cod-next/internal/config"
	"github.com/cod-next/internal/logger"
	"github.com/cod-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加演示商品
	products := []models.Product{
		{
			SKU:            "WATCH-001",
			Name:           "智能手表",
			Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(220)),
			Cost:           models.NewMoneyFromDecimal(decimal.NewFromInt(80)),
			StockQuantity:  100,
			TrackInventory: true,
			IsActive:       true,
		},
		{
			SKU:            "EARBUD-001",
			Name:           "无线耳机",
			Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(150)),
			Cost:           models.NewMoneyFromDecimal(decimal.NewFromInt(55)),
			StockQuantity:  200,
			TrackInventory: true,
			IsActive:       true,
		},
		{
			SKU:            "BAND-001",
			Name:           "运动手环",
			Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(95)),
			Cost:           models.NewMoneyFromDecimal(decimal.NewFromInt(32)),
			StockQuantity:  150,
			TrackInventory: true,
			AllowBackorder: true,
			IsActive:       true,
		},
		{
			SKU:            "GIFT-WRAP",
			Name:           "礼品包装服务",
			Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			Cost:           models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			TrackInventory: false,
			IsActive:       true,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("sku = ?", product.SKU).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.SKU, err)
			} else {
				stdLog.Printf("Created product: %s", product.SKU)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.SKU)
		}
	}

	stdLog.Printf("Seed finished")
}
