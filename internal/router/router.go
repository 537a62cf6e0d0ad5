package router

import (
	"fmt"
	"strings"

	"github.com/cod-next/internal/cache"
	"github.com/cod-next/internal/config"
	adminhandlers "github.com/cod-next/internal/http/handlers/admin"
	"github.com/cod-next/internal/logger"
	"github.com/cod-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cod"
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "登录尝试过于频繁",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(cache.Client(), adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 订单管理
				authorized.POST("/orders", adminHandler.AdminCreateOrder)
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.GET("/orders/by-order-no/:order_no", adminHandler.AdminGetOrderByNo)
				authorized.GET("/orders/:id/history", adminHandler.AdminGetOrderHistory)
				authorized.GET("/orders/:id/profit", adminHandler.AdminGetOrderProfit)

				// 订单流转
				authorized.POST("/orders/:id/confirm", adminHandler.AdminConfirmOrder)
				authorized.POST("/orders/:id/process", adminHandler.AdminProcessOrder)
				authorized.POST("/orders/:id/ship", adminHandler.AdminShipOrder)
				authorized.POST("/orders/:id/out-for-delivery", adminHandler.AdminMarkOutForDelivery)
				authorized.POST("/orders/:id/deliver", adminHandler.AdminDeliverOrder)
				authorized.POST("/orders/:id/return", adminHandler.AdminReturnOrder)
				authorized.POST("/orders/:id/cancel", adminHandler.AdminCancelOrder)
				authorized.POST("/orders/:id/refund", adminHandler.AdminRefundOrder)

				// 商品与库存管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/:id/stock/adjust", adminHandler.AdjustProductStock)
				authorized.GET("/stock-movements", adminHandler.GetStockMovements)

				// 设置管理
				authorized.GET("/settings/costs", adminHandler.GetCostSettings)
				authorized.PUT("/settings/costs", adminHandler.UpdateCostSettings)
				authorized.GET("/settings/order", adminHandler.GetOrderConfig)
				authorized.PUT("/settings/order", adminHandler.UpdateOrderConfig)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
