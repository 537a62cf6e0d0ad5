package provider

import (
	"github.com/cod-next/internal/cache"
	"github.com/cod-next/internal/config"
	"github.com/cod-next/internal/logger"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/queue"
	"github.com/cod-next/internal/repository"
	"github.com/cod-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	OrderRepo         repository.OrderRepository
	ProductRepo       repository.ProductRepository
	StockMovementRepo repository.StockMovementRepository
	OrderHistoryRepo  repository.OrderHistoryRepository
	SettingRepo       repository.SettingRepository

	// Services
	AuthService      *service.AuthService
	SettingService   *service.SettingService
	ProductService   *service.ProductService
	InventoryService *service.InventoryService
	OrderService     *service.OrderService
	ProfitService    *service.ProfitService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.StockMovementRepo = repository.NewStockMovementRepository(db)
	c.OrderHistoryRepo = repository.NewOrderHistoryRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.InventoryService = service.NewInventoryService(c.ProductRepo, c.StockMovementRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.OrderHistoryRepo, c.InventoryService, c.SettingService, c.QueueClient, c.Config.Order.ExpireMinutes)
	c.ProfitService = service.NewProfitService(c.SettingService)
}
