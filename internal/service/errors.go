package service

import "errors"

// 服务层错误定义
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrLoginRateLimited   = errors.New("登录尝试过于频繁")

	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderFetchFailed   = errors.New("订单查询失败")
	ErrOrderCreateFailed  = errors.New("订单创建失败")
	ErrOrderUpdateFailed  = errors.New("订单更新失败")
	ErrInvalidOrderItem   = errors.New("订单项不合法")
	ErrInvalidTransition  = errors.New("订单状态不允许该操作")
	ErrShipUnconfirmed    = errors.New("订单未确认，不能发货")
	ErrInvalidCashAmount  = errors.New("代收金额不合法")

	ErrProductNotFound    = errors.New("商品不存在")
	ErrProductSKUExists   = errors.New("商品 SKU 已存在")
	ErrInsufficientStock  = errors.New("库存不足")
	ErrDoubleRelease      = errors.New("库存重复释放")
	ErrInvalidStockParams = errors.New("库存操作参数不合法")

	ErrSettingInvalid = errors.New("设置值不合法")

	ErrQueueUnavailable = errors.New("队列服务不可用")
)
