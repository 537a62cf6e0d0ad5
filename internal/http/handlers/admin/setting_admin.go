package admin

import (
	"errors"

	"github.com/cod-next/internal/constants"
	"github.com/cod-next/internal/http/response"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCostSettings 查询成本参数
func (h *Handler) GetCostSettings(c *gin.Context) {
	settings, err := h.SettingService.GetCostSettings()
	if err != nil {
		respondError(c, response.CodeInternal, "查询成本参数失败", err)
		return
	}

	response.Success(c, settings)
}

// UpdateCostSettings 更新成本参数
func (h *Handler) UpdateCostSettings(c *gin.Context) {
	var req models.CostSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	settings, err := h.SettingService.UpdateCostSettings(req)
	if err != nil {
		if errors.Is(err, service.ErrSettingInvalid) {
			respondError(c, response.CodeBadRequest, "成本参数不合法", nil)
			return
		}
		respondError(c, response.CodeInternal, "保存成本参数失败", err)
		return
	}

	requestLog(c).Infow("cost_settings_updated")

	response.Success(c, settings)
}

// OrderConfigRequest 订单配置请求
type OrderConfigRequest struct {
	ExpireMinutes int `json:"expire_minutes" binding:"required,min=1"`
}

// GetOrderConfig 查询订单配置
func (h *Handler) GetOrderConfig(c *gin.Context) {
	minutes, err := h.SettingService.GetOrderExpireMinutes(h.Config.Order.ExpireMinutes)
	if err != nil {
		respondError(c, response.CodeInternal, "查询订单配置失败", err)
		return
	}

	response.Success(c, gin.H{"expire_minutes": minutes})
}

// UpdateOrderConfig 更新订单配置
func (h *Handler) UpdateOrderConfig(c *gin.Context) {
	var req OrderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	value, err := h.SettingService.Update(constants.SettingKeyOrderConfig, map[string]interface{}{
		"expire_minutes": req.ExpireMinutes,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "保存订单配置失败", err)
		return
	}

	response.Success(c, value)
}
