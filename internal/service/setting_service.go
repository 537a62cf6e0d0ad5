package service

import (
	"encoding/json"

	"github.com/cod-next/internal/constants"
	"github.com/cod-next/internal/models"
	"github.com/cod-next/internal/repository"

	"github.com/shopspring/decimal"
)

// SettingService 设置业务服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	setting, err := s.repo.Upsert(key, models.JSON(value))
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// DefaultCostSettings 成本参数默认值
func DefaultCostSettings() models.CostSettings {
	return models.CostSettings{
		DefaultShippingCost:     models.NewMoneyFromInt(35),
		PackagingCost:           models.NewMoneyFromInt(3),
		ReturnShippingCost:      models.NewMoneyFromInt(35),
		AgentConfirmationFee:    models.NewMoneyFromInt(5),
		AgentDeliveryFee:        models.NewMoneyFromInt(10),
		CODCollectionFeePercent: models.NewMoneyFromDecimal(decimal.Zero),
		OtherFixedFees:          models.NewMoneyFromDecimal(decimal.Zero),
	}
}

// GetCostSettings 获取成本参数（缺失字段回退默认值）
func (s *SettingService) GetCostSettings() (models.CostSettings, error) {
	settings := DefaultCostSettings()
	if s == nil {
		return settings, nil
	}
	value, err := s.GetByKey(constants.SettingKeyCostSettings)
	if err != nil {
		return settings, err
	}
	if value == nil {
		return settings, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return settings, ErrSettingInvalid
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, ErrSettingInvalid
	}
	return settings, nil
}

// UpdateCostSettings 更新成本参数（任一字段为负都拒绝）
func (s *SettingService) UpdateCostSettings(settings models.CostSettings) (models.CostSettings, error) {
	amounts := []models.Money{
		settings.DefaultShippingCost,
		settings.PackagingCost,
		settings.ReturnShippingCost,
		settings.AgentConfirmationFee,
		settings.AgentDeliveryFee,
		settings.CODCollectionFeePercent,
		settings.OtherFixedFees,
	}
	for _, amount := range amounts {
		if amount.Decimal.IsNegative() {
			return settings, ErrSettingInvalid
		}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return settings, ErrSettingInvalid
	}
	var value map[string]interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return settings, ErrSettingInvalid
	}
	if _, err := s.repo.Upsert(constants.SettingKeyCostSettings, models.JSON(value)); err != nil {
		return settings, err
	}
	return settings, nil
}

// GetOrderExpireMinutes 获取待确认订单超时分钟配置
func (s *SettingService) GetOrderExpireMinutes(defaultValue int) (int, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}
	raw, ok := value["expire_minutes"]
	if !ok {
		return defaultValue, nil
	}
	minutes, ok := parseSettingInt(raw)
	if !ok || minutes <= 0 {
		return defaultValue, nil
	}
	return minutes, nil
}

func parseSettingInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
