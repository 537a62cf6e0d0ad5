package queue

import (
	"encoding/json"

	"github.com/cod-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderExpire 待确认订单超时取消任务
	TaskOrderExpire = constants.TaskTypeOrderExpire
)

// OrderExpirePayload 超时取消任务载荷
type OrderExpirePayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderExpireTask 创建超时取消任务
func NewOrderExpireTask(payload OrderExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderExpire, body), nil
}
