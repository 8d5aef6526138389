package task

import "trolley/navigator/internal/domain"

// ImportRetryTask re-queues a product batch whose upsert failed. The batch
// payload rides along so the retry never has to re-fetch from the provider.
type ImportRetryTask struct {
	StoreID    string           `json:"store_id"`
	Batch      int              `json:"batch"`
	Category   domain.Category  `json:"category"`
	Products   []domain.Product `json:"products"`
	RetryCount int              `json:"retry_count"`
	Error      string           `json:"error"` // Error message from the original failure
}

func (t *ImportRetryTask) TaskType() string {
	return "ImportRetryTask"
}

func (t *ImportRetryTask) TaskValue() ([]byte, error) {
	return encode(t)
}
