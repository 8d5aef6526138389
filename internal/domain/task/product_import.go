package task

import "trolley/navigator/internal/domain"

// ProductImportTask carries a batch of provider products belonging to one
// category. Batches keep stream messages small enough to reclaim cheaply.
type ProductImportTask struct {
	StoreID  string           `json:"store_id"`
	Batch    int              `json:"batch"`
	Category domain.Category  `json:"category"`
	Products []domain.Product `json:"products"`
}

func (t *ProductImportTask) TaskType() string {
	return "ProductImportTask"
}

func (t *ProductImportTask) TaskValue() ([]byte, error) {
	return encode(t)
}
