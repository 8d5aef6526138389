package task

import "trolley/navigator/internal/domain"

// SectionImportTask carries one layout section fetched from the catalog
// provider, ready to be upserted into the repository.
type SectionImportTask struct {
	StoreID string         `json:"store_id"`
	Section domain.Section `json:"section"`
}

func (t *SectionImportTask) TaskType() string {
	return "SectionImportTask"
}

func (t *SectionImportTask) TaskValue() ([]byte, error) {
	return encode(t)
}
