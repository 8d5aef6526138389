package domain

type Category struct {
	ID        string `json:"id"`
	StoreID   string `json:"store_id"`
	SectionID string `json:"section_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

type Product struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	SectionID   string  `json:"section_id"` // Foreign key into the store's sections
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}
