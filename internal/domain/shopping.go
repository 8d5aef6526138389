package domain

// ListItem is a shopping-list entry: a product plus whether the shopper
// already picked it up. Lists keep set semantics by product id.
type ListItem struct {
	Product   Product `json:"product"`
	Collected bool    `json:"collected"`
}
