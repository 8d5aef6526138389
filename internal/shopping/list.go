package shopping

import "trolley/navigator/internal/domain"

// List is a session-owned shopping list with set semantics keyed by
// product id. Lists live in process memory only and die with the session.
// A List is not safe for concurrent use; the navigation service owns one
// per session and serializes access.
type List struct {
	items map[string]*domain.ListItem
	order []string
}

func NewList() *List {
	return &List{items: make(map[string]*domain.ListItem)}
}

// Add puts a product on the list. Adding a product that is already present
// is a no-op and returns false.
func (l *List) Add(product domain.Product) bool {
	if _, exists := l.items[product.ID]; exists {
		return false
	}
	l.items[product.ID] = &domain.ListItem{Product: product}
	l.order = append(l.order, product.ID)
	return true
}

// Remove drops a product from the list, reporting whether it was present.
func (l *List) Remove(productID string) bool {
	if _, exists := l.items[productID]; !exists {
		return false
	}
	delete(l.items, productID)
	for i, id := range l.order {
		if id == productID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle flips the collected flag of an item and returns the new value.
// The second return is false when the product is not on the list.
func (l *List) Toggle(productID string) (collected, ok bool) {
	item, exists := l.items[productID]
	if !exists {
		return false, false
	}
	item.Collected = !item.Collected
	return item.Collected, true
}

// Items returns the list in insertion order.
func (l *List) Items() []domain.ListItem {
	out := make([]domain.ListItem, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.items[id])
	}
	return out
}

// Remaining returns the uncollected items in insertion order.
func (l *List) Remaining() []domain.ListItem {
	out := make([]domain.ListItem, 0, len(l.order))
	for _, id := range l.order {
		if item := l.items[id]; !item.Collected {
			out = append(out, *item)
		}
	}
	return out
}

func (l *List) Len() int {
	return len(l.items)
}
