package domain

import "time"

type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	LayoutSVG string    `json:"layout_svg"` // SVG content for the store map
	CreatedAt time.Time `json:"created_at"`
}

// StoreData is the full catalog payload for a single store.
type StoreData struct {
	Store      Store      `json:"store"`
	Sections   []Section  `json:"sections"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}
