package models

import "time"

// MaxTextLength is the longest todo text the store keeps. Longer input is
// truncated, never rejected.
const MaxTextLength = 500

type Todo struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Collection is the persisted todo document: the id allocator plus every
// item, in insertion order. NextID is strictly greater than any id ever
// issued, including ids of deleted items.
type Collection struct {
	NextID int    `json:"nextId"`
	Items  []Todo `json:"items"`
}

// Seed returns the canonical empty collection used to initialize storage and
// to recover from a corrupt document.
func Seed() Collection {
	return Collection{NextID: 1, Items: []Todo{}}
}

type Stats struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Done   int `json:"done"`
	NextID int `json:"nextId"`
}
