package models

// Tag is an entry of the Golden List. IDs are 1-based list positions.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
