package models

// DueBatch is one page of a user's global review queue.
type DueBatch struct {
	Cards              []Card `json:"cards"`
	TotalDue           int    `json:"total_due"`
	BatchNumber        int    `json:"batch_number"`
	HasMoreBatches     bool   `json:"has_more_batches"`
	IsNewCardsFallback bool   `json:"is_new_cards_fallback"`
}
