package models

// Difficulty represents the difficulty level of a word or question
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether the difficulty is one of the supported levels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Word represents a Web3/DeFi vocabulary entry
type Word struct {
	ID         int        `json:"id"`
	Term       string     `json:"term"`       // e.g. "Liquidity Pool"
	Definition string     `json:"definition"` // Plain-language definition
	Category   string     `json:"category"`   // e.g. "defi", "nft", "trading"
	Difficulty Difficulty `json:"difficulty"`
	Example    string     `json:"example"`           // Example usage sentence
	AudioID    string     `json:"audioId,omitempty"` // Pronunciation audio reference
}

// WordListResponse represents a paginated word list in API responses
type WordListResponse struct {
	Words []Word `json:"words"`
	Total int    `json:"total"`
}
