package models

// SubmittedAnswer carries the raw value a user submitted for one question.
// Only the field matching the question variant is expected to be set; an
// all-zero value represents an empty submission (e.g. a timeout) and is
// always incorrect.
type SubmittedAnswer struct {
	ChoiceIndex *int     `json:"choiceIndex,omitempty"` // multiple_choice: selected option index
	Texts       []string `json:"texts,omitempty"`       // fill_blank: one entry per blank, in order
	Transcript  string   `json:"transcript,omitempty"`  // listening: typed transcript (also accepted as a stringified choice index)
	ItemOrder   []string `json:"itemOrder,omitempty"`   // drag_order: item IDs in the user's final order
}

// IsEmpty reports whether the submission carries no value at all
func (a SubmittedAnswer) IsEmpty() bool {
	return a.ChoiceIndex == nil && len(a.Texts) == 0 && a.Transcript == "" && len(a.ItemOrder) == 0
}

// Answer represents one recorded submission within a practice session
type Answer struct {
	QuestionID       string          `json:"questionId"`
	Value            SubmittedAnswer `json:"value"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
	IsCorrect        bool            `json:"isCorrect"`
	PointsAwarded    int             `json:"pointsAwarded"`
}
