package models

// QuestionType identifies the question variant
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFillBlank      QuestionType = "fill_blank"
	QuestionListening      QuestionType = "listening"
	QuestionDragOrder      QuestionType = "drag_order"
)

// Question represents a single quiz item. Exactly one of the variant
// payload fields is set, matching Type; the others stay nil and are
// omitted from JSON.
type Question struct {
	ID               string       `json:"id"`
	Type             QuestionType `json:"type"`
	Prompt           string       `json:"prompt"`
	WordID           int          `json:"wordId"`
	Category         string       `json:"category"`
	Difficulty       Difficulty   `json:"difficulty"`
	Points           int          `json:"points"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	Explanation      string       `json:"explanation,omitempty"`

	MultipleChoice *MultipleChoicePayload `json:"multipleChoice,omitempty"`
	FillBlank      *FillBlankPayload      `json:"fillBlank,omitempty"`
	Listening      *ListeningPayload      `json:"listening,omitempty"`
	DragOrder      *DragOrderPayload      `json:"dragOrder,omitempty"`
}

// MultipleChoicePayload holds the options for a multiple choice question
type MultipleChoicePayload struct {
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Blank represents one blank in a fill-in-the-blank template
type Blank struct {
	Answer string   `json:"answer"`
	Hints  []string `json:"hints,omitempty"`
}

// FillBlankPayload holds the template and expected answers for a
// fill-in-the-blank question. The template marks blanks with "___".
type FillBlankPayload struct {
	Template string  `json:"template"`
	Blanks   []Blank `json:"blanks"`
}

// ListeningPayload holds the audio reference and expected transcript
// for a listening dictation question
type ListeningPayload struct {
	AudioID    string `json:"audioId"`
	Transcript string `json:"transcript"`
	MaxPlays   int    `json:"maxPlays,omitempty"`
}

// DragItem represents one draggable item and its correct 0-based position
type DragItem struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	CorrectPosition int    `json:"correctPosition"`
}

// DragOrderPayload holds the items of a drag-to-order question
type DragOrderPayload struct {
	Items []DragItem `json:"items"`
}
