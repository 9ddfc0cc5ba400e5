package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/web3vocab/backend/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func multipleChoiceQuestion(correctIndex int) models.Question {
	return models.Question{
		ID:   "q-mc",
		Type: models.QuestionMultipleChoice,
		MultipleChoice: &models.MultipleChoicePayload{
			Options:      []string{"A pool of locked tokens", "A wallet type", "A consensus algorithm", "A block explorer"},
			CorrectIndex: correctIndex,
		},
	}
}

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	tests := []struct {
		name      string
		submitted models.SubmittedAnswer
		expected  bool
	}{
		{
			name:      "correct index as integer",
			submitted: models.SubmittedAnswer{ChoiceIndex: intPtr(2)},
			expected:  true,
		},
		{
			name:      "correct index as string",
			submitted: models.SubmittedAnswer{Transcript: "2"},
			expected:  true,
		},
		{
			name:      "correct index as string with whitespace",
			submitted: models.SubmittedAnswer{Transcript: " 2 "},
			expected:  true,
		},
		{
			name:      "wrong index",
			submitted: models.SubmittedAnswer{ChoiceIndex: intPtr(0)},
			expected:  false,
		},
		{
			name:      "non-numeric string",
			submitted: models.SubmittedAnswer{Transcript: "two"},
			expected:  false,
		},
		{
			name:      "empty submission",
			submitted: models.SubmittedAnswer{},
			expected:  false,
		},
	}

	question := multipleChoiceQuestion(2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckAnswer(question, tt.submitted))
		})
	}
}

func TestCheckAnswer_FillBlank(t *testing.T) {
	question := models.Question{
		ID:   "q-fb",
		Type: models.QuestionFillBlank,
		FillBlank: &models.FillBlankPayload{
			Template: "___ lets users trade without an order book",
			Blanks:   []models.Blank{{Answer: "DeFi"}},
		},
	}

	tests := []struct {
		name      string
		submitted models.SubmittedAnswer
		expected  bool
	}{
		{
			name:      "exact match",
			submitted: models.SubmittedAnswer{Texts: []string{"DeFi"}},
			expected:  true,
		},
		{
			name:      "different case with trailing space",
			submitted: models.SubmittedAnswer{Texts: []string{"defi "}},
			expected:  true,
		},
		{
			name:      "wrong answer",
			submitted: models.SubmittedAnswer{Texts: []string{"CeFi"}},
			expected:  false,
		},
		{
			name:      "too many entries",
			submitted: models.SubmittedAnswer{Texts: []string{"DeFi", "extra"}},
			expected:  false,
		},
		{
			name:      "empty list",
			submitted: models.SubmittedAnswer{Texts: []string{}},
			expected:  false,
		},
		{
			name:      "empty string entry",
			submitted: models.SubmittedAnswer{Texts: []string{""}},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckAnswer(question, tt.submitted))
		})
	}
}

func TestCheckAnswer_FillBlank_MultipleBlanks(t *testing.T) {
	question := models.Question{
		Type: models.QuestionFillBlank,
		FillBlank: &models.FillBlankPayload{
			Template: "___ pools pair two tokens; fees go to ___ providers",
			Blanks:   []models.Blank{{Answer: "Liquidity"}, {Answer: "liquidity"}},
		},
	}

	// All blanks must match for the answer to count correct
	assert.True(t, CheckAnswer(question, models.SubmittedAnswer{Texts: []string{"liquidity", "LIQUIDITY"}}))
	assert.False(t, CheckAnswer(question, models.SubmittedAnswer{Texts: []string{"liquidity", "staking"}}))
	assert.False(t, CheckAnswer(question, models.SubmittedAnswer{Texts: []string{"liquidity"}}))
}

func TestCheckAnswer_Listening(t *testing.T) {
	question := models.Question{
		ID:   "q-ls",
		Type: models.QuestionListening,
		Listening: &models.ListeningPayload{
			AudioID:    "audio-42",
			Transcript: "Impermanent Loss",
		},
	}

	tests := []struct {
		name      string
		submitted models.SubmittedAnswer
		expected  bool
	}{
		{
			name:      "exact match",
			submitted: models.SubmittedAnswer{Transcript: "Impermanent Loss"},
			expected:  true,
		},
		{
			name:      "case-insensitive trimmed match",
			submitted: models.SubmittedAnswer{Transcript: "  impermanent loss "},
			expected:  true,
		},
		{
			name:      "wrong transcript",
			submitted: models.SubmittedAnswer{Transcript: "Permanent Loss"},
			expected:  false,
		},
		{
			name:      "empty submission",
			submitted: models.SubmittedAnswer{},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckAnswer(question, tt.submitted))
		})
	}
}

func TestCheckAnswer_DragOrder(t *testing.T) {
	question := models.Question{
		ID:   "q-do",
		Type: models.QuestionDragOrder,
		DragOrder: &models.DragOrderPayload{
			Items: []models.DragItem{
				{ID: "A", CorrectPosition: 0},
				{ID: "B", CorrectPosition: 1},
				{ID: "C", CorrectPosition: 2},
			},
		},
	}

	tests := []struct {
		name      string
		submitted models.SubmittedAnswer
		expected  bool
	}{
		{
			name:      "exact order",
			submitted: models.SubmittedAnswer{ItemOrder: []string{"A", "B", "C"}},
			expected:  true,
		},
		{
			name:      "adjacent swap gets no partial credit",
			submitted: models.SubmittedAnswer{ItemOrder: []string{"A", "C", "B"}},
			expected:  false,
		},
		{
			name:      "reversed order",
			submitted: models.SubmittedAnswer{ItemOrder: []string{"C", "B", "A"}},
			expected:  false,
		},
		{
			name:      "wrong length",
			submitted: models.SubmittedAnswer{ItemOrder: []string{"A", "B"}},
			expected:  false,
		},
		{
			name:      "unknown ids",
			submitted: models.SubmittedAnswer{ItemOrder: []string{"X", "Y", "Z"}},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckAnswer(question, tt.submitted))
		})
	}
}

func TestCheckAnswer_MalformedQuestions(t *testing.T) {
	// A question whose payload is missing or whose tag is unknown must be
	// incorrect, never a panic
	tests := []struct {
		name     string
		question models.Question
	}{
		{name: "multiple choice without payload", question: models.Question{Type: models.QuestionMultipleChoice}},
		{name: "fill blank without payload", question: models.Question{Type: models.QuestionFillBlank}},
		{name: "listening without payload", question: models.Question{Type: models.QuestionListening}},
		{name: "drag order without payload", question: models.Question{Type: models.QuestionDragOrder}},
		{name: "unknown variant tag", question: models.Question{Type: "essay"}},
	}

	submissions := []models.SubmittedAnswer{
		{},
		{ChoiceIndex: intPtr(0)},
		{Texts: []string{"answer"}},
		{Transcript: "answer"},
		{ItemOrder: []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, submitted := range submissions {
				assert.NotPanics(t, func() {
					assert.False(t, CheckAnswer(tt.question, submitted))
				})
			}
		})
	}
}
