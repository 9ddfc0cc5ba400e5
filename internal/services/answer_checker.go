package services

import (
	"strconv"
	"strings"

	"github.com/web3vocab/backend/internal/models"
)

// CheckAnswer reports whether the submitted answer is correct for the
// question. It is pure, dispatches on the question's variant tag, and
// never fails for malformed submissions: a wrong-shaped or empty
// submission (e.g. a timeout) is simply incorrect.
func CheckAnswer(question models.Question, submitted models.SubmittedAnswer) bool {
	if submitted.IsEmpty() {
		return false
	}

	switch question.Type {
	case models.QuestionMultipleChoice:
		return checkMultipleChoice(question.MultipleChoice, submitted)
	case models.QuestionFillBlank:
		return checkFillBlank(question.FillBlank, submitted)
	case models.QuestionListening:
		return checkListening(question.Listening, submitted)
	case models.QuestionDragOrder:
		return checkDragOrder(question.DragOrder, submitted)
	}

	// Unknown variant tag, treat as incorrect rather than failing the session
	return false
}

// checkMultipleChoice accepts the selected index either as an integer or
// as a stringified number (clients are inconsistent about this)
func checkMultipleChoice(payload *models.MultipleChoicePayload, submitted models.SubmittedAnswer) bool {
	if payload == nil {
		return false
	}

	if submitted.ChoiceIndex != nil {
		return *submitted.ChoiceIndex == payload.CorrectIndex
	}

	if submitted.Transcript != "" {
		index, err := strconv.Atoi(strings.TrimSpace(submitted.Transcript))
		if err != nil {
			return false
		}
		return index == payload.CorrectIndex
	}

	return false
}

// checkFillBlank requires one entry per blank; every entry must match its
// expected answer after trimming and case folding. Arity mismatch is
// incorrect, never an error.
func checkFillBlank(payload *models.FillBlankPayload, submitted models.SubmittedAnswer) bool {
	if payload == nil || len(submitted.Texts) != len(payload.Blanks) || len(payload.Blanks) == 0 {
		return false
	}

	for i, blank := range payload.Blanks {
		if !textEquals(submitted.Texts[i], blank.Answer) {
			return false
		}
	}

	return true
}

// checkListening compares the typed transcript with the expected one,
// trimmed and case-insensitive
func checkListening(payload *models.ListeningPayload, submitted models.SubmittedAnswer) bool {
	if payload == nil || submitted.Transcript == "" {
		return false
	}
	return textEquals(submitted.Transcript, payload.Transcript)
}

// checkDragOrder requires the full permutation to match: the item whose
// correct position is i must be at submitted[i]. No partial-ordering credit.
func checkDragOrder(payload *models.DragOrderPayload, submitted models.SubmittedAnswer) bool {
	if payload == nil || len(submitted.ItemOrder) != len(payload.Items) || len(payload.Items) == 0 {
		return false
	}

	for _, item := range payload.Items {
		if item.CorrectPosition < 0 || item.CorrectPosition >= len(submitted.ItemOrder) {
			return false
		}
		if submitted.ItemOrder[item.CorrectPosition] != item.ID {
			return false
		}
	}

	return true
}

// textEquals compares two strings trimmed and case-insensitively
func textEquals(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}
