package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/web3vocab/backend/internal/models"
)

// Per-variant time limits in seconds
const (
	multipleChoiceTimeLimit = 30
	fillBlankTimeLimit      = 45
	listeningTimeLimit      = 40
	dragOrderTimeLimit      = 60
)

// pointsForDifficulty maps difficulty levels to question point values
func pointsForDifficulty(difficulty models.Difficulty) int {
	switch difficulty {
	case models.DifficultyIntermediate:
		return 20
	case models.DifficultyAdvanced:
		return 30
	default:
		return 10
	}
}

// QuestionBuilder assembles quiz questions from vocabulary entries. The
// random source is injected so tests can build deterministic sessions.
type QuestionBuilder struct {
	rng *rand.Rand
}

// NewQuestionBuilder creates a question builder with the given random source
func NewQuestionBuilder(rng *rand.Rand) *QuestionBuilder {
	return &QuestionBuilder{rng: rng}
}

// Build creates up to count questions from the given words, cycling
// through the requested variants. Variants a word cannot support (e.g.
// listening without an audio reference) fall back to multiple choice.
// Words are consumed in order; callers shuffle beforehand if desired.
func (b *QuestionBuilder) Build(words []models.Word, types []models.QuestionType, count int) []models.Question {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	if len(types) == 0 {
		types = []models.QuestionType{
			models.QuestionMultipleChoice,
			models.QuestionFillBlank,
			models.QuestionListening,
			models.QuestionDragOrder,
		}
	}
	if count > len(words) {
		count = len(words)
	}

	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		word := words[i]

		var question *models.Question
		switch types[i%len(types)] {
		case models.QuestionFillBlank:
			question = b.buildFillBlank(word)
		case models.QuestionListening:
			question = b.buildListening(word)
		case models.QuestionDragOrder:
			question = b.buildDragOrder(word)
		default:
			question = b.buildMultipleChoice(word, words)
		}

		if question == nil {
			question = b.buildMultipleChoice(word, words)
		}
		questions = append(questions, *question)
	}

	return questions
}

// buildMultipleChoice asks for the word's definition among distractor
// definitions drawn from the other words
func (b *QuestionBuilder) buildMultipleChoice(word models.Word, pool []models.Word) *models.Question {
	options := []string{word.Definition}
	for _, candidate := range b.shuffledPool(pool, word.ID) {
		if len(options) == 4 {
			break
		}
		options = append(options, candidate.Definition)
	}

	b.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, option := range options {
		if option == word.Definition {
			correctIndex = i
			break
		}
	}

	question := b.baseQuestion(word, models.QuestionMultipleChoice, multipleChoiceTimeLimit)
	question.Prompt = fmt.Sprintf("What is the definition of %q?", word.Term)
	question.MultipleChoice = &models.MultipleChoicePayload{
		Options:      options,
		CorrectIndex: correctIndex,
	}
	return question
}

// buildFillBlank blanks the term out of its example sentence; when the
// example does not contain the term, the definition is used as the prompt
func (b *QuestionBuilder) buildFillBlank(word models.Word) *models.Question {
	template := blankOutTerm(word.Example, word.Term)
	if template == "" {
		template = "___ — " + word.Definition
	}

	question := b.baseQuestion(word, models.QuestionFillBlank, fillBlankTimeLimit)
	question.Prompt = "Fill in the missing term"
	question.FillBlank = &models.FillBlankPayload{
		Template: template,
		Blanks: []models.Blank{
			{Answer: word.Term, Hints: firstLetterHint(word.Term)},
		},
	}
	return question
}

// buildListening returns nil for words without recorded audio
func (b *QuestionBuilder) buildListening(word models.Word) *models.Question {
	if word.AudioID == "" {
		return nil
	}

	question := b.baseQuestion(word, models.QuestionListening, listeningTimeLimit)
	question.Prompt = "Type the term you hear"
	question.Listening = &models.ListeningPayload{
		AudioID:    word.AudioID,
		Transcript: word.Term,
		MaxPlays:   3,
	}
	return question
}

// buildDragOrder asks the user to rebuild the word's example sentence;
// returns nil when the sentence is too short to be worth ordering
func (b *QuestionBuilder) buildDragOrder(word models.Word) *models.Question {
	tokens := strings.Fields(word.Example)
	if len(tokens) < 3 {
		return nil
	}
	if len(tokens) > 8 {
		tokens = tokens[:8]
	}

	items := make([]models.DragItem, len(tokens))
	for i, token := range tokens {
		items[i] = models.DragItem{
			ID:              fmt.Sprintf("w%d-p%d", word.ID, i),
			Text:            token,
			CorrectPosition: i,
		}
	}

	// Items are presented shuffled; correct positions stay with each item
	b.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	question := b.baseQuestion(word, models.QuestionDragOrder, dragOrderTimeLimit)
	question.Prompt = fmt.Sprintf("Arrange the words to form an example using %q", word.Term)
	question.DragOrder = &models.DragOrderPayload{Items: items}
	return question
}

// baseQuestion fills the fields shared by every variant
func (b *QuestionBuilder) baseQuestion(word models.Word, questionType models.QuestionType, timeLimit int) *models.Question {
	return &models.Question{
		ID:               uuid.New().String(),
		Type:             questionType,
		WordID:           word.ID,
		Category:         word.Category,
		Difficulty:       word.Difficulty,
		Points:           pointsForDifficulty(word.Difficulty),
		TimeLimitSeconds: timeLimit,
		Explanation:      fmt.Sprintf("%s: %s", word.Term, word.Definition),
	}
}

// shuffledPool returns the pool without the excluded word, shuffled
func (b *QuestionBuilder) shuffledPool(pool []models.Word, excludeID int) []models.Word {
	candidates := make([]models.Word, 0, len(pool))
	for _, word := range pool {
		if word.ID != excludeID {
			candidates = append(candidates, word)
		}
	}
	b.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates
}

// blankOutTerm replaces the first case-insensitive occurrence of term in
// the sentence with the blank marker; returns "" when the term is absent
func blankOutTerm(sentence, term string) string {
	if sentence == "" || term == "" {
		return ""
	}
	index := strings.Index(strings.ToLower(sentence), strings.ToLower(term))
	if index < 0 {
		return ""
	}
	return sentence[:index] + "___" + sentence[index+len(term):]
}

// firstLetterHint builds the single hint shown for a fill-blank answer
func firstLetterHint(term string) []string {
	if term == "" {
		return nil
	}
	return []string{fmt.Sprintf("Starts with %q, %d letters", string(term[0]), len(term))}
}
