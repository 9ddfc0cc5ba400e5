package services

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3vocab/backend/internal/models"
)

func builderWords() []models.Word {
	return []models.Word{
		{ID: 1, Term: "DeFi", Definition: "Decentralized finance", Category: "defi", Difficulty: models.DifficultyBeginner, Example: "DeFi protocols let users lend without banks", AudioID: "audio-1"},
		{ID: 2, Term: "NFT", Definition: "Non-fungible token", Category: "nft", Difficulty: models.DifficultyIntermediate, Example: "She minted an NFT of her artwork"},
		{ID: 3, Term: "gas", Definition: "Fee paid for transactions", Category: "basics", Difficulty: models.DifficultyBeginner, Example: "Gas spikes when the network is busy", AudioID: "audio-3"},
		{ID: 4, Term: "staking", Definition: "Locking tokens to secure a network", Category: "defi", Difficulty: models.DifficultyAdvanced, Example: "Staking"},
		{ID: 5, Term: "DAO", Definition: "Decentralized autonomous organization", Category: "governance", Difficulty: models.DifficultyIntermediate, Example: "The DAO voted on the treasury proposal last week"},
	}
}

func newTestBuilder() *QuestionBuilder {
	return NewQuestionBuilder(rand.New(rand.NewSource(42)))
}

func TestQuestionBuilder_Build_CyclesVariants(t *testing.T) {
	builder := newTestBuilder()
	types := []models.QuestionType{models.QuestionMultipleChoice, models.QuestionFillBlank}

	questions := builder.Build(builderWords(), types, 4)

	require.Len(t, questions, 4)
	assert.Equal(t, models.QuestionMultipleChoice, questions[0].Type)
	assert.Equal(t, models.QuestionFillBlank, questions[1].Type)
	assert.Equal(t, models.QuestionMultipleChoice, questions[2].Type)
	assert.Equal(t, models.QuestionFillBlank, questions[3].Type)
}

func TestQuestionBuilder_Build_ExactlyOnePayload(t *testing.T) {
	builder := newTestBuilder()

	questions := builder.Build(builderWords(), nil, 5)

	require.Len(t, questions, 5)
	for _, question := range questions {
		payloads := 0
		if question.MultipleChoice != nil {
			payloads++
		}
		if question.FillBlank != nil {
			payloads++
		}
		if question.Listening != nil {
			payloads++
		}
		if question.DragOrder != nil {
			payloads++
		}
		assert.Equal(t, 1, payloads, "question %s carries exactly one payload", question.ID)
		assert.NotEmpty(t, question.ID)
		assert.Greater(t, question.TimeLimitSeconds, 0)
	}
}

func TestQuestionBuilder_Build_CountClampedToWords(t *testing.T) {
	builder := newTestBuilder()

	questions := builder.Build(builderWords()[:2], nil, 10)

	assert.Len(t, questions, 2)
}

func TestQuestionBuilder_Build_EmptyInputs(t *testing.T) {
	builder := newTestBuilder()

	assert.Nil(t, builder.Build(nil, nil, 5))
	assert.Nil(t, builder.Build(builderWords(), nil, 0))
}

func TestQuestionBuilder_MultipleChoice(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()

	question := builder.buildMultipleChoice(words[0], words)

	require.NotNil(t, question.MultipleChoice)
	assert.Len(t, question.MultipleChoice.Options, 4)
	index := question.MultipleChoice.CorrectIndex
	require.GreaterOrEqual(t, index, 0)
	require.Less(t, index, len(question.MultipleChoice.Options))
	assert.Equal(t, words[0].Definition, question.MultipleChoice.Options[index])
	assert.Equal(t, 10, question.Points)
	assert.Equal(t, multipleChoiceTimeLimit, question.TimeLimitSeconds)
}

func TestQuestionBuilder_MultipleChoice_SmallPool(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()[:2]

	question := builder.buildMultipleChoice(words[0], words)

	require.NotNil(t, question.MultipleChoice)
	// Only one distractor available, so two options total
	assert.Len(t, question.MultipleChoice.Options, 2)
	assert.Equal(t, words[0].Definition, question.MultipleChoice.Options[question.MultipleChoice.CorrectIndex])
}

func TestQuestionBuilder_FillBlank(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()

	question := builder.buildFillBlank(words[0])

	require.NotNil(t, question.FillBlank)
	assert.Equal(t, "___ protocols let users lend without banks", question.FillBlank.Template)
	require.Len(t, question.FillBlank.Blanks, 1)
	assert.Equal(t, "DeFi", question.FillBlank.Blanks[0].Answer)
	require.Len(t, question.FillBlank.Blanks[0].Hints, 1)
	assert.Contains(t, question.FillBlank.Blanks[0].Hints[0], "4 letters")
}

func TestQuestionBuilder_FillBlank_TermNotInExample(t *testing.T) {
	builder := newTestBuilder()
	word := models.Word{ID: 9, Term: "oracle", Definition: "Feeds external data on-chain", Example: "Prices come from an external feed"}

	question := builder.buildFillBlank(word)

	require.NotNil(t, question.FillBlank)
	assert.Equal(t, "___ — Feeds external data on-chain", question.FillBlank.Template)
}

func TestQuestionBuilder_Listening(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()

	question := builder.buildListening(words[0])

	require.NotNil(t, question)
	require.NotNil(t, question.Listening)
	assert.Equal(t, "audio-1", question.Listening.AudioID)
	assert.Equal(t, "DeFi", question.Listening.Transcript)
	assert.Equal(t, 3, question.Listening.MaxPlays)
}

func TestQuestionBuilder_Listening_NoAudioFallsBack(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()

	// Word 2 has no audio; requesting only listening questions still
	// yields a usable question via the multiple choice fallback
	questions := builder.Build(words[1:2], []models.QuestionType{models.QuestionListening}, 1)

	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionMultipleChoice, questions[0].Type)
	require.NotNil(t, questions[0].MultipleChoice)
}

func TestQuestionBuilder_DragOrder(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()

	question := builder.buildDragOrder(words[4])

	require.NotNil(t, question)
	require.NotNil(t, question.DragOrder)
	tokens := strings.Fields(words[4].Example)
	require.Len(t, question.DragOrder.Items, 8, "long sentences are capped at 8 items")

	// Reassembling items by correct position restores the sentence prefix
	ordered := make([]string, len(question.DragOrder.Items))
	seen := make(map[string]bool)
	for _, item := range question.DragOrder.Items {
		require.False(t, seen[item.ID], "item IDs are unique")
		seen[item.ID] = true
		ordered[item.CorrectPosition] = item.Text
	}
	assert.Equal(t, tokens[:8], ordered)
}

func TestQuestionBuilder_DragOrder_ShortExampleFallsBack(t *testing.T) {
	builder := newTestBuilder()
	words := builderWords()

	// Word 4's example is a single token, too short to order
	assert.Nil(t, builder.buildDragOrder(words[3]))

	questions := builder.Build(words[3:4], []models.QuestionType{models.QuestionDragOrder}, 1)
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionMultipleChoice, questions[0].Type)
}

func TestPointsForDifficulty(t *testing.T) {
	assert.Equal(t, 10, pointsForDifficulty(models.DifficultyBeginner))
	assert.Equal(t, 20, pointsForDifficulty(models.DifficultyIntermediate))
	assert.Equal(t, 30, pointsForDifficulty(models.DifficultyAdvanced))
	assert.Equal(t, 10, pointsForDifficulty(models.Difficulty("unknown")))
}
