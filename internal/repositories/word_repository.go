package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/web3vocab/backend/internal/models"
)

// wordRepository implements read-only access to the vocabulary table
type wordRepository struct {
	db *sql.DB
}

// NewWordRepository creates a new word repository
func NewWordRepository(db *sql.DB) *wordRepository {
	return &wordRepository{
		db: db,
	}
}

// GetForPractice retrieves up to limit words matching the optional
// category and difficulty filters, in random order
func (r *wordRepository) GetForPractice(ctx context.Context, category string, difficulty models.Difficulty, limit int) ([]models.Word, error) {
	query := `
		SELECT id, term, definition, category, difficulty, example, audio_id
		FROM words`

	var conditions []string
	var args []any
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}
	if difficulty != "" {
		conditions = append(conditions, "difficulty = ?")
		args = append(args, string(difficulty))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY RAND() LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query practice words: %w", err)
	}
	defer rows.Close()

	return scanWords(rows)
}

// GetAll retrieves words with optional filters and pagination
func (r *wordRepository) GetAll(ctx context.Context, category string, difficulty models.Difficulty, page, count int) ([]models.Word, int, error) {
	var conditions []string
	var args []any
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}
	if difficulty != "" {
		conditions = append(conditions, "difficulty = ?")
		args = append(args, string(difficulty))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count words: %w", err)
	}

	query := `
		SELECT id, term, definition, category, difficulty, example, audio_id
		FROM words` + where + " ORDER BY term ASC LIMIT ? OFFSET ?"
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, 0, err
	}
	return words, total, nil
}

// GetCategories returns a wordID -> category map for the given IDs.
// Unknown IDs are silently absent from the result.
func (r *wordRepository) GetCategories(ctx context.Context, wordIDs []int) (map[int]string, error) {
	if len(wordIDs) == 0 {
		return map[int]string{}, nil
	}

	// Prepare the query for IN clause to avoid multiple queries
	placeholders := make([]string, len(wordIDs))
	args := make([]any, len(wordIDs))
	for i, id := range wordIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT id, category FROM words WHERE id IN (%s)",
		strings.Join(placeholders, ","),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query word categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[int]string)
	for rows.Next() {
		var id int
		var category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("failed to scan word category: %w", err)
		}
		categories[id] = category
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return categories, nil
}

// scanWords reads word rows into models
func scanWords(rows *sql.Rows) ([]models.Word, error) {
	var words []models.Word
	for rows.Next() {
		var word models.Word
		var audioID sql.NullString
		err := rows.Scan(
			&word.ID,
			&word.Term,
			&word.Definition,
			&word.Category,
			&word.Difficulty,
			&word.Example,
			&audioID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		word.AudioID = audioID.String
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return words, nil
}
