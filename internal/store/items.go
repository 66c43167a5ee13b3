package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/assess/internal/assessment"
	"github.com/abhisek/assess/internal/content"
)

type itemRepo struct {
	q querier
}

var _ assessment.ItemRepo = (*itemRepo)(nil)

// itemRow adds the JSON-encoded question column to the domain struct.
type itemRow struct {
	assessment.Item
	QuestionJSON []byte `db:"question"`
}

func (r *itemRepo) Create(ctx context.Context, item *assessment.Item) error {
	row, err := newItemRow(item)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO items (id, session_id, area_id, question_number, difficulty_level,
			question, student_answer, is_correct, score, feedback, time_taken,
			created_at, answered_at)
		VALUES (:id, :session_id, :area_id, :question_number, :difficulty_level,
			:question, :student_answer, :is_correct, :score, :feedback, :time_taken,
			:created_at, :answered_at)`, row)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *itemRepo) Get(ctx context.Context, id string) (*assessment.Item, error) {
	var row itemRow
	err := r.q.GetContext(ctx, &row, itemSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", id, err)
	}
	return row.toItem()
}

func (r *itemRepo) BySession(ctx context.Context, sessionID string) ([]*assessment.Item, error) {
	var rows []itemRow
	err := r.q.SelectContext(ctx, &rows, itemSelect+`
		WHERE session_id = ? ORDER BY question_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session items: %w", err)
	}

	items := make([]*assessment.Item, len(rows))
	for i := range rows {
		item, err := rows[i].toItem()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// SaveAnswer is guarded by answered_at: a second write to the same item
// affects zero rows and surfaces as *ErrAlreadyAnswered.
func (r *itemRepo) SaveAnswer(ctx context.Context, item *assessment.Item) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE items
		SET student_answer = ?, is_correct = ?, score = ?, feedback = ?,
		    time_taken = ?, answered_at = ?
		WHERE id = ? AND answered_at IS NULL`,
		item.StudentAnswer, item.IsCorrect, item.Score, item.Feedback,
		item.TimeTakenSecs, item.AnsweredAt, item.ID)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := r.q.GetContext(ctx, &exists, `SELECT 1 FROM items WHERE id = ?`, item.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %s not found", item.ID)
		}
		if err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		return &assessment.ErrAlreadyAnswered{ItemID: item.ID}
	}
	return nil
}

const itemSelect = `
	SELECT id, session_id, area_id, question_number, difficulty_level, question,
	       student_answer, is_correct, score, feedback, time_taken,
	       created_at, answered_at
	FROM items`

func newItemRow(item *assessment.Item) (*itemRow, error) {
	data, err := json.Marshal(item.Question)
	if err != nil {
		return nil, fmt.Errorf("encode question: %w", err)
	}
	return &itemRow{Item: *item, QuestionJSON: data}, nil
}

func (row *itemRow) toItem() (*assessment.Item, error) {
	var q content.Question
	if err := json.Unmarshal(row.QuestionJSON, &q); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	item := row.Item
	item.Question = q
	return &item, nil
}
