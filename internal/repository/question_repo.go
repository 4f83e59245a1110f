package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inaiurai/commissionbot/internal/models"
)

type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func (r *QuestionRepo) CreateTx(ctx context.Context, tx pgx.Tx, q *models.Question) error {
	if q.Status == "" {
		q.Status = models.QuestionPending
	}
	return tx.QueryRow(ctx, `
		INSERT INTO questions (message_id, channel_id, freelancer_id, question, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, q.MessageID, q.ChannelID, q.FreelancerID, q.Question, q.Status).Scan(&q.CreatedAt)
}

func (r *QuestionRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, messageID int64) (*models.Question, error) {
	var q models.Question
	err := tx.QueryRow(ctx, `
		SELECT message_id, channel_id, freelancer_id, question, answer, status, created_at, answered_at
		FROM questions WHERE message_id = $1 FOR UPDATE
	`, messageID).Scan(&q.MessageID, &q.ChannelID, &q.FreelancerID, &q.Question, &q.Answer, &q.Status, &q.CreatedAt, &q.AnsweredAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// AnswerTx records the answer once; an already answered question yields ErrConflict.
func (r *QuestionRepo) AnswerTx(ctx context.Context, tx pgx.Tx, messageID int64, answer string, at time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE questions SET answer = $2, status = 'answered', answered_at = $3
		WHERE message_id = $1 AND status = 'pending'
	`, messageID, answer, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *QuestionRepo) DeleteByChannelTx(ctx context.Context, tx pgx.Tx, channelID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM questions WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
