package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/keylock"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/repository"
)

const maxTextLen = 1024

// QuoteResult is the posted quote and the fee split shown to the client.
type QuoteResult struct {
	Quote     *models.Quote
	Breakdown money.Breakdown
}

// department resolves the commission's department and checks the actor holds its role.
func (s *CommissionService) department(ctx context.Context, actor Actor, channelID int64) (*models.Commission, config.Department, error) {
	c, err := s.Commissions.Get(ctx, channelID)
	if err != nil {
		return nil, config.Department{}, mapRepoErr(err, "commission")
	}
	dept, ok := s.Config.DepartmentByChannel(c.FreelancerChannelID)
	if !ok {
		return nil, config.Department{}, fmt.Errorf("%w: department for channel %d", ErrNotFound, c.FreelancerChannelID)
	}
	if !actor.HasAny([]int64{dept.RoleID}) {
		return nil, config.Department{}, fmt.Errorf("%w: you need the %s role", ErrPermissionDenied, dept.Name)
	}
	return c, dept, nil
}

// SubmitQuote posts a quote in the commission channel and records it.
func (s *CommissionService) SubmitQuote(ctx context.Context, actor Actor, channelID int64, amount, note string) (*QuoteResult, error) {
	cents, err := money.ParsePositive(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if utf8.RuneCountInString(note) > maxTextLen {
		return nil, fmt.Errorf("%w: message is too long", ErrValidation)
	}
	if _, _, err := s.department(ctx, actor, channelID); err != nil {
		return nil, err
	}
	if _, err := s.Profiles.Get(ctx, actor.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}

	unlock := s.Locks.Lock(keylock.Channel(channelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := s.Commissions.GetForUpdate(ctx, tx, channelID)
	if err != nil {
		return nil, mapRepoErr(err, "commission")
	}
	if c.Assigned() {
		return nil, ErrAlreadyAssigned
	}

	b := money.WithFee(cents, s.Config.FeePercent())
	msg := s.render().quote(channelID, actor.UserID, b, strings.TrimSpace(note), s.Config.Invoice.Currency)
	messageID, err := s.Chat.Send(ctx, channelID, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: post quote: %v", ErrExternal, err)
	}
	q := &models.Quote{
		MessageID:    messageID,
		ChannelID:    channelID,
		FreelancerID: actor.UserID,
		AmountCents:  cents,
		Status:       models.QuotePending,
	}
	err = s.Quotes.CreateTx(ctx, tx, q)
	if err == nil {
		err = s.Commissions.SetStateTx(ctx, tx, channelID, models.CommissionQuoted)
	}
	if err == nil {
		err = tx.Commit(ctx)
	}
	if err != nil {
		if derr := s.Chat.Delete(ctx, channelID, messageID); derr != nil {
			s.log().Warn("remove unrecorded quote message", "channel_id", channelID, "error", derr)
		}
		return nil, fmt.Errorf("record quote: %w", err)
	}
	s.log().Info("quote submitted", "channel_id", channelID, "freelancer_id", actor.UserID, "amount_cents", cents)
	return &QuoteResult{Quote: q, Breakdown: b}, nil
}

// AskQuestion posts a freelancer's question in the commission channel.
func (s *CommissionService) AskQuestion(ctx context.Context, actor Actor, channelID int64, text string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxTextLen {
		return nil, fmt.Errorf("%w: question must be between 1 and %d characters", ErrValidation, maxTextLen)
	}
	c, _, err := s.department(ctx, actor, channelID)
	if err != nil {
		return nil, err
	}
	if c.Assigned() {
		return nil, ErrAlreadyAssigned
	}

	unlock := s.Locks.Lock(keylock.Channel(channelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	messageID, err := s.Chat.Send(ctx, channelID, s.render().question(channelID, actor.UserID, text))
	if err != nil {
		return nil, fmt.Errorf("%w: post question: %v", ErrExternal, err)
	}
	q := &models.Question{
		MessageID:    messageID,
		ChannelID:    channelID,
		FreelancerID: actor.UserID,
		Question:     text,
		Status:       models.QuestionPending,
	}
	err = s.Questions.CreateTx(ctx, tx, q)
	if err == nil {
		err = tx.Commit(ctx)
	}
	if err != nil {
		if derr := s.Chat.Delete(ctx, channelID, messageID); derr != nil {
			s.log().Warn("remove unrecorded question message", "channel_id", channelID, "error", derr)
		}
		return nil, fmt.Errorf("record question: %w", err)
	}
	return q, nil
}

// AnswerQuestion stores the creator's answer and updates the question message.
func (s *CommissionService) AnswerQuestion(ctx context.Context, actor Actor, channelID, messageID int64, answer string) (*models.Question, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" || utf8.RuneCountInString(answer) > maxTextLen {
		return nil, fmt.Errorf("%w: answer must be between 1 and %d characters", ErrValidation, maxTextLen)
	}

	unlock := s.Locks.Lock(keylock.Channel(channelID))
	defer unlock()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := s.Commissions.GetForUpdate(ctx, tx, channelID)
	if err != nil {
		return nil, mapRepoErr(err, "commission")
	}
	if c.CreatorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the commission creator can answer questions", ErrPermissionDenied)
	}
	q, err := s.Questions.GetForUpdate(ctx, tx, messageID)
	if err != nil {
		return nil, mapRepoErr(err, "question")
	}
	if q.ChannelID != channelID {
		return nil, fmt.Errorf("%w: question", ErrNotFound)
	}
	if q.Status == models.QuestionAnswered {
		return nil, ErrAlreadyAnswered
	}
	now := time.Now().UTC()
	if err := s.Questions.AnswerTx(ctx, tx, messageID, answer, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyAnswered
		}
		return nil, fmt.Errorf("record answer: %w", err)
	}
	if err := s.Notify(ctx, tx, Notification{
		UserID: q.FreelancerID,
		Title:  "Question answered",
		Body:   fmt.Sprintf("Your question in <#%d> was answered:\n%s", channelID, answer),
	}); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err := s.Chat.Edit(ctx, channelID, messageID, s.render().answeredQuestion(q, answer)); err != nil {
		s.log().Warn("update answered question message", "channel_id", channelID, "error", err)
	}
	q.Answer = &answer
	q.Status = models.QuestionAnswered
	q.AnsweredAt = &now
	return q, nil
}
