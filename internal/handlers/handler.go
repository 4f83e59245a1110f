// Package handlers routes user interactions to the services and turns their
// results and errors into replies.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/dedupe"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/repository"
	"github.com/inaiurai/commissionbot/internal/services"
)

// Slash command names.
const (
	CmdTicketPanel  = "ticket-panel"
	CmdClose        = "close"
	CmdAdd          = "add"
	CmdRemove       = "remove"
	CmdProfile      = "profile"
	CmdWallet       = "wallet"
	CmdInvoice      = "invoice"
	CmdCalculate    = "calculate"
	CmdEmbed        = "embed"
	CmdRefreshTable = "refreshtable"
	CmdVouch        = "vouch"
)

// Commands lists every slash command the bot registers.
var Commands = []string{
	CmdTicketPanel, CmdClose, CmdAdd, CmdRemove, CmdProfile,
	CmdWallet, CmdInvoice, CmdCalculate, CmdEmbed, CmdRefreshTable, CmdVouch,
}

// CommissionService abstracts the commission lifecycle operations.
type CommissionService interface {
	SubmitQuote(ctx context.Context, actor services.Actor, channelID int64, amount, note string) (*services.QuoteResult, error)
	AskQuestion(ctx context.Context, actor services.Actor, channelID int64, text string) (*models.Question, error)
	AnswerQuestion(ctx context.Context, actor services.Actor, channelID, messageID int64, answer string) (*models.Question, error)
	AcceptQuote(ctx context.Context, actor services.Actor, channelID, quoteMessageID int64) (*services.AcceptResult, error)
	DeclineQuote(ctx context.Context, actor services.Actor, channelID, quoteMessageID int64) (models.CommissionState, error)
	CloseTicket(ctx context.Context, actor services.Actor, channelID int64) (*services.CloseResult, error)
	Vouch(ctx context.Context, actor services.Actor, channelID int64) (*models.Commission, error)
	SubmitVouch(ctx context.Context, actor services.Actor, req services.VouchRequest) (*models.Commission, error)
}

type InvoiceService interface {
	CreateInvoice(ctx context.Context, actor services.Actor, req services.InvoiceRequest) (*services.InvoiceResult, error)
}

type WalletService interface {
	View(ctx context.Context, memberID int64) (*models.Wallet, error)
	SetPayPal(ctx context.Context, actor services.Actor, email string) error
	RequestWithdrawal(ctx context.Context, actor services.Actor) (*models.Withdrawal, error)
	ResolveWithdrawal(ctx context.Context, actor services.Actor, messageID int64, outcome models.WithdrawalOutcome) (*services.ResolveResult, error)
}

type TicketService interface {
	OpenTicket(ctx context.Context, actor services.Actor, req services.OpenTicketRequest) (*services.TicketResult, error)
	AddMember(ctx context.Context, actor services.Actor, channelID, memberID int64) error
	RemoveMember(ctx context.Context, actor services.Actor, channelID, memberID int64) error
	DeleteChannel(ctx context.Context, channelID int64)
}

type ProfileService interface {
	SetField(ctx context.Context, actor services.Actor, field models.ProfileField, value string) error
	View(ctx context.Context, memberID int64) (*models.Profile, error)
}

type EmbedService interface {
	Create(ctx context.Context, actor services.Actor, e *models.StoredEmbed) error
	View(ctx context.Context, actor services.Actor, id int64) (*models.StoredEmbed, error)
	List(ctx context.Context, actor services.Actor) ([]*models.StoredEmbed, error)
	Post(ctx context.Context, actor services.Actor, id, channelID int64) (int64, error)
	Apply(ctx context.Context, actor services.Actor, id, channelID, messageID int64) error
	Delete(ctx context.Context, actor services.Actor, id int64) error
}

type AdminService interface {
	RefreshTable(ctx context.Context, actor services.Actor, name string) (repository.Table, error)
}

var errRateLimited = errors.New("rate limited")

type commandFunc func(ctx context.Context, i *Interaction) (*Response, error)

type actionFunc func(ctx context.Context, i *Interaction, p actions.Parsed) (*Response, error)

// Handler dispatches interactions. Every field except Dedupe and Limiter is required.
type Handler struct {
	Commissions CommissionService
	Invoices    InvoiceService
	Wallets     WalletService
	Tickets     TicketService
	Profiles    ProfileService
	Embeds      EmbedService
	Admin       AdminService
	Chat        chat.Platform
	Config      *config.Config
	Dedupe      dedupe.Store
	Limiter     *Limiter
	Logger      *slog.Logger

	once     sync.Once
	commands map[string]commandFunc
	actions  map[actions.Action]actionFunc
}

func (h *Handler) init() {
	h.once.Do(func() {
		h.commands = map[string]commandFunc{
			CmdTicketPanel:  h.ticketPanel,
			CmdClose:        h.closeCommand,
			CmdAdd:          h.addMember,
			CmdRemove:       h.removeMember,
			CmdProfile:      h.profileCommand,
			CmdWallet:       h.walletCommand,
			CmdInvoice:      h.invoiceCommand,
			CmdCalculate:    h.calculateCommand,
			CmdEmbed:        h.embedCommand,
			CmdRefreshTable: h.refreshTableCommand,
			CmdVouch:        h.vouchCommand,
		}
		h.actions = map[actions.Action]actionFunc{
			actions.TicketOpen:        h.ticketOpen,
			actions.TicketDepartment:  h.ticketDepartment,
			actions.TicketForm:        h.ticketForm,
			actions.TicketClose:       h.closeButton,
			actions.QuoteStart:        h.quoteStart,
			actions.QuoteForm:         h.quoteForm,
			actions.QuestionStart:     h.questionStart,
			actions.QuestionForm:      h.questionForm,
			actions.QuoteAccept:       h.quoteAccept,
			actions.QuoteDecline:      h.quoteDecline,
			actions.QuestionReply:     h.questionReply,
			actions.QuestionReplyForm: h.questionReplyForm,
			actions.WalletPayPal:      h.walletPayPal,
			actions.WalletPayPalForm:  h.walletPayPalForm,
			actions.WalletWithdraw:    h.walletWithdraw,
			actions.WithdrawalAccept:  h.withdrawalResolve(models.WithdrawalAccept),
			actions.WithdrawalDeny:    h.withdrawalResolve(models.WithdrawalDeny),
			actions.ProfileEdit:       h.profileEdit,
			actions.ProfileForm:       h.profileForm,
			actions.VouchRating:       h.vouchRating,
			actions.VouchForm:         h.vouchForm,
		}
	})
}

func (h *Handler) log() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// Deferred reports whether i should be acknowledged before it is handled
// because its handler calls slow external services. Deferred replies are ephemeral.
func (h *Handler) Deferred(i *Interaction) bool {
	switch i.Kind {
	case KindCommand:
		return i.Command == CmdInvoice || i.Command == CmdClose
	case KindModal:
		p, err := actions.Parse(i.CustomID)
		return err == nil && p.Action == actions.TicketForm
	}
	return false
}

// Handle runs the interaction and always produces a reply, except for
// redelivered interactions, which yield nil.
func (h *Handler) Handle(ctx context.Context, i *Interaction) *Response {
	h.init()
	if h.Dedupe != nil && i.ID != "" {
		first, err := h.Dedupe.First(ctx, i.ID)
		if err != nil {
			h.log().Warn("interaction dedupe unavailable", "interaction_id", i.ID, "error", err)
		} else if !first {
			h.log().Debug("duplicate interaction dropped", "interaction_id", i.ID)
			return nil
		}
	}
	if h.Limiter != nil && !h.Limiter.Allow(i.Actor.UserID) {
		return h.fail(i, errRateLimited)
	}

	var (
		resp *Response
		err  error
	)
	switch i.Kind {
	case KindCommand:
		fn, ok := h.commands[i.Command]
		if !ok {
			err = fmt.Errorf("%w: unknown command %q", services.ErrNotFound, i.Command)
			break
		}
		resp, err = fn(ctx, i)
	case KindComponent, KindModal:
		p, perr := actions.Parse(i.CustomID)
		if perr != nil {
			err = fmt.Errorf("%w: %v", services.ErrNotFound, perr)
			break
		}
		resp, err = h.actions[p.Action](ctx, i, p)
	default:
		err = fmt.Errorf("%w: unsupported interaction", services.ErrValidation)
	}
	if err != nil {
		return h.fail(i, err)
	}
	return resp
}

func (h *Handler) fail(i *Interaction, err error) *Response {
	msg, expected := describe(err)
	if expected {
		h.log().Info("interaction rejected", "interaction_id", i.ID, "user_id", i.Actor.UserID,
			"command", i.Command, "custom_id", i.CustomID, "reason", err.Error())
	} else {
		h.log().Error("interaction failed", "interaction_id", i.ID, "user_id", i.Actor.UserID,
			"command", i.Command, "custom_id", i.CustomID, "error", err)
	}
	return reply(msg)
}

// describe turns an error into the text shown to the member and reports
// whether it is an expected rejection rather than a fault.
func describe(err error) (string, bool) {
	switch {
	case errors.Is(err, errRateLimited):
		return "You are doing that too fast. Try again in a few seconds.", true
	case errors.Is(err, services.ErrPermissionDenied):
		return "You do not have permission to do that" + detail(err, services.ErrPermissionDenied), true
	case errors.Is(err, services.ErrValidation):
		return "Invalid input" + detail(err, services.ErrValidation), true
	case errors.Is(err, services.ErrAlreadyAssigned):
		return "This commission already has a freelancer.", true
	case errors.Is(err, services.ErrAlreadyAnswered):
		return "This question was already answered.", true
	case errors.Is(err, services.ErrWithdrawalNotFound):
		return "This withdrawal was already resolved.", true
	case errors.Is(err, services.ErrInsufficientFunds):
		return "Your wallet has no balance to withdraw.", true
	case errors.Is(err, services.ErrNoPayoutEmail):
		return "Set your PayPal email with the wallet command first.", true
	case errors.Is(err, services.ErrProfileRequired):
		return "Fill in your profile with the profile command before quoting.", true
	case errors.Is(err, services.ErrNotFound):
		return "That no longer exists" + detail(err, services.ErrNotFound), true
	case errors.Is(err, services.ErrExternal):
		return "Discord or PayPal did not respond. Please try again.", false
	}
	return "Something went wrong. Please try again later.", false
}

// detail returns the text wrapped around a sentinel, e.g. ": only the creator can ...".
func detail(err, sentinel error) string {
	s := err.Error()
	prefix := sentinel.Error()
	if rest, ok := strings.CutPrefix(s, prefix); ok && strings.HasPrefix(rest, ": ") {
		return rest + "."
	}
	return "."
}
