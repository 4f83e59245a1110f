package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/inaiurai/commissionbot/internal/actions"
	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/dedupe"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/money"
	"github.com/inaiurai/commissionbot/internal/services"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type call struct {
	Name      string
	ChannelID int64
	MessageID int64
	Text      string
}

type fakeCommissions struct {
	mu    sync.Mutex
	calls []call
	err   error
	close *services.CloseResult
}

func (f *fakeCommissions) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeCommissions) SubmitQuote(_ context.Context, a services.Actor, ch int64, amount, note string) (*services.QuoteResult, error) {
	if err := f.record(call{Name: "quote", ChannelID: ch, Text: amount + "|" + note}); err != nil {
		return nil, err
	}
	return &services.QuoteResult{
		Quote:     &models.Quote{FreelancerID: a.UserID, AmountCents: 10000},
		Breakdown: money.Breakdown{AmountCents: 10000, FeeCents: 500, TotalCents: 10500},
	}, nil
}

func (f *fakeCommissions) AskQuestion(_ context.Context, _ services.Actor, ch int64, text string) (*models.Question, error) {
	return &models.Question{}, f.record(call{Name: "ask", ChannelID: ch, Text: text})
}

func (f *fakeCommissions) AnswerQuestion(_ context.Context, _ services.Actor, ch, msg int64, answer string) (*models.Question, error) {
	return &models.Question{}, f.record(call{Name: "answer", ChannelID: ch, MessageID: msg, Text: answer})
}

func (f *fakeCommissions) AcceptQuote(_ context.Context, _ services.Actor, ch, msg int64) (*services.AcceptResult, error) {
	if err := f.record(call{Name: "accept", ChannelID: ch, MessageID: msg}); err != nil {
		return nil, err
	}
	return &services.AcceptResult{Quote: &models.Quote{MessageID: msg, FreelancerID: 2001, AmountCents: 10000}}, nil
}

func (f *fakeCommissions) DeclineQuote(_ context.Context, _ services.Actor, ch, msg int64) (models.CommissionState, error) {
	return models.CommissionOpen, f.record(call{Name: "decline", ChannelID: ch, MessageID: msg})
}

func (f *fakeCommissions) CloseTicket(_ context.Context, _ services.Actor, ch int64) (*services.CloseResult, error) {
	if err := f.record(call{Name: "close", ChannelID: ch}); err != nil {
		return nil, err
	}
	if f.close != nil {
		return f.close, nil
	}
	return &services.CloseResult{}, nil
}

func (f *fakeCommissions) Vouch(_ context.Context, _ services.Actor, ch int64) (*models.Commission, error) {
	if err := f.record(call{Name: "vouch", ChannelID: ch}); err != nil {
		return nil, err
	}
	freelancer := int64(2001)
	return &models.Commission{ChannelID: ch, FreelancerID: &freelancer}, nil
}

func (f *fakeCommissions) SubmitVouch(_ context.Context, _ services.Actor, req services.VouchRequest) (*models.Commission, error) {
	err := f.record(call{Name: "submit_vouch", ChannelID: req.ChannelID, MessageID: int64(req.Rating), Text: req.Comment})
	return &models.Commission{ChannelID: req.ChannelID}, err
}

type fakeTickets struct {
	mu      sync.Mutex
	opened  []services.OpenTicketRequest
	deleted []int64
	added   []int64
}

func (f *fakeTickets) OpenTicket(_ context.Context, _ services.Actor, req services.OpenTicketRequest) (*services.TicketResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, req)
	return &services.TicketResult{ChannelID: 5150}, nil
}

func (f *fakeTickets) AddMember(_ context.Context, _ services.Actor, _, memberID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, memberID)
	return nil
}

func (f *fakeTickets) RemoveMember(context.Context, services.Actor, int64, int64) error { return nil }

func (f *fakeTickets) DeleteChannel(_ context.Context, channelID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
}

type fakeWallets struct {
	resolved []models.WithdrawalOutcome
	restored bool
}

func (f *fakeWallets) View(_ context.Context, memberID int64) (*models.Wallet, error) {
	email := "f@example.com"
	return &models.Wallet{MemberID: memberID, BalanceCents: 7500, PayPalEmail: &email}, nil
}

func (f *fakeWallets) SetPayPal(context.Context, services.Actor, string) error { return nil }

func (f *fakeWallets) RequestWithdrawal(_ context.Context, a services.Actor) (*models.Withdrawal, error) {
	return &models.Withdrawal{FreelancerID: a.UserID, AmountCents: 7500, PayPalEmail: "f@example.com"}, nil
}

func (f *fakeWallets) ResolveWithdrawal(_ context.Context, _ services.Actor, msg int64, o models.WithdrawalOutcome) (*services.ResolveResult, error) {
	f.resolved = append(f.resolved, o)
	return &services.ResolveResult{
		Withdrawal: &models.Withdrawal{MessageID: msg, FreelancerID: 2001, AmountCents: 7500},
		Outcome:    o,
		Restored:   f.restored,
	}, nil
}

type fakeProfiles struct {
	profiles map[int64]models.Profile
}

func (f *fakeProfiles) SetField(_ context.Context, a services.Actor, field models.ProfileField, value string) error {
	p := f.profiles[a.UserID]
	p.Set(field, value)
	f.profiles[a.UserID] = p
	return nil
}

func (f *fakeProfiles) View(_ context.Context, memberID int64) (*models.Profile, error) {
	p, ok := f.profiles[memberID]
	if !ok {
		return nil, fmt.Errorf("%w: profile", services.ErrNotFound)
	}
	return &p, nil
}

type fakeChat struct {
	chat.Platform
	sent []chat.Message
}

func (f *fakeChat) Send(_ context.Context, _ int64, msg chat.Message) (int64, error) {
	f.sent = append(f.sent, msg)
	return int64(len(f.sent)), nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const (
	ticketRole     = 10
	freelancerRole = 13
	deptChannel    = 700
)

func testConfig() *config.Config {
	return &config.Config{
		General: config.General{GuildID: 1, EmbedColor: "#5865F2"},
		Invoice: config.Invoice{FeePercent: 5, Currency: "USD"},
		Permissions: config.Permissions{
			TicketRoles:     []int64{ticketRole},
			FreelancerRoles: []int64{freelancerRole},
		},
		Tickets: config.Tickets{
			WithdrawChannelID: 500,
			Categories: map[string]config.Category{
				config.CategoryQuotes: {CategoryID: 600, Questions: []config.Prompt{
					{Label: "What do you need?", Reference: "need", Long: true},
					{Label: "Budget", Reference: "budget"},
				}},
				config.CategorySupport: {CategoryID: 601},
			},
		},
		Departments: []config.Department{{Name: "Builds", RoleID: 20, ChannelID: deptChannel}},
	}
}

type testEnv struct {
	h           *Handler
	commissions *fakeCommissions
	tickets     *fakeTickets
	wallets     *fakeWallets
	profiles    *fakeProfiles
	chat        *fakeChat
}

func newTestEnv() *testEnv {
	env := &testEnv{
		commissions: &fakeCommissions{},
		tickets:     &fakeTickets{},
		wallets:     &fakeWallets{},
		profiles:    &fakeProfiles{profiles: map[int64]models.Profile{}},
		chat:        &fakeChat{},
	}
	env.h = &Handler{
		Commissions: env.commissions,
		Tickets:     env.tickets,
		Wallets:     env.wallets,
		Profiles:    env.profiles,
		Chat:        env.chat,
		Config:      testConfig(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return env
}

func component(customID string, messageID int64) *Interaction {
	return &Interaction{
		ID: customID, Kind: KindComponent, ChannelID: 4242, MessageID: messageID,
		Actor: services.Actor{UserID: 1001, RoleIDs: []int64{freelancerRole}}, CustomID: customID,
	}
}

func command(name string, opts map[string]string) *Interaction {
	return &Interaction{
		ID: name, Kind: KindCommand, ChannelID: 4242,
		Actor: services.Actor{UserID: 1001, RoleIDs: []int64{freelancerRole}}, Command: name, Options: opts,
	}
}

// ---------------------------------------------------------------------------
// Routing
// ---------------------------------------------------------------------------

func TestHandler_EveryActionAndCommandRouted(t *testing.T) {
	h := newTestEnv().h
	h.init()
	for _, a := range actions.All {
		if h.actions[a] == nil {
			t.Errorf("action %q has no handler", a)
		}
	}
	for _, c := range Commands {
		if h.commands[c] == nil {
			t.Errorf("command %q has no handler", c)
		}
	}
}

func TestHandle_UnknownCustomID(t *testing.T) {
	resp := newTestEnv().h.Handle(context.Background(), component("nope:nothing", 1))
	if resp == nil || !resp.Ephemeral || !strings.Contains(resp.Message.Content, "no longer exists") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestHandle_DuplicateInteractionDropped(t *testing.T) {
	env := newTestEnv()
	env.h.Dedupe = dedupe.NewMemory(dedupe.DefaultTTL)
	i := component(actions.QuoteAccept.ID(4242), 9001)

	if resp := env.h.Handle(context.Background(), i); resp == nil {
		t.Fatal("first delivery produced no response")
	}
	if resp := env.h.Handle(context.Background(), i); resp != nil {
		t.Fatalf("redelivery produced %+v", resp)
	}
	if n := len(env.commissions.calls); n != 1 {
		t.Errorf("accept calls = %d, want 1", n)
	}
}

func TestHandle_RateLimited(t *testing.T) {
	env := newTestEnv()
	env.h.Limiter = NewLimiter(0.001, 1)

	first := env.h.Handle(context.Background(), command(CmdCalculate, map[string]string{"amount": "100"}))
	second := env.h.Handle(context.Background(), command(CmdCalculate, map[string]string{"amount": "100"}))
	if strings.Contains(first.Message.Content, "too fast") {
		t.Fatal("first interaction rate limited")
	}
	if !strings.Contains(second.Message.Content, "too fast") {
		t.Fatalf("second response = %q", second.Message.Content)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err      error
		want     string
		expected bool
	}{
		{fmt.Errorf("%w: only the commission creator can accept quotes", services.ErrPermissionDenied), "permission to do that: only the commission creator", true},
		{fmt.Errorf("%w: amount is not a number", services.ErrValidation), "Invalid input: amount is not a number.", true},
		{services.ErrAlreadyAssigned, "already has a freelancer", true},
		{services.ErrWithdrawalNotFound, "already resolved", true},
		{services.ErrInsufficientFunds, "no balance", true},
		{services.ErrNoPayoutEmail, "PayPal email", true},
		{fmt.Errorf("%w: post quote: 503", services.ErrExternal), "did not respond", false},
		{errors.New("connection reset"), "Something went wrong", false},
	}
	for _, tt := range tests {
		got, expected := describe(tt.err)
		if !strings.Contains(got, tt.want) || expected != tt.expected {
			t.Errorf("describe(%v) = %q, %v; want %q, %v", tt.err, got, expected, tt.want, tt.expected)
		}
	}
}

func TestDeferred(t *testing.T) {
	h := newTestEnv().h
	if !h.Deferred(command(CmdInvoice, nil)) {
		t.Error("invoice should be deferred")
	}
	if h.Deferred(command(CmdCalculate, nil)) {
		t.Error("calculate should not be deferred")
	}
	form := &Interaction{Kind: KindModal, CustomID: actions.TicketForm.ID("quotes", deptChannel)}
	if !h.Deferred(form) {
		t.Error("ticket form should be deferred")
	}
}

// ---------------------------------------------------------------------------
// Commission flow
// ---------------------------------------------------------------------------

func TestQuoteAccept_UsesComponentMessage(t *testing.T) {
	env := newTestEnv()
	resp := env.h.Handle(context.Background(), component(actions.QuoteAccept.ID(4242), 9001))

	if resp.Ephemeral || !strings.Contains(resp.Message.Content, "<@2001> has been hired for 100.00") {
		t.Fatalf("resp = %+v", resp)
	}
	c := env.commissions.calls[0]
	if c.Name != "accept" || c.ChannelID != 4242 || c.MessageID != 9001 {
		t.Errorf("call = %+v", c)
	}
}

func TestQuoteStartAndForm(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := env.h.Handle(ctx, component(actions.QuoteStart.ID(4242), 1))
	if resp.Kind != RespondModal || resp.Modal.CustomID != actions.QuoteForm.ID(4242) || len(resp.Modal.Inputs) != 2 {
		t.Fatalf("resp = %+v", resp)
	}

	form := &Interaction{
		ID: "m1", Kind: KindModal, Actor: services.Actor{UserID: 2001}, CustomID: resp.Modal.CustomID,
		Fields: map[string]string{inputAmount: " 100 ", inputMessage: "ready"},
	}
	resp = env.h.Handle(ctx, form)
	if !strings.Contains(resp.Message.Content, "client pays 105.00") {
		t.Fatalf("resp = %q", resp.Message.Content)
	}
	if c := env.commissions.calls[0]; c.ChannelID != 4242 || c.Text != "100|ready" {
		t.Errorf("call = %+v", c)
	}
}

func TestQuestionReply_CarriesQuestionMessage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := env.h.Handle(ctx, component(actions.QuestionReply.ID(4242), 777))
	if resp.Kind != RespondModal {
		t.Fatalf("resp = %+v", resp)
	}
	form := &Interaction{
		ID: "m2", Kind: KindModal, Actor: services.Actor{UserID: 1001}, CustomID: resp.Modal.CustomID,
		Fields: map[string]string{inputAnswer: "4K please"},
	}
	env.h.Handle(ctx, form)
	c := env.commissions.calls[0]
	if c.Name != "answer" || c.ChannelID != 4242 || c.MessageID != 777 || c.Text != "4K please" {
		t.Errorf("call = %+v", c)
	}
}

func TestClose_DeletesChannelAfterReply(t *testing.T) {
	env := newTestEnv()
	freelancer := int64(2001)
	env.commissions.close = &services.CloseResult{
		Commission:    &models.Commission{ChannelID: 4242, FreelancerID: &freelancer},
		CreditedCents: 12000,
	}

	resp := env.h.Handle(context.Background(), command(CmdClose, nil))
	if !strings.Contains(resp.Message.Content, "<@2001> was credited 120.00") {
		t.Fatalf("content = %q", resp.Message.Content)
	}
	if len(env.tickets.deleted) != 0 {
		t.Fatal("channel deleted before the reply was sent")
	}
	resp.After(context.Background())
	if len(env.tickets.deleted) != 1 || env.tickets.deleted[0] != 4242 {
		t.Errorf("deleted = %v", env.tickets.deleted)
	}
}

func TestClose_ErrorKeepsChannel(t *testing.T) {
	env := newTestEnv()
	env.commissions.err = services.ErrPermissionDenied

	resp := env.h.Handle(context.Background(), component(actions.TicketClose.ID(), 1))
	if resp.After != nil || !strings.Contains(resp.Message.Content, "permission") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestCalculate(t *testing.T) {
	resp := newTestEnv().h.Handle(context.Background(), command(CmdCalculate, map[string]string{"amount": "95"}))
	fields := resp.Message.Embeds[0].Fields
	if fields[1].Value != "charge 100.00" || fields[2].Value != "you receive 90.25" {
		t.Errorf("fields = %+v", fields)
	}
}

// ---------------------------------------------------------------------------
// Tickets
// ---------------------------------------------------------------------------

func TestTicketOpen_QuotesAsksForDepartment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := env.h.Handle(ctx, component(actions.TicketOpen.ID(config.CategoryQuotes), 1))
	if resp.Message.Select == nil || len(resp.Message.Select.Options) != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	sel := component(actions.TicketDepartment.ID(), 1)
	sel.ID = "sel"
	sel.Values = []string{resp.Message.Select.Options[0].Value}
	resp = env.h.Handle(ctx, sel)
	if resp.Kind != RespondModal || len(resp.Modal.Inputs) != 2 {
		t.Fatalf("resp = %+v", resp)
	}

	form := &Interaction{
		ID: "form", Kind: KindModal, Actor: services.Actor{UserID: 1001}, CustomID: resp.Modal.CustomID,
		Fields: map[string]string{"need": "a castle", "budget": "$100"},
	}
	resp = env.h.Handle(ctx, form)
	if !strings.Contains(resp.Message.Content, "<#5150>") {
		t.Fatalf("content = %q", resp.Message.Content)
	}
	req := env.tickets.opened[0]
	if req.Category != config.CategoryQuotes || req.Department != "Builds" || len(req.Answers) != 2 || req.Answers[0].Value != "a castle" {
		t.Errorf("request = %+v", req)
	}
}

func TestTicketOpen_SupportOpensDirectly(t *testing.T) {
	env := newTestEnv()
	resp := env.h.Handle(context.Background(), component(actions.TicketOpen.ID(config.CategorySupport), 1))
	if resp.Kind != RespondMessage || len(env.tickets.opened) != 1 {
		t.Fatalf("resp = %+v opened = %d", resp, len(env.tickets.opened))
	}
}

func TestTicketPanel(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := env.h.Handle(ctx, command(CmdTicketPanel, nil))
	if !strings.Contains(resp.Message.Content, "permission") {
		t.Fatalf("non-staff content = %q", resp.Message.Content)
	}
	i := command(CmdTicketPanel, nil)
	i.ID = "panel-2"
	i.Actor.RoleIDs = []int64{ticketRole}
	env.h.Handle(ctx, i)
	if len(env.chat.sent) != 1 || len(env.chat.sent[0].Buttons) != 2 {
		t.Fatalf("sent = %+v", env.chat.sent)
	}
}

// ---------------------------------------------------------------------------
// Wallet and profile
// ---------------------------------------------------------------------------

func TestWalletCommand(t *testing.T) {
	env := newTestEnv()
	resp := env.h.Handle(context.Background(), command(CmdWallet, nil))
	if !resp.Ephemeral || resp.Message.Embeds[0].Fields[0].Value != "75.00 USD" {
		t.Fatalf("resp = %+v", resp)
	}

	outsider := command(CmdWallet, nil)
	outsider.ID = "w2"
	outsider.Actor.RoleIDs = nil
	resp = env.h.Handle(context.Background(), outsider)
	if !strings.Contains(resp.Message.Content, "permission") {
		t.Errorf("outsider content = %q", resp.Message.Content)
	}
}

func TestWithdrawalResolve(t *testing.T) {
	env := newTestEnv()
	env.wallets.restored = true

	resp := env.h.Handle(context.Background(), component(actions.WithdrawalDeny.ID(), 31))
	if !strings.Contains(resp.Message.Content, "denied") || !strings.Contains(resp.Message.Content, "returned") {
		t.Fatalf("content = %q", resp.Message.Content)
	}
	if len(env.wallets.resolved) != 1 || env.wallets.resolved[0] != models.WithdrawalDeny {
		t.Errorf("resolved = %v", env.wallets.resolved)
	}
}

func TestProfileEditAndSave(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := env.h.Handle(ctx, command(CmdProfile, nil))
	if len(resp.Message.Buttons) != 1 {
		t.Fatalf("own profile has no edit button: %+v", resp)
	}
	resp = env.h.Handle(ctx, component(actions.ProfileEdit.ID(), 1))
	if resp.Kind != RespondModal || len(resp.Modal.Inputs) != len(models.ProfileFields) {
		t.Fatalf("resp = %+v", resp)
	}
	form := &Interaction{
		ID: "pf", Kind: KindModal, Actor: services.Actor{UserID: 1001}, CustomID: resp.Modal.CustomID,
		Fields: map[string]string{string(models.ProfileTimezone): "UTC"},
	}
	resp = env.h.Handle(ctx, form)
	if !strings.Contains(resp.Message.Content, "Timezone") {
		t.Fatalf("content = %q", resp.Message.Content)
	}
	if env.profiles.profiles[1001].Timezone != "UTC" {
		t.Errorf("profile = %+v", env.profiles.profiles[1001])
	}

	other := command(CmdProfile, map[string]string{"member": "3003"})
	other.ID = "p3"
	resp = env.h.Handle(ctx, other)
	if !strings.Contains(resp.Message.Content, "no longer exists") {
		t.Errorf("missing profile content = %q", resp.Message.Content)
	}
}

// ---------------------------------------------------------------------------
// Vouch
// ---------------------------------------------------------------------------

func TestVouch_RatingThenReview(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp := env.h.Handle(ctx, command(CmdVouch, map[string]string{"member": "1001"}))
	if resp.Ephemeral || resp.Message.Content != "<@1001>" {
		t.Fatalf("resp = %+v", resp)
	}
	if !strings.Contains(resp.Message.Embeds[0].Description, "<@2001>") {
		t.Errorf("description = %q", resp.Message.Embeds[0].Description)
	}
	sel := resp.Message.Select
	if sel == nil || sel.CustomID != actions.VouchRating.ID(4242, 1001) || len(sel.Options) != 5 {
		t.Fatalf("select = %+v", sel)
	}

	pick := component(sel.CustomID, 55)
	pick.Values = []string{"4"}
	resp = env.h.Handle(ctx, pick)
	if resp.Kind != RespondModal || resp.Modal.CustomID != actions.VouchForm.ID(4242, 1001, 4) {
		t.Fatalf("resp = %+v", resp)
	}

	form := &Interaction{
		ID: "vf", Kind: KindModal, Actor: services.Actor{UserID: 1001}, CustomID: resp.Modal.CustomID,
		Fields: map[string]string{inputReview: "Great work"},
	}
	resp = env.h.Handle(ctx, form)
	if resp.Kind != RespondUpdate || resp.Message.Content != "Vouch Submitted" {
		t.Fatalf("resp = %+v", resp)
	}
	last := env.commissions.calls[len(env.commissions.calls)-1]
	if last.Name != "submit_vouch" || last.ChannelID != 4242 || last.MessageID != 4 || last.Text != "Great work" {
		t.Errorf("call = %+v", last)
	}
}

func TestVouch_RatingByOtherMemberRejected(t *testing.T) {
	env := newTestEnv()

	pick := component(actions.VouchRating.ID(4242, 3003), 55)
	pick.Values = []string{"5"}
	resp := env.h.Handle(context.Background(), pick)
	if resp.Kind != RespondMessage || !strings.Contains(resp.Message.Content, "not for you") {
		t.Fatalf("resp = %+v", resp)
	}

	form := &Interaction{
		ID: "vf2", Kind: KindModal, Actor: services.Actor{UserID: 1001}, CustomID: actions.VouchForm.ID(4242, 3003, 5),
		Fields: map[string]string{inputReview: "sneaky"},
	}
	resp = env.h.Handle(context.Background(), form)
	if !strings.Contains(resp.Message.Content, "not for you") {
		t.Fatalf("form resp = %q", resp.Message.Content)
	}
	if len(env.commissions.calls) != 0 {
		t.Errorf("calls = %+v", env.commissions.calls)
	}
}

func TestVouch_ServiceRejection(t *testing.T) {
	env := newTestEnv()
	env.commissions.err = fmt.Errorf("%w: this commission has no freelancer", services.ErrValidation)

	resp := env.h.Handle(context.Background(), command(CmdVouch, map[string]string{"member": "1001"}))
	if !resp.Ephemeral || !strings.Contains(resp.Message.Content, "no freelancer") {
		t.Fatalf("resp = %+v", resp)
	}
}
