package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/keylock"
	"github.com/inaiurai/commissionbot/internal/ledger"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/paypal"
	"github.com/inaiurai/commissionbot/internal/repository"
)

// ---------------------------------------------------------------------------
// In-memory store. Begin snapshots the state and Rollback without Commit
// restores it, so failed operations can be checked for partial writes.
// ---------------------------------------------------------------------------

type memState struct {
	commissions   map[int64]models.Commission
	quotes        map[int64]models.Quote
	questions     map[int64]models.Question
	invoices      map[string]models.Invoice
	wallets       map[int64]models.Wallet
	withdrawals   map[int64]models.Withdrawal
	profiles      map[int64]models.Profile
	entries       []models.WalletEntry
	notifications []Notification
}

func newMemState() memState {
	return memState{
		commissions: map[int64]models.Commission{},
		quotes:      map[int64]models.Quote{},
		questions:   map[int64]models.Question{},
		invoices:    map[string]models.Invoice{},
		wallets:     map[int64]models.Wallet{},
		withdrawals: map[int64]models.Withdrawal{},
		profiles:    map[int64]models.Profile{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s memState) clone() memState {
	return memState{
		commissions:   cloneMap(s.commissions),
		quotes:        cloneMap(s.quotes),
		questions:     cloneMap(s.questions),
		invoices:      cloneMap(s.invoices),
		wallets:       cloneMap(s.wallets),
		withdrawals:   cloneMap(s.withdrawals),
		profiles:      cloneMap(s.profiles),
		entries:       append([]models.WalletEntry(nil), s.entries...),
		notifications: append([]Notification(nil), s.notifications...),
	}
}

type memStore struct {
	mu        sync.Mutex
	state     memState
	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) Begin(context.Context) (pgx.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &memTx{store: m, snapshot: m.state.clone()}, nil
}

// --- memTx satisfies pgx.Tx; only Commit/Rollback are called. ---

type memTx struct {
	store    *memStore
	snapshot memState
	done     bool
}

func (t *memTx) Begin(context.Context) (pgx.Tx, error) { return nil, errors.New("nested tx") }

func (t *memTx) Commit(context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.commits++
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.rollbacks++
	t.store.state = t.snapshot
	return nil
}

func (t *memTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *memTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *memTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *memTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }

// ---------------------------------------------------------------------------
// Repository adapters over memStore
// ---------------------------------------------------------------------------

type memCommissions struct{ *memStore }

func (m memCommissions) CreateTx(_ context.Context, _ pgx.Tx, c *models.Commission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.commissions[c.ChannelID]; ok {
		return fmt.Errorf("duplicate commission %d", c.ChannelID)
	}
	c.CreatedAt = time.Now()
	m.state.commissions[c.ChannelID] = *c
	return nil
}

func (m memCommissions) Get(_ context.Context, channelID int64) (*models.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.state.commissions[channelID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m memCommissions) GetForUpdate(ctx context.Context, _ pgx.Tx, channelID int64) (*models.Commission, error) {
	return m.Get(ctx, channelID)
}

func (m memCommissions) AssignTx(_ context.Context, _ pgx.Tx, channelID, freelancerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.state.commissions[channelID]
	if !ok || c.FreelancerID != nil {
		return repository.ErrConflict
	}
	id := freelancerID
	c.FreelancerID = &id
	c.State = models.CommissionAssigned
	m.state.commissions[channelID] = c
	return nil
}

func (m memCommissions) SetStateTx(_ context.Context, _ pgx.Tx, channelID int64, state models.CommissionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.state.commissions[channelID]
	if !ok || c.FreelancerID != nil {
		return repository.ErrConflict
	}
	c.State = state
	m.state.commissions[channelID] = c
	return nil
}

func (m memCommissions) AddAccruedTx(_ context.Context, _ pgx.Tx, channelID, cents int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.state.commissions[channelID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	c.AccruedCents += cents
	m.state.commissions[channelID] = c
	return c.AccruedCents, nil
}

func (m memCommissions) DeleteTx(_ context.Context, _ pgx.Tx, channelID int64) (*models.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.state.commissions[channelID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.state.commissions, channelID)
	return &c, nil
}

type memQuotes struct{ *memStore }

func (m memQuotes) CreateTx(_ context.Context, _ pgx.Tx, q *models.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.quotes[q.MessageID] = *q
	return nil
}

func (m memQuotes) GetTx(_ context.Context, _ pgx.Tx, messageID int64) (*models.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.state.quotes[messageID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &q, nil
}

func (m memQuotes) MarkAcceptedTx(_ context.Context, _ pgx.Tx, messageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.state.quotes[messageID]
	if !ok || q.Status != models.QuotePending {
		return repository.ErrConflict
	}
	q.Status = models.QuoteAccepted
	m.state.quotes[messageID] = q
	return nil
}

func (m memQuotes) DeleteTx(_ context.Context, _ pgx.Tx, messageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.quotes[messageID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.state.quotes, messageID)
	return nil
}

func (m memQuotes) DeleteSiblingsTx(_ context.Context, _ pgx.Tx, channelID, keep int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id, q := range m.state.quotes {
		if q.ChannelID == channelID && id != keep {
			ids = append(ids, id)
			delete(m.state.quotes, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m memQuotes) CountPendingTx(_ context.Context, _ pgx.Tx, channelID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.state.quotes {
		if q.ChannelID == channelID && q.Status == models.QuotePending {
			n++
		}
	}
	return n, nil
}

func (m memQuotes) DeleteByChannelTx(_ context.Context, _ pgx.Tx, channelID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, q := range m.state.quotes {
		if q.ChannelID == channelID {
			delete(m.state.quotes, id)
			n++
		}
	}
	return n, nil
}

type memQuestions struct{ *memStore }

func (m memQuestions) CreateTx(_ context.Context, _ pgx.Tx, q *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.questions[q.MessageID] = *q
	return nil
}

func (m memQuestions) GetForUpdate(_ context.Context, _ pgx.Tx, messageID int64) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.state.questions[messageID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &q, nil
}

func (m memQuestions) AnswerTx(_ context.Context, _ pgx.Tx, messageID int64, answer string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.state.questions[messageID]
	if !ok || q.Status != models.QuestionPending {
		return repository.ErrConflict
	}
	q.Answer = &answer
	q.Status = models.QuestionAnswered
	q.AnsweredAt = &at
	m.state.questions[messageID] = q
	return nil
}

func (m memQuestions) DeleteByChannelTx(_ context.Context, _ pgx.Tx, channelID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, q := range m.state.questions {
		if q.ChannelID == channelID {
			delete(m.state.questions, id)
			n++
		}
	}
	return n, nil
}

type memInvoices struct{ *memStore }

func (m memInvoices) Create(_ context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.CreatedAt = time.Now()
	m.state.invoices[inv.InvoiceID] = *inv
	return nil
}

func (m memInvoices) ListPending(context.Context) ([]*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*models.Invoice
	for _, inv := range m.state.invoices {
		inv := inv
		list = append(list, &inv)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].InvoiceID < list[j].InvoiceID })
	return list, nil
}

func (m memInvoices) DeleteTx(_ context.Context, _ pgx.Tx, invoiceID string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.state.invoices[invoiceID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.state.invoices, invoiceID)
	return &inv, nil
}

func (m memInvoices) Delete(_ context.Context, invoiceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.invoices, invoiceID)
	return nil
}

func (m memInvoices) DeleteByChannelTx(_ context.Context, _ pgx.Tx, channelID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, inv := range m.state.invoices {
		if inv.ChannelID == channelID {
			delete(m.state.invoices, id)
			n++
		}
	}
	return n, nil
}

// memWallets implements both WalletRepo and WalletLedger.
type memWallets struct{ *memStore }

func (m memWallets) Get(_ context.Context, memberID int64) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.state.wallets[memberID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (m memWallets) UpsertPayPal(_ context.Context, memberID int64, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.state.wallets[memberID]
	w.MemberID = memberID
	e := email
	w.PayPalEmail = &e
	m.state.wallets[memberID] = w
	return nil
}

func (m memWallets) LockWallet(_ context.Context, _ pgx.Tx, memberID int64) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.state.wallets[memberID]
	if !ok {
		return nil, ledger.ErrWalletNotFound
	}
	return &w, nil
}

func (m memWallets) Credit(_ context.Context, _ pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.state.wallets[memberID]
	w.MemberID = memberID
	w.BalanceCents += amountCents
	m.state.wallets[memberID] = w
	m.state.entries = append(m.state.entries, models.WalletEntry{
		ID: uuid.New(), MemberID: memberID, EntryType: entryType,
		AmountCents: amountCents, BalanceAfterCents: w.BalanceCents, Reference: reference,
	})
	return w.BalanceCents, nil
}

func (m memWallets) Debit(_ context.Context, _ pgx.Tx, memberID, amountCents int64, entryType, reference string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.state.wallets[memberID]
	if !ok || w.BalanceCents < amountCents {
		return 0, ledger.ErrInsufficientFunds
	}
	w.BalanceCents -= amountCents
	m.state.wallets[memberID] = w
	m.state.entries = append(m.state.entries, models.WalletEntry{
		ID: uuid.New(), MemberID: memberID, EntryType: entryType,
		AmountCents: -amountCents, BalanceAfterCents: w.BalanceCents, Reference: reference,
	})
	return w.BalanceCents, nil
}

type memWithdrawals struct{ *memStore }

func (m memWithdrawals) CreateTx(_ context.Context, _ pgx.Tx, w *models.Withdrawal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.withdrawals[w.MessageID]; ok {
		return fmt.Errorf("duplicate withdrawal %d", w.MessageID)
	}
	m.state.withdrawals[w.MessageID] = *w
	return nil
}

func (m memWithdrawals) DeleteTx(_ context.Context, _ pgx.Tx, messageID int64) (*models.Withdrawal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.state.withdrawals[messageID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.state.withdrawals, messageID)
	return &w, nil
}

type memProfiles struct{ *memStore }

func (m memProfiles) Get(_ context.Context, memberID int64) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.profiles[memberID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m memProfiles) SetField(_ context.Context, memberID int64, field models.ProfileField, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.state.profiles[memberID]
	p.MemberID = memberID
	p.Set(field, value)
	m.state.profiles[memberID] = p
	return nil
}

func (m *memStore) notify(_ context.Context, _ pgx.Tx, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.notifications = append(m.state.notifications, n)
	return nil
}

// snapshot returns a copy of the committed-or-pending state for assertions.
func (m *memStore) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// ---------------------------------------------------------------------------
// Fake chat platform
// ---------------------------------------------------------------------------

type sentMessage struct {
	ChannelID int64
	MessageID int64
	Msg       chat.Message
}

type fakeChat struct {
	mu        sync.Mutex
	nextID    int64
	sent      []sentMessage
	edits     map[int64]chat.Message
	deleted   []int64
	granted   map[int64][]int64
	revoked   map[int64][]int64
	missing   map[int64]bool
	roles     map[int64][]int64
	channels  []chat.TicketChannel
	removed   []int64
	failSend  error
	failGrant error
	existsErr error
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		nextID:  9000,
		edits:   map[int64]chat.Message{},
		granted: map[int64][]int64{},
		revoked: map[int64][]int64{},
		missing: map[int64]bool{},
		roles:   map[int64][]int64{},
	}
}

func (f *fakeChat) Send(_ context.Context, channelID int64, msg chat.Message) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend != nil {
		return 0, f.failSend
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, MessageID: f.nextID, Msg: msg})
	return f.nextID, nil
}

func (f *fakeChat) Edit(_ context.Context, _ int64, messageID int64, msg chat.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits[messageID] = msg
	return nil
}

func (f *fakeChat) Delete(_ context.Context, _ int64, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeChat) MessageExists(_ context.Context, _ int64, messageID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return !f.missing[messageID], nil
}

func (f *fakeChat) SendDirect(context.Context, int64, chat.Message) error { return nil }

func (f *fakeChat) CreateTicketChannel(_ context.Context, ch chat.TicketChannel) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.channels = append(f.channels, ch)
	return f.nextID, nil
}

func (f *fakeChat) DeleteChannel(_ context.Context, channelID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, channelID)
	return nil
}

func (f *fakeChat) GrantAccess(_ context.Context, channelID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGrant != nil {
		return f.failGrant
	}
	f.granted[channelID] = append(f.granted[channelID], userID)
	return nil
}

func (f *fakeChat) RevokeAccess(_ context.Context, channelID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[channelID] = append(f.revoked[channelID], userID)
	return nil
}

func (f *fakeChat) AddRole(_ context.Context, userID, roleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

func (f *fakeChat) sentTo(channelID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, s := range f.sent {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeChat) wasDeleted(messageID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.deleted {
		if id == messageID {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Fake payment processor
// ---------------------------------------------------------------------------

type fakeProcessor struct {
	mu        sync.Mutex
	statuses  map[string]string
	statusErr error
	calls     int
	created   []paypal.InvoiceRequest
	createErr error
}

func (p *fakeProcessor) CreateInvoice(_ context.Context, in paypal.InvoiceRequest) (*paypal.Invoice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.created = append(p.created, in)
	id := fmt.Sprintf("INV2-%04d", len(p.created))
	return &paypal.Invoice{ID: id, Status: "SENT", PayURL: "https://pay.example/" + id}, nil
}

func (p *fakeProcessor) InvoiceStatus(_ context.Context, id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.statusErr != nil {
		return "", p.statusErr
	}
	return p.statuses[id], nil
}

func (p *fakeProcessor) setStatus(id, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses[id] = status
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const (
	guildID          = 1
	ticketRole       = 10
	invoiceRole      = 11
	walletAdminRole  = 12
	freelancerRole   = 13
	embedRole        = 14
	adminRole        = 15
	vouchRole        = 16
	buildsRole       = 20
	buildsChannel    = 700
	withdrawChannel  = 500
	vouchChannel     = 501
	commissionChanID = 4242
	creatorID        = 1001
)

func testConfig() *config.Config {
	return &config.Config{
		General: config.General{GuildID: guildID, EmbedColor: "#112233"},
		Invoice: config.Invoice{FeePercent: 5, Currency: "USD", MerchantName: "Orchard", PollInterval: 10 * time.Second},
		Permissions: config.Permissions{
			TicketRoles:      []int64{ticketRole},
			InvoiceRoles:     []int64{invoiceRole},
			WalletAdminRoles: []int64{walletAdminRole},
			FreelancerRoles:  []int64{freelancerRole},
			EmbedRoles:       []int64{embedRole},
			AdminRoles:       []int64{adminRole},
			VouchRoles:       []int64{vouchRole},
		},
		Tickets: config.Tickets{
			WithdrawChannelID: withdrawChannel,
			VouchChannelID:    vouchChannel,
			Categories: map[string]config.Category{
				config.CategoryQuotes:  {CategoryID: 600, AddedRoles: []int64{ticketRole}},
				config.CategorySupport: {CategoryID: 601},
			},
		},
		Departments: []config.Department{{Name: "Builds", RoleID: buildsRole, ChannelID: buildsChannel}},
		Join:        config.Join{Roles: []int64{30}, WelcomeChannelID: 800},
	}
}

type harness struct {
	store       *memStore
	chat        *fakeChat
	processor   *fakeProcessor
	cfg         *config.Config
	commissions *CommissionService
	invoices    *InvoiceService
	wallets     *WalletService
	tickets     *TicketService
}

func newHarness() *harness {
	store := newMemStore()
	fc := newFakeChat()
	proc := &fakeProcessor{statuses: map[string]string{}}
	cfg := testConfig()
	locks := keylock.New()
	validate := validator.New(validator.WithRequiredStructEnabled())

	cs := &CommissionService{
		DB:          store,
		Commissions: memCommissions{store},
		Quotes:      memQuotes{store},
		Questions:   memQuestions{store},
		Invoices:    memInvoices{store},
		Profiles:    memProfiles{store},
		Ledger:      memWallets{store},
		Chat:        fc,
		Notify:      store.notify,
		Locks:       locks,
		Config:      cfg,
	}
	return &harness{
		store:       store,
		chat:        fc,
		processor:   proc,
		cfg:         cfg,
		commissions: cs,
		invoices: &InvoiceService{
			DB:          store,
			Invoices:    memInvoices{store},
			Commissions: memCommissions{store},
			Processor:   proc,
			Chat:        fc,
			Locks:       locks,
			Config:      cfg,
			Validate:    validate,
		},
		wallets: &WalletService{
			DB:          store,
			Wallets:     memWallets{store},
			Withdrawals: memWithdrawals{store},
			Ledger:      memWallets{store},
			Chat:        fc,
			Notify:      store.notify,
			Locks:       locks,
			Config:      cfg,
			Validate:    validate,
		},
		tickets: &TicketService{Commissions: cs, Chat: fc, Config: cfg},
	}
}

// seedCommission inserts an open commission owned by creatorID.
func (h *harness) seedCommission(channelID int64) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.state.commissions[channelID] = models.Commission{
		ChannelID:           channelID,
		FreelancerChannelID: buildsChannel,
		FreelancerMessageID: 1,
		CreatorID:           creatorID,
		Department:          "Builds",
		State:               models.CommissionOpen,
	}
}

func (h *harness) seedProfile(memberID int64) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.state.profiles[memberID] = models.Profile{MemberID: memberID, Portfolio: "https://example.com"}
}

func (h *harness) seedWallet(memberID, cents int64, email string) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	w := models.Wallet{MemberID: memberID, BalanceCents: cents}
	if email != "" {
		w.PayPalEmail = &email
	}
	h.store.state.wallets[memberID] = w
}

func freelancer(id int64) Actor {
	return Actor{UserID: id, Name: fmt.Sprintf("freelancer%d", id), RoleIDs: []int64{freelancerRole, buildsRole}}
}

func creator() Actor {
	return Actor{UserID: creatorID, Name: "client"}
}
