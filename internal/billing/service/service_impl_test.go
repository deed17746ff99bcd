package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	"github.com/Markinhos/antaeus/internal/config"
	"github.com/Markinhos/antaeus/internal/events"
	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	paymentdomain "github.com/Markinhos/antaeus/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type updateCall struct {
	id         snowflake.ID
	amount     invoicedomain.Money
	customerID snowflake.ID
	status     invoicedomain.InvoiceStatus
}

type fakeInvoiceRepo struct {
	mu         sync.Mutex
	invoices   map[snowflake.ID]*invoicedomain.Invoice
	updates    []updateCall
	failUpdate map[snowflake.ID]error
}

func newFakeInvoiceRepo(invoices ...invoicedomain.Invoice) *fakeInvoiceRepo {
	repo := &fakeInvoiceRepo{
		invoices:   make(map[snowflake.ID]*invoicedomain.Invoice),
		failUpdate: make(map[snowflake.ID]error),
	}
	for _, inv := range invoices {
		inv := inv
		repo.invoices[inv.ID] = &inv
	}
	return repo
}

func (r *fakeInvoiceRepo) FetchByStatus(
	_ context.Context,
	status invoicedomain.InvoiceStatus,
	afterID snowflake.ID,
	limit int,
) ([]invoicedomain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []invoicedomain.Invoice
	for _, inv := range r.invoices {
		if inv.Status == status && inv.ID > afterID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FetchByID(_ context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context) ([]invoicedomain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []invoicedomain.Invoice
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInvoiceRepo) Update(
	_ context.Context,
	id snowflake.ID,
	amount invoicedomain.Money,
	customerID snowflake.ID,
	status invoicedomain.InvoiceStatus,
) (*invoicedomain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failUpdate[id]; err != nil {
		return nil, err
	}
	inv, ok := r.invoices[id]
	if !ok {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	if inv.Status.IsTerminal() {
		return nil, invoicedomain.ErrTerminalStatus
	}
	r.updates = append(r.updates, updateCall{id: id, amount: amount, customerID: customerID, status: status})
	inv.AmountCents = amount.Value
	inv.Currency = amount.Currency
	inv.CustomerID = customerID
	inv.Status = status
	copied := *inv
	return &copied, nil
}

func (r *fakeInvoiceRepo) statusOf(t *testing.T, id snowflake.ID) invoicedomain.InvoiceStatus {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		t.Fatalf("invoice %s missing", id)
	}
	return inv.Status
}

type chargeResult struct {
	accepted bool
	err      error
}

type fakeGateway struct {
	mu     sync.Mutex
	calls  map[snowflake.ID]int
	script map[snowflake.ID][]chargeResult
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		calls:  make(map[snowflake.ID]int),
		script: make(map[snowflake.ID][]chargeResult),
	}
}

func (g *fakeGateway) on(id snowflake.ID, results ...chargeResult) {
	g.script[id] = results
}

// Charge replays the scripted results, repeating the last one. Invoices
// without a script are accepted.
func (g *fakeGateway) Charge(_ context.Context, invoice invoicedomain.Invoice) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	call := g.calls[invoice.ID]
	g.calls[invoice.ID] = call + 1

	script := g.script[invoice.ID]
	if len(script) == 0 {
		return true, nil
	}
	if call >= len(script) {
		call = len(script) - 1
	}
	result := script[call]
	return result.accepted, result.err
}

func (g *fakeGateway) callCount(id snowflake.ID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[id]
}

type fakeNotifier struct {
	mu       sync.Mutex
	invoices []invoicedomain.Invoice
}

func (n *fakeNotifier) NotifyCurrencyMismatch(_ context.Context, invoice invoicedomain.Invoice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invoices = append(n.invoices, invoice)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.invoices)
}

type fakeEscalator struct {
	mu       sync.Mutex
	invoices []snowflake.ID
	nextID   snowflake.ID
}

func (e *fakeEscalator) EscalateCustomerNotFound(_ context.Context, invoiceID snowflake.ID) (snowflake.ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invoices = append(e.invoices, invoiceID)
	if e.nextID == 0 {
		e.nextID = 9000
	}
	return e.nextID, nil
}

func (e *fakeEscalator) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.invoices)
}

func newTestService(t *testing.T, repo *fakeInvoiceRepo, gw *fakeGateway, notifier *fakeNotifier, escalator *fakeEscalator) *Service {
	t.Helper()
	return newTestServiceWithConfig(t, repo, gw, notifier, escalator,
		config.BillingConfig{MaxAttempts: 3, Concurrency: 1, BatchSize: 100})
}

func newTestServiceWithConfig(
	t *testing.T,
	repo *fakeInvoiceRepo,
	gw *fakeGateway,
	notifier *fakeNotifier,
	escalator *fakeEscalator,
	cfg config.BillingConfig,
) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := NewService(Params{
		Log:       zap.NewNop(),
		Invoices:  repo,
		Gateway:   gw,
		Notifier:  notifier,
		Escalator: escalator,
		GenID:     node,
		Config:    cfg,
	})
	return svc.(*Service)
}

func pendingInvoice(id, customerID snowflake.ID) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ID:          id,
		CustomerID:  customerID,
		AmountCents: 10000,
		Currency:    invoicedomain.CurrencyUSD,
		Status:      invoicedomain.InvoiceStatusPending,
	}
}

func TestBillClientsChargesEveryPendingInvoice(t *testing.T) {
	first := pendingInvoice(1, 1)
	second := pendingInvoice(2, 2)
	paid := pendingInvoice(3, 3)
	paid.Status = invoicedomain.InvoiceStatusPaid

	repo := newFakeInvoiceRepo(first, second, paid)
	gw := newFakeGateway()
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	report, err := svc.BillClients(context.Background())
	if err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(first.ID); got != 1 {
		t.Fatalf("expected 1 charge for invoice 1, got %d", got)
	}
	if got := gw.callCount(second.ID); got != 1 {
		t.Fatalf("expected 1 charge for invoice 2, got %d", got)
	}
	if got := gw.callCount(paid.ID); got != 0 {
		t.Fatalf("paid invoice must not be charged, got %d calls", got)
	}
	if got := repo.statusOf(t, first.ID); got != invoicedomain.InvoiceStatusPaid {
		t.Fatalf("expected PAID, got %s", got)
	}
	if got := repo.statusOf(t, second.ID); got != invoicedomain.InvoiceStatusPaid {
		t.Fatalf("expected PAID, got %s", got)
	}
	if report.Fetched != 2 || report.Paid != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBillClientsKeepsAmountAndCustomerUnchanged(t *testing.T) {
	invoice := pendingInvoice(2, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{err: &paymentdomain.TransientError{}}, chargeResult{accepted: true})
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 2 {
		t.Fatalf("expected 2 gateway calls, got %d", got)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(repo.updates))
	}
	update := repo.updates[0]
	if update.id != invoice.ID ||
		update.amount != (invoicedomain.Money{Value: 10000, Currency: invoicedomain.CurrencyUSD}) ||
		update.customerID != invoice.CustomerID ||
		update.status != invoicedomain.InvoiceStatusPaid {
		t.Fatalf("unexpected update: %+v", update)
	}
}

func TestRetrySweepOnlyChargesRetryableInvoices(t *testing.T) {
	retryable := pendingInvoice(1, 1)
	retryable.Status = invoicedomain.InvoiceStatusRetryableFailed
	pending := pendingInvoice(2, 2)
	failed := pendingInvoice(3, 3)
	failed.Status = invoicedomain.InvoiceStatusFailed

	repo := newFakeInvoiceRepo(retryable, pending, failed)
	gw := newFakeGateway()
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	if _, err := svc.RetryFailedInvoices(context.Background()); err != nil {
		t.Fatalf("retry sweep: %v", err)
	}

	if got := gw.callCount(retryable.ID); got != 1 {
		t.Fatalf("expected 1 charge, got %d", got)
	}
	if got := gw.callCount(pending.ID); got != 0 {
		t.Fatalf("retry sweep must not touch PENDING invoices, got %d calls", got)
	}
	if got := gw.callCount(failed.ID); got != 0 {
		t.Fatalf("retry sweep must not touch FAILED invoices, got %d calls", got)
	}
	if got := repo.statusOf(t, retryable.ID); got != invoicedomain.InvoiceStatusPaid {
		t.Fatalf("expected PAID, got %s", got)
	}
}

func TestCurrencyMismatchNotifiesAndSchedulesRetry(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{err: &paymentdomain.CurrencyMismatchError{InvoiceID: invoice.ID, CustomerID: invoice.CustomerID}})
	notifier := &fakeNotifier{}
	escalator := &fakeEscalator{}
	svc := newTestService(t, repo, gw, notifier, escalator)

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 1 {
		t.Fatalf("currency mismatch must not be retried, got %d calls", got)
	}
	if notifier.count() != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", notifier.count())
	}
	if escalator.count() != 0 {
		t.Fatalf("currency mismatch must not escalate, got %d tickets", escalator.count())
	}
	if got := repo.statusOf(t, invoice.ID); got != invoicedomain.InvoiceStatusRetryableFailed {
		t.Fatalf("expected RETRYABLE_FAILED, got %s", got)
	}
}

func TestCustomerNotFoundEscalatesAndFailsTerminally(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{err: &paymentdomain.CustomerNotFoundError{CustomerID: invoice.CustomerID}})
	notifier := &fakeNotifier{}
	escalator := &fakeEscalator{}
	svc := newTestService(t, repo, gw, notifier, escalator)

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 1 {
		t.Fatalf("customer not found must not be retried, got %d calls", got)
	}
	if escalator.count() != 1 {
		t.Fatalf("expected exactly 1 ticket, got %d", escalator.count())
	}
	if escalator.invoices[0] != invoice.ID {
		t.Fatalf("ticket must reference invoice %s, got %s", invoice.ID, escalator.invoices[0])
	}
	if notifier.count() != 0 {
		t.Fatalf("customer not found must not notify, got %d", notifier.count())
	}
	if got := repo.statusOf(t, invoice.ID); got != invoicedomain.InvoiceStatusFailed {
		t.Fatalf("expected FAILED, got %s", got)
	}
}

func TestTransientFailureExhaustsToRetryable(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{err: &paymentdomain.TransientError{}})
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if got := repo.statusOf(t, invoice.ID); got != invoicedomain.InvoiceStatusRetryableFailed {
		t.Fatalf("expected RETRYABLE_FAILED, got %s", got)
	}
}

func TestDeclinedChargeSchedulesRetryWithoutNotice(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{accepted: false})
	notifier := &fakeNotifier{}
	escalator := &fakeEscalator{}
	svc := newTestService(t, repo, gw, notifier, escalator)

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 1 {
		t.Fatalf("a decline must not be retried, got %d calls", got)
	}
	if notifier.count() != 0 || escalator.count() != 0 {
		t.Fatalf("a decline must not notify or escalate")
	}
	if got := repo.statusOf(t, invoice.ID); got != invoicedomain.InvoiceStatusRetryableFailed {
		t.Fatalf("expected RETRYABLE_FAILED, got %s", got)
	}
}

func TestUnknownFailureIsNotRetriedButStaysRecoverable(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{err: errors.New("weird gateway response")})
	notifier := &fakeNotifier{}
	escalator := &fakeEscalator{}
	svc := newTestService(t, repo, gw, notifier, escalator)

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 1 {
		t.Fatalf("unknown failures must not be retried, got %d calls", got)
	}
	if notifier.count() != 0 || escalator.count() != 0 {
		t.Fatalf("unknown failures must not notify or escalate")
	}
	if got := repo.statusOf(t, invoice.ID); got != invoicedomain.InvoiceStatusRetryableFailed {
		t.Fatalf("expected RETRYABLE_FAILED, got %s", got)
	}
}

func TestBatchContinuesPastFailingInvoice(t *testing.T) {
	broken := pendingInvoice(1, 1)
	healthy := pendingInvoice(2, 2)
	repo := newFakeInvoiceRepo(broken, healthy)
	repo.failUpdate[broken.ID] = errors.New("store unavailable")
	gw := newFakeGateway()
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	report, err := svc.BillClients(context.Background())
	if err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	if got := repo.statusOf(t, healthy.ID); got != invoicedomain.InvoiceStatusPaid {
		t.Fatalf("healthy invoice must still reach PAID, got %s", got)
	}
	if report.Paid != 1 || report.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSecondRunDoesNotRechargePaidInvoices(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if got := gw.callCount(invoice.ID); got != 1 {
		t.Fatalf("a PAID invoice must not be recharged, got %d calls", got)
	}
}

func TestOverlappingRunIsRejected(t *testing.T) {
	repo := newFakeInvoiceRepo(pendingInvoice(1, 1))
	svc := newTestService(t, repo, newFakeGateway(), &fakeNotifier{}, &fakeEscalator{})

	svc.runMu.Lock()
	defer svc.runMu.Unlock()

	_, err := svc.BillClients(context.Background())
	if !errors.Is(err, billingdomain.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
	_, err = svc.RetryFailedInvoices(context.Background())
	if !errors.Is(err, billingdomain.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress for retry sweep, got %v", err)
	}
}

func TestBillClientsChargesEveryPendingInvoiceAcrossPages(t *testing.T) {
	first := pendingInvoice(1, 1)
	second := pendingInvoice(2, 2)
	third := pendingInvoice(3, 3)
	repo := newFakeInvoiceRepo(first, second, third)
	gw := newFakeGateway()
	svc := newTestServiceWithConfig(t, repo, gw, &fakeNotifier{}, &fakeEscalator{},
		config.BillingConfig{MaxAttempts: 3, Concurrency: 1, BatchSize: 1})

	report, err := svc.BillClients(context.Background())
	if err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	for _, id := range []snowflake.ID{first.ID, second.ID, third.ID} {
		if got := gw.callCount(id); got != 1 {
			t.Fatalf("invoice %s: expected 1 charge, got %d", id, got)
		}
		if got := repo.statusOf(t, id); got != invoicedomain.InvoiceStatusPaid {
			t.Fatalf("invoice %s: expected PAID, got %s", id, got)
		}
	}
	if report.Fetched != 3 || report.Paid != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRetrySweepAdvancesPastInvoicesThatStayRetryable(t *testing.T) {
	first := pendingInvoice(1, 1)
	first.Status = invoicedomain.InvoiceStatusRetryableFailed
	second := pendingInvoice(2, 2)
	second.Status = invoicedomain.InvoiceStatusRetryableFailed
	repo := newFakeInvoiceRepo(first, second)
	gw := newFakeGateway()
	gw.on(first.ID, chargeResult{err: &paymentdomain.TransientError{}})
	gw.on(second.ID, chargeResult{err: &paymentdomain.TransientError{}})
	svc := newTestServiceWithConfig(t, repo, gw, &fakeNotifier{}, &fakeEscalator{},
		config.BillingConfig{MaxAttempts: 3, Concurrency: 1, BatchSize: 1})

	report, err := svc.RetryFailedInvoices(context.Background())
	if err != nil {
		t.Fatalf("retry sweep: %v", err)
	}

	// Both invoices remain RETRYABLE_FAILED; the sweep still visits each
	// exactly once and terminates.
	if got := gw.callCount(first.ID); got != 3 {
		t.Fatalf("invoice 1: expected 3 attempts, got %d", got)
	}
	if got := gw.callCount(second.ID); got != 3 {
		t.Fatalf("invoice 2: expected 3 attempts, got %d", got)
	}
	if report.Fetched != 2 || report.RetryScheduled != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestVanishedInvoiceIsSkipped(t *testing.T) {
	ghost := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(ghost)
	repo.failUpdate[ghost.ID] = invoicedomain.ErrInvoiceNotFound
	gw := newFakeGateway()
	svc := newTestService(t, repo, gw, &fakeNotifier{}, &fakeEscalator{})

	report, err := svc.BillClients(context.Background())
	if err != nil {
		t.Fatalf("bill clients: %v", err)
	}
	if report.Skipped != 1 {
		t.Fatalf("expected skipped invoice, got %+v", report)
	}
}

func openEventsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.Exec(`CREATE TABLE billing_events (
		id INTEGER PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		dedupe_key TEXT,
		published INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`).Error
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX ux_billing_events_dedupe ON billing_events (dedupe_key)`).Error; err != nil {
		t.Fatalf("create index: %v", err)
	}
	return db
}

func eventTypes(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var types []string
	if err := db.Raw(`SELECT event_type FROM billing_events ORDER BY event_type`).Scan(&types).Error; err != nil {
		t.Fatalf("read events: %v", err)
	}
	return types
}

func TestFailedInvoicePublishesFailureAndEscalationEvents(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()
	gw.on(invoice.ID, chargeResult{err: &paymentdomain.CustomerNotFoundError{CustomerID: invoice.CustomerID}})

	db := openEventsDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := NewService(Params{
		Log:       zap.NewNop(),
		Invoices:  repo,
		Gateway:   gw,
		Notifier:  &fakeNotifier{},
		Escalator: &fakeEscalator{nextID: 501},
		Outbox:    events.NewOutbox(db, node),
		GenID:     node,
		Config:    config.BillingConfig{MaxAttempts: 3, Concurrency: 1, BatchSize: 100},
	})

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	types := eventTypes(t, db)
	if len(types) != 2 || types[0] != events.EventInvoiceEscalated || types[1] != events.EventInvoiceFailed {
		t.Fatalf("expected escalated and failed events, got %v", types)
	}
}

func TestPaidInvoicePublishesPaidEvent(t *testing.T) {
	invoice := pendingInvoice(1, 1)
	repo := newFakeInvoiceRepo(invoice)
	gw := newFakeGateway()

	db := openEventsDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := NewService(Params{
		Log:       zap.NewNop(),
		Invoices:  repo,
		Gateway:   gw,
		Notifier:  &fakeNotifier{},
		Escalator: &fakeEscalator{},
		Outbox:    events.NewOutbox(db, node),
		GenID:     node,
		Config:    config.BillingConfig{MaxAttempts: 3, Concurrency: 1, BatchSize: 100},
	})

	if _, err := svc.BillClients(context.Background()); err != nil {
		t.Fatalf("bill clients: %v", err)
	}

	types := eventTypes(t, db)
	if len(types) != 1 || types[0] != events.EventInvoicePaid {
		t.Fatalf("expected a single paid event, got %v", types)
	}
}
