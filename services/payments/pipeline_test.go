package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	errors "payguard/errors"
	models "payguard/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore mimics the Mongo repository: atomic insert per fingerprint, at
// most one Record call ever succeeds.
type memStore struct {
	mu        sync.Mutex
	records   map[string]models.TransactionRecord
	existsErr error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]models.TransactionRecord)}
}

func (s *memStore) Exists(_ context.Context, fingerprint string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[fingerprint]
	return ok, nil
}

func (s *memStore) Record(_ context.Context, record models.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Fingerprint]; ok {
		return errors.DuplicateTransactionErr(record.Fingerprint)
	}
	s.records[record.Fingerprint] = record
	return nil
}

type stubClassifier struct {
	verdict models.FraudVerdict
}

func (c *stubClassifier) Classify(_ context.Context, _ string) models.FraudVerdict {
	return c.verdict
}

type countingNotifier struct {
	mu         sync.Mutex
	calls      int
	lastReason string
}

func (n *countingNotifier) Alert(_ context.Context, _ string, _ decimal.Decimal, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.lastReason = reason
}

type stubSubmitter struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubSubmitter) Submit(_ context.Context, _ string, _ decimal.Decimal, _ string) (models.PaymentReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return models.PaymentReceipt{}, s.err
	}
	return models.PaymentReceipt{Reference: "pay_123"}, nil
}

type capturedEvents struct {
	mu     sync.Mutex
	events []models.TransactionEvent
}

func (e *capturedEvents) Publish(_ context.Context, event models.TransactionEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

type pipelineFixture struct {
	pipeline   *Pipeline
	store      *memStore
	classifier *stubClassifier
	notifier   *countingNotifier
	submitter  *stubSubmitter
	events     *capturedEvents
}

func newFixture() *pipelineFixture {
	f := &pipelineFixture{
		store:      newMemStore(),
		classifier: &stubClassifier{verdict: models.FraudVerdict{Fraudulent: false, Reason: "routine invoice"}},
		notifier:   &countingNotifier{},
		submitter:  &stubSubmitter{},
		events:     &capturedEvents{},
	}
	f.pipeline = NewPipeline(zap.NewNop(), f.store, f.classifier, f.notifier, f.submitter, f.events)
	return f
}

func paymentRequest() models.PaymentRequest {
	return models.PaymentRequest{
		EmailText: "Please pay invoice",
		PaymentDetails: models.PaymentDetails{
			Vendor: "ACME123",
			Amount: decimal.NewFromInt(500),
		},
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture()

	result, err := f.pipeline.Submit(context.Background(), paymentRequest())

	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
	require.NotNil(t, result.Receipt)
	assert.Equal(t, "pay_123", result.Receipt.Reference)

	require.Len(t, f.store.records, 1)
	for _, record := range f.store.records {
		assert.Equal(t, models.StatusSuccess, record.Status)
		assert.Equal(t, "ACME123", record.Vendor)
		assert.Equal(t, "500", record.Amount)
	}
	assert.Equal(t, 0, f.notifier.calls)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.StatusSuccess, f.events.events[0].Status)
}

func TestSubmitDuplicateReplay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.pipeline.Submit(ctx, paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, first.Status)

	second, err := f.pipeline.Submit(ctx, paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDuplicate, second.Status)
	assert.NotEmpty(t, second.Message)

	// No second gateway call, no new record.
	assert.Equal(t, 1, f.submitter.calls)
	assert.Len(t, f.store.records, 1)
}

func TestSubmitBlocked(t *testing.T) {
	f := newFixture()
	f.classifier.verdict = models.FraudVerdict{Fraudulent: true, Reason: "urgency + new vendor"}

	req := paymentRequest()
	req.EmailText = "URGENT: wire transfer to new account TODAY"
	result, err := f.pipeline.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, result.Status)
	assert.Equal(t, "Potential BEC detected!", result.Message)
	assert.Equal(t, "urgency + new vendor", result.Reason)

	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, "urgency + new vendor", f.notifier.lastReason)
	assert.Equal(t, 0, f.submitter.calls)

	require.Len(t, f.store.records, 1)
	for _, record := range f.store.records {
		assert.Equal(t, models.StatusBlocked, record.Status)
	}
}

func TestBlockedThenReplayIsDuplicate(t *testing.T) {
	f := newFixture()
	f.classifier.verdict = models.FraudVerdict{Fraudulent: true, Reason: "urgency + new vendor"}
	ctx := context.Background()

	first, err := f.pipeline.Submit(ctx, paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, first.Status)

	second, err := f.pipeline.Submit(ctx, paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDuplicate, second.Status)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestSubmitGatewayFailureLeavesNoRecord(t *testing.T) {
	f := newFixture()
	f.submitter.err = errors.GatewayUnavailableErr(assert.AnError)
	ctx := context.Background()

	_, err := f.pipeline.Submit(ctx, paymentRequest())

	require.Error(t, err)
	assert.Equal(t, errors.Unavailable, errors.KindOf(err))
	assert.Equal(t, "Payman API unavailable after retries.", errors.MessageOf(err))
	assert.Empty(t, f.store.records)

	// Failed outcomes are still published for auditing.
	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.StatusFailed, f.events.events[0].Status)

	// Because no Failed record was persisted, the identical request may
	// legitimately be resubmitted once the gateway recovers.
	f.submitter.err = nil
	result, err := f.pipeline.Submit(ctx, paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
}

func TestSubmitFailsOpenWithSafeVerdict(t *testing.T) {
	f := newFixture()
	f.classifier.verdict = models.FraudVerdict{Fraudulent: false, Reason: "AI unavailable, defaulting to safe."}

	result, err := f.pipeline.Submit(context.Background(), paymentRequest())

	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 1, f.submitter.calls)
}

func TestSubmitStoreUnavailableIsFatal(t *testing.T) {
	f := newFixture()
	f.store.existsErr = errors.StoreUnavailableErr(assert.AnError)

	_, err := f.pipeline.Submit(context.Background(), paymentRequest())

	require.Error(t, err)
	assert.Equal(t, errors.Unavailable, errors.KindOf(err))
	// The dedup gate failed, so nothing downstream may run.
	assert.Equal(t, 0, f.submitter.calls)
	assert.Equal(t, 0, f.notifier.calls)
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := paymentRequest()
	req.PaymentDetails.Vendor = ""
	_, err := f.pipeline.Submit(ctx, req)
	require.Error(t, err)
	assert.Equal(t, errors.Invalid, errors.KindOf(err))

	req = paymentRequest()
	req.PaymentDetails.Amount = decimal.Zero
	_, err = f.pipeline.Submit(ctx, req)
	require.Error(t, err)
	assert.Equal(t, errors.Invalid, errors.KindOf(err))

	assert.Equal(t, 0, f.submitter.calls)
}

func TestConcurrentSubmissionsRecordOnce(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const workers = 8
	results := make(chan models.TxStatus, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.pipeline.Submit(ctx, paymentRequest())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- result.Status
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for status := range results {
		switch status {
		case models.StatusSuccess:
			successes++
		case models.StatusDuplicate:
			duplicates++
		default:
			t.Errorf("unexpected status %s", status)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, duplicates)
	assert.Len(t, f.store.records, 1)
}
