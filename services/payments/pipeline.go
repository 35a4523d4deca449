package payments

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	errors "payguard/errors"
	identity "payguard/identity"
	models "payguard/models"
	utils "payguard/utils"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const paymentMemo = "Invoice payment"

type TransactionStore interface {
	Exists(ctx context.Context, fingerprint string) (bool, error)
	Record(ctx context.Context, record models.TransactionRecord) error
}

type Classifier interface {
	Classify(ctx context.Context, emailText string) models.FraudVerdict
}

type Notifier interface {
	Alert(ctx context.Context, vendor string, amount decimal.Decimal, reason string)
}

type PaymentSubmitter interface {
	Submit(ctx context.Context, vendor string, amount decimal.Decimal, memo string) (models.PaymentReceipt, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.TransactionEvent)
}

// Pipeline is the fraud-screening gate: fingerprint, dedup, classify, then
// block or submit, recording the terminal decision. Stateless between
// requests; all shared state lives in the TransactionStore.
type Pipeline struct {
	Logger     *zap.Logger
	Store      TransactionStore
	Classifier Classifier
	Notifier   Notifier
	Submitter  PaymentSubmitter
	Events     EventPublisher
}

func NewPipeline(logger *zap.Logger, store TransactionStore, classifier Classifier,
	notifier Notifier, submitter PaymentSubmitter, events EventPublisher) *Pipeline {
	return &Pipeline{
		Logger:     logger,
		Store:      store,
		Classifier: classifier,
		Notifier:   notifier,
		Submitter:  submitter,
		Events:     events,
	}
}

// Submit screens one payment request end to end. A populated result is one of
// Success, Blocked or Duplicate; store and gateway failures are returned as
// kinded errors for the API layer to map.
func (p *Pipeline) Submit(ctx context.Context, req models.PaymentRequest) (models.SubmitResult, error) {
	if err := validate(req); err != nil {
		return models.SubmitResult{}, err
	}

	vendor := req.PaymentDetails.Vendor
	amount := req.PaymentDetails.Amount
	fingerprint := identity.Fingerprint(req.EmailText, vendor, amount)
	logger := p.Logger.With(zap.String("fingerprint", fingerprint), zap.String("vendor", vendor))

	// Dedup gate: must run before any externally visible side effect.
	exists, err := p.Store.Exists(ctx, fingerprint)
	if err != nil {
		return models.SubmitResult{}, err
	}
	if exists {
		logger.Info("duplicate transaction rejected")
		return duplicateResult(), nil
	}

	verdict := p.Classifier.Classify(ctx, req.EmailText)

	if verdict.Fraudulent {
		logger.Warn("payment blocked", zap.String("reason", verdict.Reason))
		p.Notifier.Alert(ctx, vendor, amount, verdict.Reason)

		err = p.Store.Record(ctx, newRecord(fingerprint, vendor, amount, models.StatusBlocked))
		if errors.Is(errors.Conflict, err) {
			return duplicateResult(), nil
		}
		if err != nil {
			return models.SubmitResult{}, err
		}

		p.publish(ctx, fingerprint, vendor, amount, models.StatusBlocked, verdict.Reason)
		return models.SubmitResult{
			Status:  models.StatusBlocked,
			Message: "Potential BEC detected!",
			Reason:  verdict.Reason,
		}, nil
	}

	receipt, err := p.Submitter.Submit(ctx, vendor, amount, paymentMemo)
	if err != nil {
		// No Failed record is persisted: the same logical request stays
		// resubmittable after a gateway outage.
		logger.Error("payment submission failed", zap.Error(err))
		p.publish(ctx, fingerprint, vendor, amount, models.StatusFailed, errors.MessageOf(err))
		return models.SubmitResult{}, err
	}

	err = p.Store.Record(ctx, newRecord(fingerprint, vendor, amount, models.StatusSuccess))
	if errors.Is(errors.Conflict, err) {
		return duplicateResult(), nil
	}
	if err != nil {
		return models.SubmitResult{}, err
	}

	logger.Info("payment submitted", zap.String("reference", receipt.Reference))
	p.publish(ctx, fingerprint, vendor, amount, models.StatusSuccess, "")
	return models.SubmitResult{Status: models.StatusSuccess, Receipt: &receipt}, nil
}

func validate(req models.PaymentRequest) error {
	ve := errors.ValidationErrs()
	if req.PaymentDetails.Vendor == "" {
		ve.Add("payment_details.vendor", "cannot be empty")
	}
	if !req.PaymentDetails.Amount.IsPositive() {
		ve.Add("payment_details.amount", "must be positive")
	}
	if err := ve.Err(); err != nil {
		return errors.ValidationFailedErr(err)
	}
	return nil
}

func newRecord(fingerprint, vendor string, amount decimal.Decimal, status models.TxStatus) models.TransactionRecord {
	return models.TransactionRecord{
		Fingerprint: fingerprint,
		Vendor:      vendor,
		Amount:      utils.FormatAmount(amount),
		Status:      status,
		Timestamp:   time.Now().UTC(),
	}
}

func duplicateResult() models.SubmitResult {
	return models.SubmitResult{
		Status:  models.StatusDuplicate,
		Message: "Transaction already processed.",
	}
}

func (p *Pipeline) publish(ctx context.Context, fingerprint, vendor string, amount decimal.Decimal, status models.TxStatus, reason string) {
	p.Events.Publish(ctx, models.TransactionEvent{
		Fingerprint: fingerprint,
		Vendor:      vendor,
		Amount:      utils.FormatAmount(amount),
		Status:      status,
		Reason:      reason,
		Timestamp:   time.Now().UTC(),
	})
}
