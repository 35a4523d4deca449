package payments

import (
	// Go Internal Packages
	"context"
	goerrors "errors"
	"time"

	// Local Packages
	payman "payguard/clients/payman"
	errors "payguard/errors"
	models "payguard/models"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Gateway interface {
	SendPayment(ctx context.Context, destination string, amount decimal.Decimal, memo string) (models.PaymentReceipt, error)
}

// Submitter wraps the gateway with bounded retry. Transient failures are
// retried up to MaxAttempts with a fixed delay between attempts; business
// rejections stop immediately. Attempts are independent, no partial state is
// carried over.
type Submitter struct {
	Logger      *zap.Logger
	Gateway     Gateway
	MaxAttempts int
	RetryDelay  time.Duration
}

func NewSubmitter(logger *zap.Logger, gateway Gateway, maxAttempts int, retryDelay time.Duration) *Submitter {
	return &Submitter{Logger: logger, Gateway: gateway, MaxAttempts: maxAttempts, RetryDelay: retryDelay}
}

// Submit executes one transfer with retries. After exhausting all attempts it
// returns a GatewayUnavailable failure, never a silent success.
func (s *Submitter) Submit(ctx context.Context, vendor string, amount decimal.Decimal, memo string) (models.PaymentReceipt, error) {
	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(s.RetryDelay):
			case <-ctx.Done():
				return models.PaymentReceipt{}, errors.GatewayUnavailableErr(ctx.Err())
			}
		}

		receipt, err := s.Gateway.SendPayment(ctx, vendor, amount, memo)
		if err == nil {
			if attempt > 1 {
				s.Logger.Info("payment succeeded after retry",
					zap.String("vendor", vendor), zap.Int("attempt", attempt))
			}
			return receipt, nil
		}

		var gwErr *payman.GatewayError
		if goerrors.As(err, &gwErr) && !gwErr.Transient {
			s.Logger.Warn("payment rejected by gateway",
				zap.String("vendor", vendor), zap.String("code", gwErr.Code), zap.Error(err))
			return models.PaymentReceipt{}, errors.GatewayRejectedErr(gwErr.Message, err)
		}

		lastErr = err
		s.Logger.Warn("payment attempt failed",
			zap.String("vendor", vendor), zap.Int("attempt", attempt), zap.Error(err))
	}

	return models.PaymentReceipt{}, errors.GatewayUnavailableErr(lastErr)
}
