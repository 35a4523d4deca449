package alerts

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// Local Packages
	models "payguard/models"
	utils "payguard/utils"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WebhookClient interface {
	Send(ctx context.Context, text string) error
}

type AlertLog interface {
	Append(ctx context.Context, alert models.AlertMessage) error
}

// Notifier delivers fraud alerts best-effort: live channel first, append-only
// fallback log when that fails. It never blocks or fails the pipeline.
type Notifier struct {
	Logger   *zap.Logger
	Webhook  WebhookClient
	Fallback AlertLog
}

func NewNotifier(logger *zap.Logger, webhook WebhookClient, fallback AlertLog) *Notifier {
	return &Notifier{Logger: logger, Webhook: webhook, Fallback: fallback}
}

// Alert sends one fraud alert for a blocked payment.
func (n *Notifier) Alert(ctx context.Context, vendor string, amount decimal.Decimal, reason string) {
	msg := models.AlertMessage{
		Vendor:    vendor,
		Amount:    utils.FormatAmount(amount),
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}

	text := fmt.Sprintf("🚨 Fraud Alert: Potential BEC Detected 🚨\nVendor: %s\nAmount: $%s\nReason: %s",
		msg.Vendor, msg.Amount, msg.Reason)

	if err := n.Webhook.Send(ctx, text); err != nil {
		n.Logger.Warn("alert delivery failed, writing to fallback log", zap.Error(err))
		if logErr := n.Fallback.Append(ctx, msg); logErr != nil {
			n.Logger.Error("failed to write alert to fallback log",
				zap.String("vendor", vendor), zap.Error(logErr))
		}
		return
	}

	n.Logger.Info("fraud alert delivered", zap.String("vendor", vendor))
}
