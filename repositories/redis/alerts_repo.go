package redis

import (
	// Go Internal Packages
	"context"
	"encoding/json"

	// Local Packages
	models "payguard/models"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AlertLog is the fallback destination for fraud alerts whose live delivery
// failed. Append-only list, never deduplicated.
type AlertLog struct {
	client   *redis.Client
	logger   *zap.Logger
	listName string
}

func NewAlertLog(client *redis.Client, logger *zap.Logger) *AlertLog {
	return &AlertLog{client: client, logger: logger, listName: "fraud-alerts"}
}

// Append stores one alert at the tail of the log.
func (r *AlertLog) Append(ctx context.Context, alert models.AlertMessage) error {
	jsonData, err := json.Marshal(alert)
	if err != nil {
		r.logger.Error("failed to marshal alert", zap.Error(err))
		return err
	}

	err = r.client.RPush(ctx, r.listName, jsonData).Err()
	if err != nil {
		r.logger.Error("failed to store alert", zap.String("list", r.listName), zap.Error(err))
		return err
	}
	return nil
}
