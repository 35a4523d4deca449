package server

import (
	// Go Internal Packages
	"context"
	"net/http"

	// Local Packages
	errors "payguard/errors"
	models "payguard/models"

	// External Packages
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentPipeline interface {
	Submit(ctx context.Context, req models.PaymentRequest) (models.SubmitResult, error)
}

type TransactionGetter interface {
	Get(ctx context.Context, fingerprint string) (models.TransactionRecord, error)
}

type PaymentsHandler struct {
	logger   *zap.Logger
	pipeline PaymentPipeline
	store    TransactionGetter
}

func NewPaymentsHandler(logger *zap.Logger, pipeline PaymentPipeline, store TransactionGetter) *PaymentsHandler {
	return &PaymentsHandler{logger: logger, pipeline: pipeline, store: store}
}

// RegisterRoutes registers payment routes on the provided Gin engine.
func (h *PaymentsHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/process_payment", h.ProcessPayment)
	r.GET("/transactions/:fingerprint", h.GetTransaction)
}

// GetTransaction returns the recorded terminal decision for a fingerprint.
func (h *PaymentsHandler) GetTransaction(c *gin.Context) {
	record, err := h.store.Get(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"error": errors.MessageOf(err)})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *PaymentsHandler) ProcessPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": models.StatusFailed,
			"error":  "invalid request body",
		})
		return
	}

	result, err := h.pipeline.Submit(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("payment processing failed", zap.Error(err))
		c.JSON(errors.HTTPStatus(err), gin.H{
			"status": models.StatusFailed,
			"error":  errors.MessageOf(err),
		})
		return
	}

	switch result.Status {
	case models.StatusSuccess:
		c.JSON(http.StatusOK, gin.H{
			"status":      result.Status,
			"transaction": result.Receipt,
		})
	case models.StatusBlocked:
		c.JSON(http.StatusForbidden, gin.H{
			"status":  result.Status,
			"message": result.Message,
			"reason":  result.Reason,
		})
	case models.StatusDuplicate:
		c.JSON(http.StatusConflict, gin.H{
			"status":  result.Status,
			"message": result.Message,
		})
	default:
		h.logger.Error("pipeline returned unknown status", zap.String("status", string(result.Status)))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": models.StatusFailed,
			"error":  "internal error",
		})
	}
}
