package models

import (
	// Go Internal Packages
	"encoding/json"
	"time"

	// External Packages
	"github.com/shopspring/decimal"
)

// TxStatus is the terminal outcome of a screened payment request.
type TxStatus string

const (
	StatusSuccess   TxStatus = "Success"
	StatusBlocked   TxStatus = "Blocked"
	StatusDuplicate TxStatus = "Duplicate"
	StatusFailed    TxStatus = "Failed"
)

// PaymentRequest is the parsed inbound payment instruction: the email text
// claiming to be the instruction plus the payment details extracted from it.
type PaymentRequest struct {
	EmailText      string         `json:"email_text" binding:"required"`
	PaymentDetails PaymentDetails `json:"payment_details" binding:"required"`
	Customer       *Customer      `json:"customer,omitempty"`
}

type PaymentDetails struct {
	Vendor string          `json:"vendor" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TransactionRecord is the durable terminal decision for one fingerprint.
// Created exactly once, never updated; the fingerprint is the Mongo _id so the
// unique-index insert is the dedup gate.
type TransactionRecord struct {
	Fingerprint string    `json:"fingerprint" bson:"_id"`
	Vendor      string    `json:"vendor" bson:"vendor"`
	Amount      string    `json:"amount" bson:"amount"`
	Status      TxStatus  `json:"status" bson:"status"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

// FraudVerdict is the classifier's answer for one email. Transient, never
// persisted standalone.
type FraudVerdict struct {
	Fraudulent bool   `json:"fraudulent"`
	Reason     string `json:"reason"`
}

// AlertMessage is persisted to the fallback alert log when live delivery
// fails. Append-only, not deduplicated.
type AlertMessage struct {
	Vendor    string    `json:"vendor"`
	Amount    string    `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentReceipt is the gateway's acknowledgement of an executed transfer.
// Raw keeps the provider payload for auditing without re-parsing it.
type PaymentReceipt struct {
	Reference string          `json:"reference"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// SubmitResult is the pipeline's terminal answer for one request. Failures
// (store, gateway) travel as kinded errors instead, so a populated result is
// always one of Success, Blocked or Duplicate.
type SubmitResult struct {
	Status  TxStatus        `json:"status"`
	Message string          `json:"message,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Receipt *PaymentReceipt `json:"transaction,omitempty"`
}
