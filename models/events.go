package models

import "time"

// TransactionEvent is published to the outcome topic after every terminal
// decision, including gateway failures that leave no TransactionRecord.
type TransactionEvent struct {
	Fingerprint string    `json:"fingerprint"`
	Vendor      string    `json:"vendor"`
	Amount      string    `json:"amount"`
	Status      TxStatus  `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
