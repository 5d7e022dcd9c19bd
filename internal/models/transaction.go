package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a ledger row in the transactions table.
type Transaction struct {
	Seq               int64           `db:"seq"`
	TransactionID     string          `db:"transaction_id"`
	AccountID         string          `db:"account_id"`
	Amount            decimal.Decimal `db:"amount"`
	Type              string          `db:"type"`
	Status            string          `db:"status"`
	ReceiverAccountID sql.NullString  `db:"receiver_account_id"`
	CreatedAt         time.Time       `db:"created_at"`
	LastUpdatedAt     time.Time       `db:"last_updated_at"`
}
