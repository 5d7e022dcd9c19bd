package mapping

import (
	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/SscSPs/wallet_app/internal/models"
)

// ToModelTransaction converts a domain ledger entry to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		Seq:               d.Sequence,
		TransactionID:     d.TransactionID,
		AccountID:         d.AccountID,
		Amount:            d.Amount,
		Type:              string(d.Type),
		Status:            string(d.Status),
		ReceiverAccountID: nullString(d.ReceiverAccountID),
		CreatedAt:         d.CreatedAt,
		LastUpdatedAt:     d.LastUpdatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain ledger entry
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		AccountID:         m.AccountID,
		Amount:            m.Amount,
		Type:              domain.TransactionType(m.Type),
		Status:            domain.TransactionStatus(m.Status),
		ReceiverAccountID: m.ReceiverAccountID.String,
		CreatedAt:         m.CreatedAt,
		LastUpdatedAt:     m.LastUpdatedAt,
		Sequence:          m.Seq,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain ledger entries
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
