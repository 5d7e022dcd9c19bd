package mapping

import (
	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/SscSPs/wallet_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		UserID:        d.UserID,
		AccountNumber: d.AccountNumber,
		Balance:       d.Balance,
		CurrencyCode:  d.CurrencyCode,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		UserID:        m.UserID,
		AccountNumber: m.AccountNumber,
		Balance:       m.Balance,
		CurrencyCode:  m.CurrencyCode,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
