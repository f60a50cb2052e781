package importer

import (
	"fmt"
	"time"

	"github.com/envelope-sh/envelope/internal/ledger"
	"github.com/envelope-sh/envelope/internal/money"
)

// MapTransaction converts one provider transaction into a domain
// transaction.
//
// The provider reports positive amounts for money leaving the account;
// the domain uses negative for expenses, so the amount is negated. The
// major-unit decimal is shifted to cents exactly; sub-cent precision is
// rounded half away from zero, matching what providers themselves do.
//
// accountIDMap remaps provider account ids to internal ids (see
// MapAccounts). An unmapped id falls back to the deterministic
// provider-derived id so the transaction is never dropped.
func MapTransaction(tx ProviderTransaction, accountIDMap map[string]string) (ledger.Transaction, error) {
	cents := tx.Amount.Neg().Shift(2).Round(0).IntPart()

	accountID, ok := accountIDMap[tx.ProviderAccountID]
	if !ok {
		accountID = AccountIDPrefix + tx.ProviderAccountID
	}

	description := tx.MerchantName
	if description == "" {
		description = tx.Name
	}
	if description == "" {
		description = "Unknown transaction"
	}

	postedAt, err := time.Parse("2006-01-02", tx.Date)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction %s: bad date %q: %w", tx.ProviderTransactionID, tx.Date, err)
	}

	return ledger.Transaction{
		ID:          ledger.ImportIDPrefix + tx.ProviderTransactionID,
		AccountID:   accountID,
		Amount:      money.FromCents(cents),
		Description: description,
		PostedAt:    postedAt.UTC(),
	}, nil
}

// MapTransactions maps a provider batch, failing on the first bad record.
func MapTransactions(txs []ProviderTransaction, accountIDMap map[string]string) ([]ledger.Transaction, error) {
	mapped := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		t, err := MapTransaction(tx, accountIDMap)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, t)
	}
	return mapped, nil
}

// AccountMapping records which internal account a provider account
// resolved to, with the connecting user for audit.
type AccountMapping struct {
	ProviderAccountID string
	InternalAccountID string
	UserID            string
}

// MapAccountsResult is the outcome of merging provider accounts into the
// existing account list.
type MapAccountsResult struct {
	// Accounts is the merged list: every existing account (manual ones
	// untouched) plus any genuinely new provider accounts at zero balance.
	Accounts []ledger.Account

	Mappings []AccountMapping

	// AccountIDMap remaps provider account ids to internal ids, including
	// reconnect cases where the provider reissued the id.
	AccountIDMap map[string]string
}

// MapAccounts merges provider accounts into the household's account list
// without duplicating on reconnect.
//
// Internal ids derive deterministically from the provider account id, so
// the same provider account always resolves to the same internal id.
// When the provider reissues ids on reconnect, an existing
// provider-sourced account with the same display name is reused instead
// of creating a duplicate.
func MapAccounts(providerAccounts []ProviderAccount, userID string, existing []ledger.Account) MapAccountsResult {
	result := MapAccountsResult{
		Accounts:     append([]ledger.Account(nil), existing...),
		AccountIDMap: make(map[string]string, len(providerAccounts)),
	}

	byID := make(map[string]struct{}, len(existing))
	byName := make(map[string]string)
	for _, a := range existing {
		byID[a.ID] = struct{}{}
		if len(a.ID) >= len(AccountIDPrefix) && a.ID[:len(AccountIDPrefix)] == AccountIDPrefix {
			byName[a.Name] = a.ID
		}
	}

	for _, pa := range providerAccounts {
		directID := AccountIDPrefix + pa.ProviderAccountID
		displayName := pa.OfficialName
		if displayName == "" {
			displayName = pa.Name
		}

		resolvedID := directID
		if _, ok := byID[directID]; !ok {
			if matchedID, ok := byName[displayName]; ok {
				// Reconnect: the provider reissued the account id.
				resolvedID = matchedID
			} else {
				result.Accounts = append(result.Accounts, ledger.Account{
					ID:      directID,
					Name:    displayName,
					Balance: money.Zero(),
				})
				byID[directID] = struct{}{}
				byName[displayName] = directID
			}
		}

		result.AccountIDMap[pa.ProviderAccountID] = resolvedID
		result.Mappings = append(result.Mappings, AccountMapping{
			ProviderAccountID: pa.ProviderAccountID,
			InternalAccountID: resolvedID,
			UserID:            userID,
		})
	}

	return result
}
