// Package importer is the boundary between external transaction data
// providers and the domain. Provider records carry exact decimal amounts
// in major units; the mappers convert them to integer cents, normalize
// the sign convention, and stamp the import-source id marker so the
// merger can dedup reconnect replays.
package importer

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AccountIDPrefix marks internal accounts created from a provider
// account. Reconnect matching only considers accounts carrying it;
// manual accounts are never merged into.
const AccountIDPrefix = "provider-"

// ProviderAccount is an account as reported by the data provider.
type ProviderAccount struct {
	ProviderAccountID string
	Name              string
	OfficialName      string // may be empty; Name is the fallback
}

// ProviderTransaction is a transaction as reported by the data provider.
//
// Sign convention on the wire: positive = money leaving the account.
// Amount is in major units (dollars), exact.
type ProviderTransaction struct {
	ProviderTransactionID string
	ProviderAccountID     string
	Amount                decimal.Decimal
	Date                  string // YYYY-MM-DD
	MerchantName          string // may be empty
	Name                  string // may be empty
}

// ProviderClient is the port a provider connector implements. The link
// handshake (token exchange) lives server-side; this client only reads.
type ProviderClient interface {
	// FetchAccounts lists the accounts visible through the connection.
	FetchAccounts(ctx context.Context) ([]ProviderAccount, error)

	// SyncTransactions returns transactions since the given cursor plus
	// the next cursor. An empty cursor means from the beginning.
	SyncTransactions(ctx context.Context, cursor string) ([]ProviderTransaction, string, error)
}

// FileProvider reads a provider batch from a YAML file. It backs the
// offline import path and test fixtures; a live connector implements the
// same port.
type FileProvider struct {
	accounts     []ProviderAccount
	transactions []ProviderTransaction
}

type batchFile struct {
	Accounts []struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		OfficialName string `yaml:"officialName"`
	} `yaml:"accounts"`
	Transactions []struct {
		ID           string `yaml:"id"`
		AccountID    string `yaml:"accountId"`
		Amount       string `yaml:"amount"`
		Date         string `yaml:"date"`
		MerchantName string `yaml:"merchantName"`
		Name         string `yaml:"name"`
	} `yaml:"transactions"`
}

// OpenFile parses a YAML batch file into a FileProvider. Amounts are
// decimal strings ("12.99"); parsing is exact, no float intermediates.
func OpenFile(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var batch batchFile
	if err := yaml.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}

	p := &FileProvider{}
	for _, a := range batch.Accounts {
		p.accounts = append(p.accounts, ProviderAccount{
			ProviderAccountID: a.ID,
			Name:              a.Name,
			OfficialName:      a.OfficialName,
		})
	}
	for _, tx := range batch.Transactions {
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: bad amount %q: %w", tx.ID, tx.Amount, err)
		}
		p.transactions = append(p.transactions, ProviderTransaction{
			ProviderTransactionID: tx.ID,
			ProviderAccountID:     tx.AccountID,
			Amount:                amount,
			Date:                  tx.Date,
			MerchantName:          tx.MerchantName,
			Name:                  tx.Name,
		})
	}
	return p, nil
}

func (p *FileProvider) FetchAccounts(ctx context.Context) ([]ProviderAccount, error) {
	return p.accounts, nil
}

// SyncTransactions returns the whole file in one page; the cursor is
// ignored and the next cursor is always empty.
func (p *FileProvider) SyncTransactions(ctx context.Context, cursor string) ([]ProviderTransaction, string, error) {
	return p.transactions, "", nil
}
