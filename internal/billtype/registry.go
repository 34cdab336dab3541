package billtype

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nmcnair22/billscan/internal/model"
)

var (
	nonAlnumRegex       = regexp.MustCompile(`[^a-zA-Z0-9]`)
	labeledAccountRegex = regexp.MustCompile(`(?i)Account\s*(?:#|Number|No\.?)\s*:?\s*([a-zA-Z0-9 \-]+)`)
)

// Route is the outcome of bill-type routing. Type is empty when Status is
// audit.
type Route struct {
	Type   model.BillType
	Status model.RouteStatus
}

// Registry routes bills to the single- or multi-location pipeline by
// looking the account number up in a local SQLite registry
type Registry struct {
	db     *sql.DB
	logger *logrus.Logger
}

// Open opens the account registry and ensures its schema exists
func Open(path string, logger *logrus.Logger) (*Registry, error) {
	if logger == nil {
		logger = logrus.New()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("registry pragma: %w", err)
		}
	}
	if _, err := db.Exec(registryMigration); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry migrate: %w", err)
	}
	return &Registry{db: db, logger: logger}, nil
}

const registryMigration = `
CREATE TABLE IF NOT EXISTS accounts (
	account_number     TEXT PRIMARY KEY,
	multiple_locations INTEGER NOT NULL DEFAULT 0
);
`

func (r *Registry) Close() error {
	return r.db.Close()
}

// Add registers or updates one account
func (r *Registry) Add(ctx context.Context, accountNumber string, multipleLocations bool) error {
	ml := 0
	if multipleLocations {
		ml = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (account_number, multiple_locations) VALUES (?, ?)
		 ON CONFLICT(account_number) DO UPDATE SET multiple_locations = excluded.multiple_locations`,
		CleanAccountNumber(accountNumber), ml)
	if err != nil {
		return fmt.Errorf("registry add: %w", err)
	}
	return nil
}

// Determine routes an analyzed document. The account number comes from the
// invoice fields (CustomerId, then InvoiceId), falling back to a labeled
// pattern scan of the content. An account the registry does not know is
// routed to audit, never guessed.
func (r *Registry) Determine(ctx context.Context, doc *model.Document) (Route, error) {
	accountNumber := AccountNumberFromDocument(doc)
	if accountNumber == "" {
		r.logger.Warn("no account number found in document, flagging for audit")
		return Route{Status: model.StatusAudit}, nil
	}

	cleaned := CleanAccountNumber(accountNumber)
	var multipleLocations int
	err := r.db.QueryRowContext(ctx,
		`SELECT multiple_locations FROM accounts WHERE account_number = ?`,
		cleaned).Scan(&multipleLocations)
	if err == sql.ErrNoRows {
		r.logger.WithField("account", cleaned).Warn("account not in registry, flagging for audit")
		return Route{Status: model.StatusAudit}, nil
	}
	if err != nil {
		return Route{}, fmt.Errorf("registry lookup: %w", err)
	}

	billType := model.BillTypeSLB
	if multipleLocations == 1 {
		billType = model.BillTypeMLB
	}
	r.logger.WithFields(logrus.Fields{
		"account":   cleaned,
		"bill_type": billType,
	}).Info("bill type determined")
	return Route{Type: billType, Status: model.StatusOK}, nil
}

// CleanAccountNumber strips everything but letters and digits
func CleanAccountNumber(accountNumber string) string {
	return nonAlnumRegex.ReplaceAllString(accountNumber, "")
}

// AccountNumberFromDocument pulls the account number out of the invoice
// fields, falling back to a labeled scan of the raw content
func AccountNumberFromDocument(doc *model.Document) string {
	if doc == nil {
		return ""
	}
	if v := doc.Fields["CustomerId"]; v != "" {
		return v
	}
	if v := doc.Fields["InvoiceId"]; v != "" {
		return v
	}
	if m := labeledAccountRegex.FindStringSubmatch(doc.Content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
