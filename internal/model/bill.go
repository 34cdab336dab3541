package model

// BillType distinguishes single-location from multi-location bills
type BillType string

const (
	BillTypeSLB BillType = "SLB" // single account, no sub-account structure
	BillTypeMLB BillType = "MLB" // master account with per-location sub-accounts
)

// RouteStatus is the outcome of bill-type routing
type RouteStatus string

const (
	StatusOK    RouteStatus = "ok"
	StatusAudit RouteStatus = "audit" // account unknown, needs human review
)

// LineItem is one billed charge within a sub-account.
// Monetary fields are currency-formatted strings ("$1,234.56") as extracted;
// Total may be empty when the bill does not state a per-item total.
type LineItem struct {
	Description      string `json:"description,omitempty"`
	DateRange        string `json:"date_range,omitempty"`
	RecurringCharges string `json:"recurring_charges,omitempty"`
	TaxesFees        string `json:"taxes_fees,omitempty"`
	Total            string `json:"total,omitempty"`
}

// SubAccount is one billed location under a master account.
// After assembly, TotalDue is always present, numeric-parseable, and within
// $0.01 of the sum of its line-item totals when line items exist.
type SubAccount struct {
	SubAccountNumber string     `json:"sub_account_number"`
	Location         string     `json:"location,omitempty"`
	TotalDue         string     `json:"total_due"`
	LineItems        []LineItem `json:"line_items,omitempty"`
}

// MasterAccount holds the bill-level fields produced by the invoice-mode
// field extraction pass. The reconciler may fill or correct DueDate and
// TotalDue in place.
type MasterAccount struct {
	AccountNumber string `json:"account_number"`
	TotalDue      string `json:"total_due"`
	DueDate       string `json:"due_date,omitempty"`
	VendorName    string `json:"vendor_name"`
}

// ExtractionResult is the assembled MLB output: the supplied master account
// plus sub-accounts in document order
type ExtractionResult struct {
	MasterAccount *MasterAccount `json:"master_account"`
	SubAccounts   []SubAccount   `json:"sub_accounts"`
}

// Account holds the single-account fields of an SLB
type Account struct {
	AccountNumber string `json:"account_number"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	TotalDue      string `json:"total_due"`
	VendorName    string `json:"vendor_name,omitempty"`
}

// SLBResult is the extraction output for a single-location bill
type SLBResult struct {
	Account   *Account   `json:"account"`
	LineItems []LineItem `json:"line_items,omitempty"`
}
