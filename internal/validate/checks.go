package validate

import (
	"fmt"

	"github.com/nmcnair22/billscan/internal/model"
	"github.com/nmcnair22/billscan/internal/util"
)

// checkMasterFields enforces required master-account fields and amount
// format. A negative total is only noted.
func checkMasterFields(master *model.MasterAccount, outcome *model.ValidationOutcome) {
	required := []struct {
		value   string
		field   string
		display string
	}{
		{master.AccountNumber, "master_account.account_number", "Account number"},
		{master.TotalDue, "master_account.total_due", "Amount due"},
		{master.VendorName, "master_account.vendor_name", "Vendor name"},
	}
	for _, f := range required {
		if f.value == "" {
			outcome.AddError(f.field, "Missing required field: "+f.display)
		}
	}

	if master.TotalDue != "" {
		amount, err := util.ParseAmount(master.TotalDue)
		switch {
		case err != nil:
			outcome.AddError("master_account.total_due", fmt.Sprintf("Invalid amount format: %s", master.TotalDue))
		case amount < 0:
			outcome.AddNote("master_account.total_due", fmt.Sprintf("Negative total due amount: %s", util.FormatAmount(amount)))
		}
	}
}

// checkSubAccounts enforces per-sub-account requirements. An empty
// sub-account list is always an error.
func checkSubAccounts(subs []model.SubAccount, outcome *model.ValidationOutcome) {
	if len(subs) == 0 {
		outcome.AddError("sub_accounts", "No sub-accounts found")
		return
	}

	for i, sub := range subs {
		if sub.SubAccountNumber == "" || sub.SubAccountNumber == "Unknown" {
			outcome.AddError(fmt.Sprintf("sub_accounts[%d].sub_account_number", i), "Missing sub-account number")
		}
		if sub.TotalDue == "" {
			outcome.AddError(fmt.Sprintf("sub_accounts[%d].total_due", i), "Missing total due amount")
			continue
		}
		if _, err := util.ParseAmount(sub.TotalDue); err != nil {
			outcome.AddError(fmt.Sprintf("sub_accounts[%d].total_due", i), fmt.Sprintf("Invalid amount format: %s", sub.TotalDue))
		}
	}
}

// ValidateSLB performs the basic checks for a single-location bill: the
// account's number, invoice date and total due must be present; missing
// line items are only noted.
func ValidateSLB(result *model.SLBResult) *model.ValidationOutcome {
	outcome := model.NewValidationOutcome()

	if result == nil || result.Account == nil {
		outcome.AddError("account", "missing account")
		return outcome
	}

	if result.Account.AccountNumber == "" {
		outcome.AddError("account.account_number", "Account number is missing")
	}
	if result.Account.InvoiceDate == "" {
		outcome.AddError("account.invoice_date", "Invoice date is missing")
	}
	if result.Account.TotalDue == "" {
		outcome.AddError("account.total_due", "Total due is missing")
	}
	if len(result.LineItems) == 0 {
		outcome.AddNote("line_items", "No line items found")
	}
	return outcome
}
