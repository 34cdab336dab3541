package extract

import (
	"math"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/model"
	"github.com/nmcnair22/billscan/internal/util"
)

var nineDigitRegex = regexp.MustCompile(`\b\d{9}\b`)

// totalTolerance is the largest gap between a reported sub-account total and
// the sum of its line items before the sum wins.
const totalTolerance = 0.01

// FallbackSubAccountNumber recovers an identifier for a sub-account whose
// number the extraction left empty: the first nine-digit run in the chunk,
// or "Unknown" when the chunk has none.
func FallbackSubAccountNumber(chunkContent string) string {
	if m := nineDigitRegex.FindString(chunkContent); m != "" {
		return m
	}
	return "Unknown"
}

// Assembler accumulates per-chunk extraction records into one ordered
// sub-account list.
type Assembler struct {
	subAccounts []model.SubAccount
	logger      *logrus.Logger
}

func NewAssembler(logger *logrus.Logger) *Assembler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Assembler{logger: logger}
}

// Add appends the record's sub-accounts in order, repairing any missing
// identifier from the chunk the record came from. A literal "Unknown" from
// the model counts as missing.
func (a *Assembler) Add(record *Record, chunkContent string) {
	for _, sub := range record.SubAccounts {
		if sub.SubAccountNumber == "" || sub.SubAccountNumber == "Unknown" {
			sub.SubAccountNumber = FallbackSubAccountNumber(chunkContent)
		}
		a.subAccounts = append(a.subAccounts, sub)
	}
}

// Finalize reconciles each sub-account's total against the sum of its line
// items and returns the accumulated list. Whenever line items are present
// the sum is authoritative: a reported total more than a cent away from the
// sum is replaced, and a missing or blank total is filled in. Line items
// whose own total cannot be parsed are skipped from the sum. A sub-account
// with no line items and no reported total gets "$0.00".
func (a *Assembler) Finalize() []model.SubAccount {
	for i := range a.subAccounts {
		a.finalizeOne(&a.subAccounts[i])
	}
	return a.subAccounts
}

func (a *Assembler) finalizeOne(sub *model.SubAccount) {
	if len(sub.LineItems) == 0 {
		if strings.TrimSpace(sub.TotalDue) == "" {
			sub.TotalDue = "$0.00"
		}
		return
	}

	sum := 0.0
	for _, item := range sub.LineItems {
		v, err := util.ParseAmount(item.Total)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"sub_account": sub.SubAccountNumber,
				"line_item":   item.Description,
				"total":       item.Total,
			}).Warn("skipping unparsable line item total")
			continue
		}
		sum += v
	}

	if strings.TrimSpace(sub.TotalDue) == "" {
		sub.TotalDue = util.FormatAmount(sum)
		return
	}

	reported, err := util.ParseAmount(sub.TotalDue)
	if err != nil || math.Abs(reported-sum) > totalTolerance {
		a.logger.WithFields(logrus.Fields{
			"sub_account": sub.SubAccountNumber,
			"reported":    sub.TotalDue,
			"computed":    util.FormatAmount(sum),
		}).Info("replacing sub-account total with line item sum")
		sub.TotalDue = util.FormatAmount(sum)
	}
}
