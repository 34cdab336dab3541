package validate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/model"
	"github.com/nmcnair22/billscan/internal/retrieval"
	"github.com/nmcnair22/billscan/internal/util"
)

const (
	dueDateQuery = "What is the due date listed on the bill?"
	totalsQuery  = "What is the total due amount listed on the bill?"

	// totalsTolerance absorbs rounding differences between the master total
	// and the sub-account sum
	totalsTolerance = 0.02

	// DefaultMaxRetries bounds correction attempts per check
	DefaultMaxRetries = 2

	retryDelay = 2 * time.Second
)

// reconcileSleepFunc is the sleep function used between correction attempts
// (injectable for tests)
var reconcileSleepFunc = time.Sleep

// checkState drives one corrective check
type checkState int

const (
	stateChecking checkState = iota
	stateCorrecting
	stateSucceeded
	stateFailed
)

// Reconciler detects and corrects inconsistencies in an assembled
// extraction, using the retrieval collaborator as secondary evidence.
// A nil Querier is legal: the due-date check then fails immediately when
// the date is missing, and the totals check succeeds trivially.
type Reconciler struct {
	querier    retrieval.Querier
	maxRetries int
	topK       int
	logger     *logrus.Logger
}

// NewReconciler creates a reconciler. querier may be nil.
func NewReconciler(querier retrieval.Querier, maxRetries, topK int, logger *logrus.Logger) *Reconciler {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if topK <= 0 {
		topK = 15
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Reconciler{
		querier:    querier,
		maxRetries: maxRetries,
		topK:       topK,
		logger:     logger,
	}
}

// Reconcile validates the extraction and corrects master-account fields in
// place where the evidence supports it. It always returns an outcome; a
// failed check becomes an error in the outcome, never a process failure.
func (r *Reconciler) Reconcile(ctx context.Context, result *model.ExtractionResult) *model.ValidationOutcome {
	outcome := model.NewValidationOutcome()

	if result == nil || result.MasterAccount == nil {
		outcome.AddError("master_account", "missing master account")
		return outcome
	}
	master := result.MasterAccount

	if ok, message := r.checkDueDate(ctx, master); ok {
		outcome.AddNote("master_account.due_date", message)
	} else {
		outcome.AddError("master_account.due_date", message)
	}

	if len(result.SubAccounts) > 0 {
		if ok, message := r.checkTotals(ctx, master, result.SubAccounts); ok {
			outcome.AddNote("totals", message)
		} else {
			outcome.AddError("totals", message)
		}
	}

	checkMasterFields(master, outcome)
	checkSubAccounts(result.SubAccounts, outcome)

	r.logger.WithFields(logrus.Fields{
		"valid":  outcome.Valid,
		"errors": len(outcome.Errors),
		"notes":  len(outcome.Notes),
	}).Info("reconciliation complete")
	return outcome
}

// checkDueDate ensures the master account carries a due date, correcting a
// missing one from the indexed document. At most maxRetries+1 queries are
// issued; the query never varies between attempts.
func (r *Reconciler) checkDueDate(ctx context.Context, master *model.MasterAccount) (bool, string) {
	state := stateChecking
	attempt := 0
	var message string

	for {
		switch state {
		case stateChecking:
			if master.DueDate != "" {
				message = "Due date present"
				state = stateSucceeded
				continue
			}
			if r.querier == nil {
				message = "Due date missing and no retrieval collaborator available"
				state = stateFailed
				continue
			}
			state = stateCorrecting

		case stateCorrecting:
			attempt++
			answer, err := r.querier.Query(ctx, dueDateQuery, r.topK)
			if err != nil {
				r.logger.WithError(err).WithField("attempt", attempt).Warn("due date query failed")
			}
			if err == nil && answer.Found && answer.Value != "" {
				master.DueDate = answer.Value
				message = fmt.Sprintf("Due date updated to %s after attempt %d", answer.Value, attempt)
				state = stateSucceeded
				continue
			}
			if attempt > r.maxRetries {
				message = fmt.Sprintf("Due date not found in document after %d attempts", attempt)
				state = stateFailed
				continue
			}
			reconcileSleepFunc(retryDelay)

		case stateSucceeded:
			return true, message

		case stateFailed:
			return false, message
		}
	}
}

// checkTotals verifies the master total against the sum of sub-account
// totals, correcting the master total from the indexed document on
// disagreement. Unparsable totals on either side fail immediately without
// retrying; without a retrieval collaborator a disagreement is only noted,
// since there is no evidence to correct against.
func (r *Reconciler) checkTotals(ctx context.Context, master *model.MasterAccount, subs []model.SubAccount) (bool, string) {
	state := stateChecking
	attempt := 0
	var masterTotal, subTotal float64
	var message string

	for {
		switch state {
		case stateChecking:
			var err error
			masterTotal, err = util.ParseAmount(master.TotalDue)
			if err != nil {
				message = fmt.Sprintf("Invalid master total due format: %q", master.TotalDue)
				state = stateFailed
				continue
			}
			subTotal = 0
			for _, sub := range subs {
				v, err := util.ParseAmount(sub.TotalDue)
				if err != nil {
					message = fmt.Sprintf("Invalid sub-account total due format: %q (sub-account %s)", sub.TotalDue, sub.SubAccountNumber)
					state = stateFailed
					break
				}
				subTotal += v
			}
			if state == stateFailed {
				continue
			}
			if math.Abs(masterTotal-subTotal) <= totalsTolerance {
				message = "Sub-account totals match master total"
				state = stateSucceeded
				continue
			}
			if r.querier == nil {
				message = "Totals check skipped without retrieval collaborator"
				state = stateSucceeded
				continue
			}
			state = stateCorrecting

		case stateCorrecting:
			attempt++
			answer, err := r.querier.Query(ctx, totalsQuery, r.topK)
			if err != nil {
				r.logger.WithError(err).WithField("attempt", attempt).Warn("totals query failed")
			}
			if err == nil && answer.Found && answer.Value != "" {
				master.TotalDue = answer.Value
				message = fmt.Sprintf("Master total updated to %s after attempt %d", answer.Value, attempt)
				state = stateSucceeded
				continue
			}
			if attempt > r.maxRetries {
				message = fmt.Sprintf("Could not reconcile totals (master: %s, sub-accounts: %s)",
					util.FormatAmount(masterTotal), util.FormatAmount(subTotal))
				state = stateFailed
				continue
			}
			reconcileSleepFunc(retryDelay)

		case stateSucceeded:
			return true, message

		case stateFailed:
			return false, message
		}
	}
}
