package ledger

import (
	"fmt"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/shopspring/decimal"
)

// Schedule projects the full installment plan of an EMI-origin transaction:
// for installment i from 1 to count the due date is start plus i recurrence
// units. Month and year addition is calendar-aware and clamps to the last
// valid day of the target month (2024-01-31 plus one month is 2024-02-29).
func Schedule(startDate string, count int, perAmount decimal.Decimal, unit string) ([]InstallmentDue, error) {
	if count <= 0 {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Installment count must be a positive number.",
		}
	}
	if !perAmount.IsPositive() {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Installment amount must be greater than zero.",
		}
	}

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid start date: %q, expected format is %s.", startDate, DateLayout),
		}
	}

	schedule := make([]InstallmentDue, 0, count)
	for i := 1; i <= count; i++ {
		var due time.Time
		switch unit {
		case EMIUnitDay:
			due = start.AddDate(0, 0, i)
		case EMIUnitWeek:
			due = start.AddDate(0, 0, 7*i)
		case EMIUnitMonth:
			due = addMonthsClamped(start, i)
		case EMIUnitYear:
			due = addMonthsClamped(start, 12*i)
		default:
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("Invalid installment unit: %q, allowed units are: day, week, month, year.", unit),
			}
		}

		schedule = append(schedule, InstallmentDue{
			Date:        due.Format(DateLayout),
			Amount:      perAmount,
			Installment: i,
		})
	}

	return schedule, nil
}

// addMonthsClamped advances t by n months keeping the day of month, clamped
// to the last day of the target month instead of rolling into the next one.
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// ReconcileInstallments projects the schedule of every EMI-origin
// transaction and drops each due date that appears among the recorded pay
// transactions. The comparison is an exact date-string match: a payment
// recorded with any other formatting of the same calendar day does not
// settle the installment.
func ReconcileInstallments(origins []Transaction, payments []Transaction) ([]InstallmentDue, error) {
	paidDates := make(map[string]struct{}, len(payments))
	for _, p := range payments {
		if p.Type == TypePay {
			paidDates[p.Date] = struct{}{}
		}
	}

	var unpaid []InstallmentDue
	for _, origin := range origins {
		if !origin.EnableEMI {
			continue
		}

		schedule, err := Schedule(origin.Date, origin.EMINumbers, origin.EMIAmount, origin.EMIType)
		if err != nil {
			return nil, fmt.Errorf("failed to project schedule of transaction %s: %w", origin.ID, err)
		}

		for _, due := range schedule {
			if _, paid := paidDates[due.Date]; !paid {
				unpaid = append(unpaid, due)
			}
		}
	}

	return unpaid, nil
}
