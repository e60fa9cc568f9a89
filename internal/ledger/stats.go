package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CalculateAccountStats folds a transaction list into a signed balance plus
// separate received/paid totals. Pay increases the balance, receive
// decreases it; the fold is order-independent.
func CalculateAccountStats(transactions []Transaction) AccountStats {
	stats := AccountStats{
		Balance:       decimal.Zero,
		TotalReceived: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case TypeReceive:
			stats.TotalReceived = stats.TotalReceived.Add(t.Amount)
			stats.Balance = stats.Balance.Sub(t.Amount)
		case TypePay:
			stats.TotalPaid = stats.TotalPaid.Add(t.Amount)
			stats.Balance = stats.Balance.Add(t.Amount)
		}
	}

	stats.TotalTransactions = len(transactions)
	return stats
}

// AccountBalance computes the signed balance of a single account from the
// user's full transaction list.
func AccountBalance(transactions []Transaction, accountID string) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range transactions {
		if t.AccountID != accountID {
			continue
		}
		switch t.Type {
		case TypePay:
			balance = balance.Add(t.Amount)
		case TypeReceive:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// AccountStatus derives the display status from a balance.
func AccountStatus(balance decimal.Decimal) string {
	switch balance.Sign() {
	case 1:
		return "active"
	case -1:
		return "overdue"
	default:
		return "zero"
	}
}

// SummarizeAccounts totals positive balances as receivable and the absolute
// value of negative balances as payable.
func SummarizeAccounts(accounts []AccountResponse) AccountsSummary {
	summary := AccountsSummary{
		Count:      len(accounts),
		Receivable: decimal.Zero,
		Payable:    decimal.Zero,
	}

	for _, account := range accounts {
		switch account.Balance.Sign() {
		case 1:
			summary.Receivable = summary.Receivable.Add(account.Balance)
		case -1:
			summary.Payable = summary.Payable.Add(account.Balance.Abs())
		}
	}

	summary.Net = summary.Receivable.Sub(summary.Payable)
	return summary
}

// SummarizeTransactions totals a filtered list: receipts, payments and the
// net amount (receipts minus payments).
func SummarizeTransactions(transactions []Transaction) TransactionSummary {
	summary := TransactionSummary{
		Count:         len(transactions),
		TotalReceipts: decimal.Zero,
		TotalPayments: decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case TypeReceive:
			summary.TotalReceipts = summary.TotalReceipts.Add(t.Amount)
		case TypePay:
			summary.TotalPayments = summary.TotalPayments.Add(t.Amount)
		}
	}

	summary.Net = summary.TotalReceipts.Sub(summary.TotalPayments)
	return summary
}

// FilterTransactions applies every active filter conjunctively and sorts the
// result. accountNames maps account id to name for the free-text search and
// the account sort key. Sorting is stable for equal keys.
func FilterTransactions(transactions []Transaction, accountNames map[string]string, filter TransactionFilter) []Transaction {
	searchTerm := strings.ToLower(strings.TrimSpace(filter.Search))

	var filtered []Transaction
	for _, t := range transactions {
		if searchTerm != "" {
			searchText := strings.ToLower(t.Description + " " + accountNames[t.AccountID])
			if !strings.Contains(searchText, searchTerm) {
				continue
			}
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}
		// dates are DateLayout strings, lexical order matches calendar order
		if filter.FromDate != "" && t.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && t.Date > filter.ToDate {
			continue
		}
		if filter.EMIOnly && !t.EnableEMI {
			continue
		}
		filtered = append(filtered, t)
	}

	sortBy := filter.SortBy
	ascending := filter.SortOrder == "asc"

	sort.SliceStable(filtered, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "amount":
			cmp := filtered[i].Amount.Cmp(filtered[j].Amount)
			if cmp == 0 {
				return false
			}
			less = cmp < 0
		case "account":
			a, b := accountNames[filtered[i].AccountID], accountNames[filtered[j].AccountID]
			if a == b {
				return false
			}
			less = a < b
		default: // date
			if filtered[i].Date == filtered[j].Date {
				return false
			}
			less = filtered[i].Date < filtered[j].Date
		}
		if ascending {
			return less
		}
		return !less
	})

	return filtered
}
