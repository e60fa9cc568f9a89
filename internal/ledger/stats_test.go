package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCalculateAccountStats(t *testing.T) {
	transactions := []Transaction{
		{ID: "t1", Type: TypeReceive, Amount: dec("1000")},
		{ID: "t2", Type: TypePay, Amount: dec("300")},
		{ID: "t3", Type: TypePay, Amount: dec("200.50")},
	}

	stats := CalculateAccountStats(transactions)

	if !stats.TotalReceived.Equal(dec("1000")) {
		t.Errorf("got total received %s, want 1000", stats.TotalReceived)
	}
	if !stats.TotalPaid.Equal(dec("500.50")) {
		t.Errorf("got total paid %s, want 500.50", stats.TotalPaid)
	}
	if !stats.Balance.Equal(dec("-499.50")) {
		t.Errorf("got balance %s, want -499.50", stats.Balance)
	}
	if stats.TotalTransactions != 3 {
		t.Errorf("got %d transactions, want 3", stats.TotalTransactions)
	}
}

func TestCalculateAccountStatsOrderIndependent(t *testing.T) {
	forward := []Transaction{
		{ID: "t1", Type: TypeReceive, Amount: dec("100")},
		{ID: "t2", Type: TypePay, Amount: dec("40")},
		{ID: "t3", Type: TypeReceive, Amount: dec("25.25")},
	}
	reversed := []Transaction{forward[2], forward[1], forward[0]}

	a := CalculateAccountStats(forward)
	b := CalculateAccountStats(reversed)

	if !a.Balance.Equal(b.Balance) {
		t.Errorf("balance depends on order: %s vs %s", a.Balance, b.Balance)
	}
	if !a.TotalReceived.Equal(b.TotalReceived) || !a.TotalPaid.Equal(b.TotalPaid) {
		t.Error("totals depend on order")
	}
}

func TestAccountStatus(t *testing.T) {
	tests := []struct {
		balance string
		want    string
	}{
		{"150", "active"},
		{"-0.01", "overdue"},
		{"0", "zero"},
	}

	for _, tt := range tests {
		if got := AccountStatus(dec(tt.balance)); got != tt.want {
			t.Errorf("AccountStatus(%s) = %q, want %q", tt.balance, got, tt.want)
		}
	}
}

func TestSummarizeAccounts(t *testing.T) {
	accounts := []AccountResponse{
		{Balance: dec("500")},
		{Balance: dec("-200")},
		{Balance: dec("0")},
		{Balance: dec("100.50")},
	}

	summary := SummarizeAccounts(accounts)

	if summary.Count != 4 {
		t.Errorf("got count %d, want 4", summary.Count)
	}
	if !summary.Receivable.Equal(dec("600.50")) {
		t.Errorf("got receivable %s, want 600.50", summary.Receivable)
	}
	if !summary.Payable.Equal(dec("200")) {
		t.Errorf("got payable %s, want 200", summary.Payable)
	}
	if !summary.Net.Equal(dec("400.50")) {
		t.Errorf("got net %s, want 400.50", summary.Net)
	}
}

func TestSummarizeTransactions(t *testing.T) {
	transactions := []Transaction{
		{Type: TypeReceive, Amount: dec("1000")},
		{Type: TypePay, Amount: dec("250")},
	}

	summary := SummarizeTransactions(transactions)

	if summary.Count != 2 {
		t.Errorf("got count %d, want 2", summary.Count)
	}
	if !summary.TotalReceipts.Equal(dec("1000")) || !summary.TotalPayments.Equal(dec("250")) {
		t.Errorf("got receipts %s payments %s", summary.TotalReceipts, summary.TotalPayments)
	}
	if !summary.Net.Equal(dec("750")) {
		t.Errorf("got net %s, want 750", summary.Net)
	}
}

func TestFilterTransactions(t *testing.T) {
	accountNames := map[string]string{
		"acc-1": "Grocery Store",
		"acc-2": "Landlord",
	}
	transactions := []Transaction{
		{ID: "t1", AccountID: "acc-1", Type: TypeReceive, Amount: dec("100"), Date: "2024-01-10", Description: "weekly supplies"},
		{ID: "t2", AccountID: "acc-2", Type: TypePay, Amount: dec("800"), Date: "2024-01-15", Description: "rent"},
		{ID: "t3", AccountID: "acc-1", Type: TypePay, Amount: dec("50"), Date: "2024-02-01", Description: "repayment", EnableEMI: false},
		{ID: "t4", AccountID: "acc-2", Type: TypeReceive, Amount: dec("1200"), Date: "2024-02-10", Description: "loan", EnableEMI: true},
	}

	ids := func(ts []Transaction) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		filter  TransactionFilter
		wantIDs []string
	}{
		{
			name:    "no filters, default sort is date descending",
			filter:  TransactionFilter{},
			wantIDs: []string{"t4", "t3", "t2", "t1"},
		},
		{
			name:    "type filter",
			filter:  TransactionFilter{Type: TypePay},
			wantIDs: []string{"t3", "t2"},
		},
		{
			name:    "account filter",
			filter:  TransactionFilter{AccountID: "acc-1"},
			wantIDs: []string{"t3", "t1"},
		},
		{
			name:    "date range is inclusive on both ends",
			filter:  TransactionFilter{FromDate: "2024-01-15", ToDate: "2024-02-01"},
			wantIDs: []string{"t3", "t2"},
		},
		{
			name:    "search matches description",
			filter:  TransactionFilter{Search: "rent"},
			wantIDs: []string{"t2"},
		},
		{
			name:    "search matches account name",
			filter:  TransactionFilter{Search: "grocery"},
			wantIDs: []string{"t3", "t1"},
		},
		{
			name:    "emi only",
			filter:  TransactionFilter{EMIOnly: true},
			wantIDs: []string{"t4"},
		},
		{
			name:    "filters combine conjunctively",
			filter:  TransactionFilter{Type: TypePay, AccountID: "acc-2"},
			wantIDs: []string{"t2"},
		},
		{
			name:    "sort by amount ascending",
			filter:  TransactionFilter{SortBy: "amount", SortOrder: "asc"},
			wantIDs: []string{"t3", "t1", "t2", "t4"},
		},
		{
			name:    "sort by account descending",
			filter:  TransactionFilter{SortBy: "account", SortOrder: "desc"},
			wantIDs: []string{"t2", "t4", "t1", "t3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterTransactions(transactions, accountNames, tt.filter))

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got ids %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("got ids %v, want %v", got, tt.wantIDs)
				}
			}
		})
	}
}

func TestFilterTransactionsStableForEqualKeys(t *testing.T) {
	transactions := []Transaction{
		{ID: "t1", AccountID: "acc-1", Type: TypePay, Amount: dec("10"), Date: "2024-01-01"},
		{ID: "t2", AccountID: "acc-1", Type: TypePay, Amount: dec("10"), Date: "2024-01-01"},
		{ID: "t3", AccountID: "acc-1", Type: TypePay, Amount: dec("10"), Date: "2024-01-01"},
	}

	got := FilterTransactions(transactions, nil, TransactionFilter{SortBy: "amount", SortOrder: "desc"})

	for i, want := range []string{"t1", "t2", "t3"} {
		if got[i].ID != want {
			t.Fatalf("equal keys reordered: got %q at %d, want %q", got[i].ID, i, want)
		}
	}
}
