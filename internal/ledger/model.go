package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date string format every transaction date and
// installment due date is stored in. Reconciliation compares these strings
// byte for byte, so the layout is part of the data contract.
const DateLayout = "2006-01-02"

// Transaction directions.
const (
	TypeReceive = "receive"
	TypePay     = "pay"
)

// Transaction-type categories (the two form flavours).
const (
	CategoryReceipt = "receipt"
	CategoryPayment = "payment"
)

// Installment recurrence units.
const (
	EMIUnitDay   = "day"
	EMIUnitWeek  = "week"
	EMIUnitMonth = "month"
	EMIUnitYear  = "year"
)

// Account-type categories.
const (
	AccountCategoryAsset     = "asset"
	AccountCategoryLiability = "liability"
)

// MODELS:

type Account struct {
	ID          string
	Name        string
	TypeID      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

type AccountType struct {
	ID        string
	Name      string
	Category  string // asset | liability, may be empty for quick-added types
	CreatedAt time.Time
	CreatedBy string
}

type TransactionType struct {
	ID        string
	Name      string
	Category  string // receipt | payment
	CreatedAt time.Time
	CreatedBy string
}

type Transaction struct {
	ID           string
	AccountID    string
	Type         string // receive | pay
	SubType      string
	Amount       decimal.Decimal
	Description  string
	Date         string // DateLayout
	EnableEMI    bool
	EMINumbers   int
	EMIAmount    decimal.Decimal
	EMIType      string // day | week | month | year
	IsEMIPayment bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

type Category struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
	CreatedBy string
}

type UserSettings struct {
	UserID         string
	Currency       string
	CurrencySymbol string
}

// REQUESTS:

type AccountRequest struct {
	Name        string
	TypeID      string
	Description string
}

type UpdateAccountRequest struct {
	ID             string
	NewName        string
	NewTypeID      string
	NewDescription string
	UpdateTime     time.Time
}

type TransactionRequest struct {
	AccountID   string
	Type        string
	SubType     string
	Amount      decimal.Decimal
	Description string
	Date        string
	EnableEMI   bool
	EMINumbers  int
	EMIAmount   decimal.Decimal
	EMIType     string
}

type UpdateTransactionRequest struct {
	ID             string
	NewAccountID   string
	NewType        string
	NewSubType     string
	NewAmount      decimal.Decimal
	NewDescription string
	NewDate        string
	EnableEMI      bool
	EMINumbers     int
	EMIAmount      decimal.Decimal
	EMIType        string
	UpdateTime     time.Time
}

type TypeRequest struct {
	Name     string
	Category string
}

type UpdateTypeRequest struct {
	ID          string
	NewName     string
	NewCategory string
	UpdateTime  time.Time
}

type CategoryRequest struct {
	Name  string
	Color string
}

type UpdateCategoryRequest struct {
	ID       string
	NewName  string
	NewColor string
}

// PayInstallmentsRequest submits the selected unpaid installments of one
// account; one pay transaction is written per selection, all in one batch.
type PayInstallmentsRequest struct {
	AccountID   string
	SubType     string
	Description string
	Selected    []InstallmentSelection
}

type InstallmentSelection struct {
	Date   string
	Amount decimal.Decimal
}

// TransactionFilter holds the conjunctive list filters; zero values mean
// "no constraint". SortBy defaults to date, SortOrder to descending.
type TransactionFilter struct {
	Search    string
	Type      string
	AccountID string
	FromDate  string
	ToDate    string
	EMIOnly   bool
	SortBy    string // date | amount | account
	SortOrder string // asc | desc
}

// RESPONSES:

type AccountResponse struct {
	Account
	TypeName string
	Balance  decimal.Decimal
	Status   string // active | overdue | zero
}

type AccountStats struct {
	Balance           decimal.Decimal
	TotalReceived     decimal.Decimal
	TotalPaid         decimal.Decimal
	TotalTransactions int
}

type AccountsSummary struct {
	Count      int
	Receivable decimal.Decimal
	Payable    decimal.Decimal
	Net        decimal.Decimal
}

type TransactionSummary struct {
	Count         int
	TotalReceipts decimal.Decimal
	TotalPayments decimal.Decimal
	Net           decimal.Decimal
}

// InstallmentDue is one projected installment of an EMI schedule.
type InstallmentDue struct {
	Date        string
	Amount      decimal.Decimal
	Installment int
}

type AccountInfo struct {
	Email       string
	DisplayName string
	JoinedAt    time.Time
}

// ExportData is the downloadable snapshot of one user's data.
type ExportData struct {
	User         ExportUser    `json:"user"`
	Settings     UserSettings  `json:"settings"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	ExportDate   string        `json:"exportDate"`
}

type ExportUser struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// CurrencyInfo describes one supported currency.
type CurrencyInfo struct {
	Symbol string
	Name   string
}

// Currencies lists the supported currency codes; DefaultCurrency is used
// when a user has no stored settings.
var Currencies = map[string]CurrencyInfo{
	"INR": {Symbol: "₹", Name: "Indian Rupee"},
	"USD": {Symbol: "$", Name: "US Dollar"},
	"EUR": {Symbol: "€", Name: "Euro"},
	"GBP": {Symbol: "£", Name: "British Pound"},
	"JPY": {Symbol: "¥", Name: "Japanese Yen"},
	"CAD": {Symbol: "C$", Name: "Canadian Dollar"},
	"AUD": {Symbol: "A$", Name: "Australian Dollar"},
}

const DefaultCurrency = "INR"
