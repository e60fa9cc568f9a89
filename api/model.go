package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/polosys/accounts-keeper/internal/ledger"

	"github.com/shopspring/decimal"
)

// REQUESTS START:

type SaveUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DeleteUserRequest struct {
	Confirmation string `json:"confirmation"`
	Password     string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type AccountCreateRequest struct {
	Name        string `json:"name"`
	TypeID      string `json:"type_id"`
	Description string `json:"description"`
}

type TypeCreateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type CreateTransactionRequest struct {
	AccountID   string `json:"account_id"`
	Type        string `json:"type"`
	SubType     string `json:"sub_type"`
	Amount      string `json:"amount"` // keep as string to avoid float rounding
	Description string `json:"description"`
	Date        string `json:"date"`
	EnableEMI   bool   `json:"enable_emi"`
	EMINumbers  int    `json:"emi_numbers"`
	EMIAmount   string `json:"emi_amount"`
	EMIType     string `json:"emi_type"`
}

type CategoryCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PayInstallmentsHTTPRequest struct {
	AccountID    string               `json:"account_id"`
	SubType      string               `json:"sub_type"`
	Description  string               `json:"description"`
	Installments []InstallmentPayItem `json:"installments"`
}

type InstallmentPayItem struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type SettingsRequest struct {
	Currency string `json:"currency"`
}

//REQUESTS END:

//RESPONSES:

type MessageResponse struct {
	Message string `json:"message"`
}

type UserCreatedResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type AccountInfoResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	JoinedAt    string `json:"joined_at"`
}

type AccountItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TypeID      string `json:"type_id"`
	TypeName    string `json:"type_name"`
	Description string `json:"description"`
	Balance     string `json:"balance"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type AccountsSummaryItem struct {
	Count      int    `json:"count"`
	Receivable string `json:"receivable"`
	Payable    string `json:"payable"`
	Net        string `json:"net"`
}

type ListAccountsResponse struct {
	Accounts []AccountItem       `json:"accounts"`
	Summary  AccountsSummaryItem `json:"summary"`
}

type AccountStatsItem struct {
	Balance           string `json:"balance"`
	TotalReceived     string `json:"total_received"`
	TotalPaid         string `json:"total_paid"`
	TotalTransactions int    `json:"total_transactions"`
}

type AccountDetailResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	TypeID       string            `json:"type_id"`
	Description  string            `json:"description"`
	Stats        AccountStatsItem  `json:"stats"`
	Transactions []TransactionItem `json:"transactions"`
}

type TransactionItem struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	Type         string `json:"type"`
	SubType      string `json:"sub_type"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	EnableEMI    bool   `json:"enable_emi"`
	EMINumbers   int    `json:"emi_numbers,omitempty"`
	EMIAmount    string `json:"emi_amount,omitempty"`
	EMIType      string `json:"emi_type,omitempty"`
	IsEMIPayment bool   `json:"is_emi_payment"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type TransactionsSummaryItem struct {
	Count         int    `json:"count"`
	TotalReceipts string `json:"total_receipts"`
	TotalPayments string `json:"total_payments"`
	Net           string `json:"net"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionItem       `json:"transactions"`
	Summary      TransactionsSummaryItem `json:"summary"`
	Page         int                     `json:"page"`
	PageSize     int                     `json:"page_size"`
	TotalCount   int                     `json:"total_count"`
}

type TypeItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListTypesResponse struct {
	Types []TypeItem `json:"types"`
}

type CategoryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
}

type ListCategoriesResponse struct {
	Categories []CategoryItem `json:"categories"`
}

type InstallmentItem struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Installment int    `json:"installment"`
}

type ListInstallmentsResponse struct {
	Installments []InstallmentItem `json:"installments"`
	Count        int               `json:"count"`
}

type PayInstallmentsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
	Total   string `json:"total"`
}

type SettingsResponse struct {
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currency_symbol"`
}

type CurrencyItem struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type ListCurrenciesResponse struct {
	Currencies []CurrencyItem `json:"currencies"`
	Default    string         `json:"default"`
}

const timestampLayout = "02/01/2006 15:04"

func httpStatusFromError(err error) int {
	appErr, ok := appErrors.AsErrorResponse(err)
	if !ok {
		return 500
	}
	switch appErr.Code {
	case appErrors.ErrNotFound:
		return 404 // not found
	case appErrors.ErrInvalidInput:
		return 400 // bad request
	case appErrors.ErrAuth:
		return 401 // unauthorized
	case appErrors.ErrAccessDenied:
		return 403 // access denied
	case appErrors.ErrConflict:
		return 409 // conflict
	default:
		return 500 //internal error
	}
}

// parseAmount converts the wire string to a decimal; an empty string is
// treated as zero so that optional amounts fall through to field validation.
func parseAmount(amountStr string) (decimal.Decimal, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid amount: %q", amountStr),
		}
	}
	return amount, nil
}

func TransactionToHttp(t ledger.Transaction) TransactionItem {
	item := TransactionItem{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         t.Type,
		SubType:      t.SubType,
		Amount:       t.Amount.String(),
		Description:  t.Description,
		Date:         t.Date,
		EnableEMI:    t.EnableEMI,
		IsEMIPayment: t.IsEMIPayment,
		CreatedAt:    t.CreatedAt.Format(timestampLayout),
		UpdatedAt:    t.UpdatedAt.Format(timestampLayout),
	}
	if t.EnableEMI {
		item.EMINumbers = t.EMINumbers
		item.EMIAmount = t.EMIAmount.String()
		item.EMIType = t.EMIType
	}
	return item
}

func AccountToHttp(account ledger.AccountResponse) AccountItem {
	return AccountItem{
		ID:          account.ID,
		Name:        account.Name,
		TypeID:      account.TypeID,
		TypeName:    account.TypeName,
		Description: account.Description,
		Balance:     account.Balance.String(),
		Status:      account.Status,
		CreatedAt:   account.CreatedAt.Format(timestampLayout),
		UpdatedAt:   account.UpdatedAt.Format(timestampLayout),
	}
}

// TransactionListParams validates the list query string and builds the
// filter plus pagination values. Unknown values fail instead of being
// silently ignored.
func TransactionListParams(params url.Values) (ledger.TransactionFilter, int, int, error) {
	var filter ledger.TransactionFilter

	filter.Search = params.Get("search")
	filter.AccountID = params.Get("account_id")

	transactionType := params.Get("type")
	if transactionType != "" && transactionType != ledger.TypeReceive && transactionType != ledger.TypePay {
		return filter, 0, 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("invalid transaction type filter: %s", transactionType),
		}
	}
	filter.Type = transactionType

	if from := params.Get("from"); from != "" {
		if _, err := time.Parse(ledger.DateLayout, from); err != nil {
			return filter, 0, 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("invalid from date: %s", from),
			}
		}
		filter.FromDate = from
	}
	if to := params.Get("to"); to != "" {
		if _, err := time.Parse(ledger.DateLayout, to); err != nil {
			return filter, 0, 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("invalid to date: %s", to),
			}
		}
		filter.ToDate = to
	}

	filter.EMIOnly = params.Get("emi_only") == "true"

	sortBy := params.Get("sort_by")
	switch sortBy {
	case "", "date", "amount", "account":
		filter.SortBy = sortBy
	default:
		return filter, 0, 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("invalid sort field: %s", sortBy),
		}
	}

	sortOrder := params.Get("sort_order")
	switch sortOrder {
	case "", "asc", "desc":
		filter.SortOrder = sortOrder
	default:
		return filter, 0, 0, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("invalid sort order: %s", sortOrder),
		}
	}

	page := 1
	if pageStr := params.Get("page"); pageStr != "" {
		pageInt, err := strconv.Atoi(pageStr)
		if err != nil || pageInt < 1 {
			return filter, 0, 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("invalid page: %s", pageStr),
			}
		}
		page = pageInt
	}

	pageSize := 0
	if pageSizeStr := params.Get("page_size"); pageSizeStr != "" {
		pageSizeInt, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSizeInt < 1 {
			return filter, 0, 0, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("invalid page size: %s", pageSizeStr),
			}
		}
		pageSize = pageSizeInt
	}

	return filter, page, pageSize, nil
}

// paginateTransactions slices one page out of the filtered list; pageSize 0
// disables pagination.
func paginateTransactions(transactions []ledger.Transaction, page int, pageSize int) []ledger.Transaction {
	if pageSize <= 0 {
		return transactions
	}
	start := (page - 1) * pageSize
	if start >= len(transactions) {
		return nil
	}
	end := start + pageSize
	if end > len(transactions) {
		end = len(transactions)
	}
	return transactions[start:end]
}
