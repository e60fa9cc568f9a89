package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/polosys/accounts-keeper/internal/auth"
	"github.com/polosys/accounts-keeper/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MAX_NAME_LENGTH        = 255
	MAX_DESCRIPTION_LENGTH = 1000
	MAX_EMI_NUMBERS        = 600
)

// MAX_AMOUNT_LIMIT caps a single transaction amount.
var MAX_AMOUNT_LIMIT = decimal.RequireFromString("999999999999999999")

// Ledger is the application service; every operation is scoped to the
// calling user and all persistence goes through the Storage interface.
type Ledger struct {
	storage     Storage
	StorageType string
}

func NewLedger(s Storage) Ledger {
	return Ledger{
		storage:     s,
		StorageType: s.GetStorageType(),
	}
}

type Storage interface {
	// users and sessions
	SaveUser(ctx context.Context, user auth.User) error
	ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	GetUserByID(ctx context.Context, userID string) (auth.User, error)
	UpdateDisplayName(ctx context.Context, userID string, displayName string) error
	SaveSession(ctx context.Context, session auth.Session) error
	GetSessionByToken(ctx context.Context, token string) (auth.Session, error)
	UpdateSession(ctx context.Context, userID string, token string, expireAt time.Time) error
	LogoutUser(ctx context.Context, userID string, token string) error
	DeleteUserData(ctx context.Context, userID string) error

	// accounts
	SaveAccount(ctx context.Context, account Account) error
	GetAccounts(ctx context.Context, userID string) ([]Account, error)
	GetAccountByID(ctx context.Context, userID string, accountID string) (Account, error)
	UpdateAccount(ctx context.Context, userID string, fields UpdateAccountRequest) error
	DeleteAccountWithTransactions(ctx context.Context, userID string, accountID string) error

	// account types
	SaveAccountTypes(ctx context.Context, types []AccountType) error
	GetAccountTypes(ctx context.Context, userID string) ([]AccountType, error)
	UpdateAccountType(ctx context.Context, userID string, fields UpdateTypeRequest) error
	DeleteAccountType(ctx context.Context, userID string, typeID string) error

	// transaction types
	SaveTransactionTypes(ctx context.Context, types []TransactionType) error
	GetTransactionTypes(ctx context.Context, userID string, category string) ([]TransactionType, error)
	UpdateTransactionType(ctx context.Context, userID string, fields UpdateTypeRequest) error
	DeleteTransactionType(ctx context.Context, userID string, typeID string) error

	// transactions
	SaveTransaction(ctx context.Context, t Transaction) error
	SaveTransactions(ctx context.Context, ts []Transaction) error
	GetTransactions(ctx context.Context, userID string) ([]Transaction, error)
	GetAccountTransactions(ctx context.Context, userID string, accountID string) ([]Transaction, error)
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, fields UpdateTransactionRequest) error
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error

	// categories
	SaveCategories(ctx context.Context, categories []Category) error
	GetCategories(ctx context.Context, userID string) ([]Category, error)
	UpdateCategory(ctx context.Context, userID string, fields UpdateCategoryRequest) error
	DeleteCategory(ctx context.Context, userID string, categoryID string) error

	// settings
	GetUserSettings(ctx context.Context, userID string) (UserSettings, error)
	UpsertUserSettings(ctx context.Context, settings UserSettings) error

	GetStorageType() string
}

// --- USERS & SESSIONS --- //

func (ls *Ledger) RegisterUser(ctx context.Context, newUser auth.NewUser) (string, error) {
	if err := newUser.ValidateUserFields(); err != nil {
		return "", err
	}

	isEmailTaken, err := ls.storage.IsEmailTaken(ctx, strings.ToLower(newUser.Email))
	if err != nil {
		return "", fmt.Errorf("failed to check email availability: %w", err)
	}
	if isEmailTaken {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrConflict,
			Message: fmt.Sprintf("This '%s' email address already registered, try to sign in.", newUser.Email),
		}
	}

	hashedPassword, err := auth.HashPassword(newUser.PasswordPlain)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := auth.User{
		ID:             uuid.New().String(),
		Email:          strings.ToLower(newUser.Email),
		DisplayName:    strings.TrimSpace(newUser.DisplayName),
		PasswordHashed: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := ls.storage.SaveUser(ctx, user); err != nil {
		return "", fmt.Errorf("failed to registration: %w", err)
	}

	// every new user starts with the stock category set; the seed is one
	// batched write so it either fully lands or not at all
	if err := ls.seedDefaultCategories(ctx, user.ID); err != nil {
		logging.Logger.Warnf("failed to seed default categories for user %s: %v", user.ID, err)
	}

	credentials := auth.UserCredentialsPure{
		Email:         newUser.Email,
		PasswordPlain: newUser.PasswordPlain,
	}

	token, err := ls.GenerateSession(ctx, credentials)
	if err != nil {
		return "", fmt.Errorf("registration successfully but failed to generate session: %w | try login", err)
	}
	return token, nil
}

func (ls *Ledger) GenerateSession(ctx context.Context, credentialsPure auth.UserCredentialsPure) (string, error) {
	credentialsPure.Email = strings.ToLower(credentialsPure.Email)

	user, err := ls.storage.ValidateUser(ctx, credentialsPure)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	tokenByte := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, tokenByte); err != nil {
		return "", fmt.Errorf("failed to generate new session: %w", err)
	}

	token := hex.EncodeToString(tokenByte)

	now := time.Now().UTC()

	session := auth.Session{
		ID:        uuid.New().String(),
		Token:     token,
		CreatedAt: now,
		ExpireAt:  now.AddDate(0, 3, 0),
		UserID:    user.ID,
	}

	err = ls.storage.SaveSession(ctx, session)
	if err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

func (ls *Ledger) CheckSession(ctx context.Context, token string) (string, error) {
	session, err := ls.storage.GetSessionByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to get session by token: %w", err)
	}

	now := time.Now().UTC()
	if session.ExpireAt.Before(now) {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Your session expired, please login again.",
		}
	}

	// sliding expiry: a session close to the end is quietly extended; only
	// the presented token, other sessions of the user keep their own clock
	daysUntilExpiry := int(session.ExpireAt.Sub(now).Hours() / 24)
	if daysUntilExpiry <= 5 {
		newExpireAt := now.AddDate(0, 1, 0)
		if err := ls.storage.UpdateSession(ctx, session.UserID, session.Token, newExpireAt); err != nil {
			return "", fmt.Errorf("failed to update session: %w", err)
		}
	}

	return session.UserID, nil
}

func (ls *Ledger) LogoutUser(ctx context.Context, userID string, token string) error {
	if err := ls.storage.LogoutUser(ctx, userID, token); err != nil {
		return err
	}
	return nil
}

func (ls *Ledger) AccountInfo(ctx context.Context, userID string) (AccountInfo, error) {
	user, err := ls.storage.GetUserByID(ctx, userID)
	if err != nil {
		return AccountInfo{}, fmt.Errorf("failed to get user: %w", err)
	}
	return AccountInfo{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		JoinedAt:    user.CreatedAt,
	}, nil
}

func (ls *Ledger) UpdateDisplayName(ctx context.Context, userID string, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Display name cannot be empty!",
		}
	}
	if len(displayName) > auth.MAX_LENGTH_DISPLAY_NAME {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Display name so long, maximum length is %d", auth.MAX_LENGTH_DISPLAY_NAME),
		}
	}
	if err := ls.storage.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	return nil
}

// DeleteUserAccount removes the user and everything they own in one atomic
// batch. Both gates must pass: the typed confirmation word and the password.
func (ls *Ledger) DeleteUserAccount(ctx context.Context, userID string, deleteReq auth.DeleteUser) error {
	if deleteReq.Confirmation != auth.DeleteConfirmationWord {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Type %q to confirm account deletion.", auth.DeleteConfirmationWord),
		}
	}

	user, err := ls.storage.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !auth.ComparePasswords(user.PasswordHashed, deleteReq.Password) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAccessDenied,
			Message: "Password is incorrect.",
		}
	}

	if err := ls.storage.DeleteUserData(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// --- ACCOUNTS --- //

func (ls *Ledger) SaveAccount(ctx context.Context, userID string, request AccountRequest) (Account, error) {
	request.Name = strings.TrimSpace(request.Name)
	if request.Name == "" {
		return Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Account name is required.",
		}
	}
	if len(request.Name) > MAX_NAME_LENGTH {
		return Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Account name so long, maximum length is %d", MAX_NAME_LENGTH),
		}
	}
	if request.TypeID == "" {
		return Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Account type is required.",
		}
	}
	if len(request.Description) > MAX_DESCRIPTION_LENGTH {
		return Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Description so long, maximum allowed length is: %d", MAX_DESCRIPTION_LENGTH),
		}
	}

	now := time.Now().UTC()
	account := Account{
		ID:          uuid.New().String(),
		Name:        request.Name,
		TypeID:      request.TypeID,
		Description: strings.TrimSpace(request.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}

	if err := ls.storage.SaveAccount(ctx, account); err != nil {
		return Account{}, fmt.Errorf("failed to save account: %w", err)
	}
	return account, nil
}

// GetAccounts returns every account of the user with its computed balance,
// resolved type name and derived status, plus the receivable/payable summary.
func (ls *Ledger) GetAccounts(ctx context.Context, userID string) ([]AccountResponse, AccountsSummary, error) {
	accounts, err := ls.storage.GetAccounts(ctx, userID)
	if err != nil {
		return nil, AccountsSummary{}, fmt.Errorf("failed to get accounts: %w", err)
	}

	transactions, err := ls.storage.GetTransactions(ctx, userID)
	if err != nil {
		return nil, AccountsSummary{}, fmt.Errorf("failed to get transactions: %w", err)
	}

	types, err := ls.GetAccountTypes(ctx, userID)
	if err != nil {
		return nil, AccountsSummary{}, err
	}
	typeNames := make(map[string]string, len(types))
	for _, accountType := range types {
		typeNames[accountType.ID] = accountType.Name
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		balance := AccountBalance(transactions, account.ID)
		typeName := typeNames[account.TypeID]
		if typeName == "" {
			typeName = "Unknown"
		}
		responses = append(responses, AccountResponse{
			Account:  account,
			TypeName: typeName,
			Balance:  balance,
			Status:   AccountStatus(balance),
		})
	}

	return responses, SummarizeAccounts(responses), nil
}

// GetAccountDetails returns one account with its stats and its transactions
// sorted date-descending.
func (ls *Ledger) GetAccountDetails(ctx context.Context, userID string, accountID string) (Account, AccountStats, []Transaction, error) {
	account, err := ls.storage.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return Account{}, AccountStats{}, nil, fmt.Errorf("failed to get account: %w", err)
	}

	transactions, err := ls.storage.GetAccountTransactions(ctx, userID, accountID)
	if err != nil {
		return Account{}, AccountStats{}, nil, fmt.Errorf("failed to get account transactions: %w", err)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date > transactions[j].Date
	})

	return account, CalculateAccountStats(transactions), transactions, nil
}

func (ls *Ledger) UpdateAccount(ctx context.Context, userID string, fields UpdateAccountRequest) error {
	fields.NewName = strings.TrimSpace(fields.NewName)
	if fields.NewName == "" || fields.NewTypeID == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Account name and type are required.",
		}
	}
	if len(fields.NewName) > MAX_NAME_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Account name so long, maximum length is %d", MAX_NAME_LENGTH),
		}
	}

	fields.UpdateTime = time.Now().UTC()
	if err := ls.storage.UpdateAccount(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount removes the account together with every transaction that
// references it; storage performs both deletes in a single atomic batch.
func (ls *Ledger) DeleteAccount(ctx context.Context, userID string, accountID string) error {
	if err := ls.storage.DeleteAccountWithTransactions(ctx, userID, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// --- ACCOUNT TYPES --- //

var defaultAccountTypes = []struct {
	Name     string
	Category string
}{
	{"Cash", AccountCategoryAsset},
	{"Bank Account", AccountCategoryAsset},
	{"Savings Account", AccountCategoryAsset},
	{"Accounts Receivable", AccountCategoryAsset},
	{"Loan Receivable", AccountCategoryAsset},
	{"Accounts Payable", AccountCategoryLiability},
	{"Loan Payable", AccountCategoryLiability},
	{"Credit Card", AccountCategoryLiability},
}

// GetAccountTypes lists the user's account types, seeding the default set in
// one batched write when the user has none yet.
func (ls *Ledger) GetAccountTypes(ctx context.Context, userID string) ([]AccountType, error) {
	types, err := ls.storage.GetAccountTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account types: %w", err)
	}
	if len(types) > 0 {
		return types, nil
	}

	now := time.Now().UTC()
	seeded := make([]AccountType, 0, len(defaultAccountTypes))
	for _, def := range defaultAccountTypes {
		seeded = append(seeded, AccountType{
			ID:        uuid.New().String(),
			Name:      def.Name,
			Category:  def.Category,
			CreatedAt: now,
			CreatedBy: userID,
		})
	}

	if err := ls.storage.SaveAccountTypes(ctx, seeded); err != nil {
		return nil, fmt.Errorf("failed to seed default account types: %w", err)
	}
	return seeded, nil
}

func (ls *Ledger) SaveAccountType(ctx context.Context, userID string, request TypeRequest) (AccountType, error) {
	request.Name = strings.TrimSpace(request.Name)
	if request.Name == "" {
		return AccountType{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Type name is required.",
		}
	}
	if len(request.Name) > MAX_NAME_LENGTH {
		return AccountType{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Type name so long, maximum length is %d", MAX_NAME_LENGTH),
		}
	}
	if request.Category != "" && request.Category != AccountCategoryAsset && request.Category != AccountCategoryLiability {
		return AccountType{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid account type category: %s", request.Category),
		}
	}

	accountType := AccountType{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Category:  request.Category,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}

	if err := ls.storage.SaveAccountTypes(ctx, []AccountType{accountType}); err != nil {
		return AccountType{}, fmt.Errorf("failed to save account type: %w", err)
	}
	return accountType, nil
}

func (ls *Ledger) UpdateAccountType(ctx context.Context, userID string, fields UpdateTypeRequest) error {
	fields.NewName = strings.TrimSpace(fields.NewName)
	if fields.NewName == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Type name is required.",
		}
	}
	if fields.NewCategory != "" && fields.NewCategory != AccountCategoryAsset && fields.NewCategory != AccountCategoryLiability {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid account type category: %s", fields.NewCategory),
		}
	}

	fields.UpdateTime = time.Now().UTC()
	if err := ls.storage.UpdateAccountType(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update account type: %w", err)
	}
	return nil
}

func (ls *Ledger) DeleteAccountType(ctx context.Context, userID string, typeID string) error {
	if err := ls.storage.DeleteAccountType(ctx, userID, typeID); err != nil {
		return fmt.Errorf("failed to delete account type: %w", err)
	}
	return nil
}

// --- TRANSACTION TYPES --- //

var defaultTransactionTypes = map[string][]string{
	CategoryReceipt: {"Savings", "Loan"},
	CategoryPayment: {"Credit", "Repayment"},
}

// GetTransactionTypes lists the user's transaction types, optionally limited
// to one category. When a category is requested and the user has no types in
// it yet, the category's default set is seeded in one batched write.
func (ls *Ledger) GetTransactionTypes(ctx context.Context, userID string, category string) ([]TransactionType, error) {
	if category != "" && category != CategoryReceipt && category != CategoryPayment {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid transaction type category: %s", category),
		}
	}

	types, err := ls.storage.GetTransactionTypes(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction types: %w", err)
	}
	if len(types) > 0 || category == "" {
		return types, nil
	}

	now := time.Now().UTC()
	seeded := make([]TransactionType, 0, len(defaultTransactionTypes[category]))
	for _, name := range defaultTransactionTypes[category] {
		seeded = append(seeded, TransactionType{
			ID:        uuid.New().String(),
			Name:      name,
			Category:  category,
			CreatedAt: now,
			CreatedBy: userID,
		})
	}

	if err := ls.storage.SaveTransactionTypes(ctx, seeded); err != nil {
		return nil, fmt.Errorf("failed to seed default transaction types: %w", err)
	}
	return seeded, nil
}

func (ls *Ledger) SaveTransactionType(ctx context.Context, userID string, request TypeRequest) (TransactionType, error) {
	request.Name = strings.TrimSpace(request.Name)
	if request.Name == "" {
		return TransactionType{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Type name is required.",
		}
	}
	if request.Category != CategoryReceipt && request.Category != CategoryPayment {
		return TransactionType{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid transaction type category: %s, allowed categories are: receipt, payment", request.Category),
		}
	}

	transactionType := TransactionType{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Category:  request.Category,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}

	if err := ls.storage.SaveTransactionTypes(ctx, []TransactionType{transactionType}); err != nil {
		return TransactionType{}, fmt.Errorf("failed to save transaction type: %w", err)
	}
	return transactionType, nil
}

func (ls *Ledger) UpdateTransactionType(ctx context.Context, userID string, fields UpdateTypeRequest) error {
	fields.NewName = strings.TrimSpace(fields.NewName)
	if fields.NewName == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Type name is required.",
		}
	}
	if fields.NewCategory != CategoryReceipt && fields.NewCategory != CategoryPayment {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid transaction type category: %s", fields.NewCategory),
		}
	}

	fields.UpdateTime = time.Now().UTC()
	if err := ls.storage.UpdateTransactionType(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update transaction type: %w", err)
	}
	return nil
}

func (ls *Ledger) DeleteTransactionType(ctx context.Context, userID string, typeID string) error {
	if err := ls.storage.DeleteTransactionType(ctx, userID, typeID); err != nil {
		return fmt.Errorf("failed to delete transaction type: %w", err)
	}
	return nil
}

// --- TRANSACTIONS --- //

func (ls *Ledger) validateTransactionFields(transactionType string, subType string, amount decimal.Decimal, description string, date string) error {
	if transactionType != TypeReceive && transactionType != TypePay {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid transaction type: %s, allowed types are: receive, pay", transactionType),
		}
	}
	if subType == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Transaction type is required.",
		}
	}
	if !amount.IsPositive() {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Transaction amount must be greater than zero.",
		}
	}
	if amount.GreaterThan(MAX_AMOUNT_LIMIT) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Maximum allowed amount per transaction is: %s", MAX_AMOUNT_LIMIT.String()),
		}
	}
	if len(description) > MAX_DESCRIPTION_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Description so long, maximum allowed length is: %d", MAX_DESCRIPTION_LENGTH),
		}
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid transaction date: %q, expected format is %s.", date, DateLayout),
		}
	}
	return nil
}

func (ls *Ledger) validateEMIFields(transactionType string, numbers int, perAmount decimal.Decimal, unit string) error {
	if transactionType != TypeReceive {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Installment schedules can only be attached to receipts.",
		}
	}
	if numbers <= 0 || numbers > MAX_EMI_NUMBERS {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Installment count must be between 1 and %d.", MAX_EMI_NUMBERS),
		}
	}
	if !perAmount.IsPositive() {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Installment amount must be greater than zero.",
		}
	}
	switch unit {
	case EMIUnitDay, EMIUnitWeek, EMIUnitMonth, EMIUnitYear:
		return nil
	default:
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid installment unit: %q, allowed units are: day, week, month, year.", unit),
		}
	}
}

// SaveTransaction records one receipt or payment. For an EMI-origin receipt
// the stored amount is the full schedule total (count times per-installment
// amount), matching what the schedule will later project.
func (ls *Ledger) SaveTransaction(ctx context.Context, userID string, request TransactionRequest) (Transaction, error) {
	if request.AccountID == "" {
		return Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Account is required.",
		}
	}

	amount := request.Amount
	if request.EnableEMI {
		if err := ls.validateEMIFields(request.Type, request.EMINumbers, request.EMIAmount, request.EMIType); err != nil {
			return Transaction{}, err
		}
		amount = request.EMIAmount.Mul(decimal.NewFromInt(int64(request.EMINumbers)))
	}

	if err := ls.validateTransactionFields(request.Type, request.SubType, amount, request.Description, request.Date); err != nil {
		return Transaction{}, err
	}

	// the account must belong to the caller
	if _, err := ls.storage.GetAccountByID(ctx, userID, request.AccountID); err != nil {
		return Transaction{}, fmt.Errorf("failed to get account: %w", err)
	}

	now := time.Now().UTC()
	transaction := Transaction{
		ID:          uuid.New().String(),
		AccountID:   request.AccountID,
		Type:        request.Type,
		SubType:     strings.ToLower(request.SubType),
		Amount:      amount,
		Description: request.Description,
		Date:        request.Date,
		EnableEMI:   request.EnableEMI,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}
	if request.EnableEMI {
		transaction.EMINumbers = request.EMINumbers
		transaction.EMIAmount = request.EMIAmount
		transaction.EMIType = request.EMIType
	}

	if err := ls.storage.SaveTransaction(ctx, transaction); err != nil {
		return Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	return transaction, nil
}

// ListTransactions loads the user's transactions, applies the conjunctive
// filters and sorting, and totals the result.
func (ls *Ledger) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]Transaction, TransactionSummary, error) {
	transactions, err := ls.storage.GetTransactions(ctx, userID)
	if err != nil {
		return nil, TransactionSummary{}, fmt.Errorf("failed to get transactions: %w", err)
	}

	accounts, err := ls.storage.GetAccounts(ctx, userID)
	if err != nil {
		return nil, TransactionSummary{}, fmt.Errorf("failed to get accounts: %w", err)
	}
	accountNames := make(map[string]string, len(accounts))
	for _, account := range accounts {
		accountNames[account.ID] = account.Name
	}

	filtered := FilterTransactions(transactions, accountNames, filter)
	return filtered, SummarizeTransactions(filtered), nil
}

func (ls *Ledger) GetTransactionByID(ctx context.Context, userID string, transactionID string) (Transaction, error) {
	t, err := ls.storage.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get transaction by id: %w", err)
	}
	return t, nil
}

func (ls *Ledger) UpdateTransaction(ctx context.Context, userID string, fields UpdateTransactionRequest) error {
	if fields.NewAccountID == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Account is required.",
		}
	}

	amount := fields.NewAmount
	if fields.EnableEMI {
		if err := ls.validateEMIFields(fields.NewType, fields.EMINumbers, fields.EMIAmount, fields.EMIType); err != nil {
			return err
		}
		amount = fields.EMIAmount.Mul(decimal.NewFromInt(int64(fields.EMINumbers)))
		fields.NewAmount = amount
	}
	if err := ls.validateTransactionFields(fields.NewType, fields.NewSubType, amount, fields.NewDescription, fields.NewDate); err != nil {
		return err
	}

	// the target account must belong to the caller
	if _, err := ls.storage.GetAccountByID(ctx, userID, fields.NewAccountID); err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	fields.NewSubType = strings.ToLower(fields.NewSubType)
	fields.UpdateTime = time.Now().UTC()
	if err := ls.storage.UpdateTransaction(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

func (ls *Ledger) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	if err := ls.storage.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// --- INSTALLMENTS --- //

// UnpaidInstallments projects the schedules of every EMI-origin transaction
// on the account and drops installments whose due date exactly matches a
// recorded payment date. A storage failure propagates to the caller; it is
// the caller's decision whether to degrade to an empty list.
func (ls *Ledger) UnpaidInstallments(ctx context.Context, userID string, accountID string) ([]InstallmentDue, error) {
	transactions, err := ls.storage.GetAccountTransactions(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account transactions: %w", err)
	}

	var origins, payments []Transaction
	for _, t := range transactions {
		if t.EnableEMI {
			origins = append(origins, t)
		}
		if t.Type == TypePay {
			payments = append(payments, t)
		}
	}

	unpaid, err := ReconcileInstallments(origins, payments)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile installments: %w", err)
	}
	return unpaid, nil
}

// PayInstallments writes one pay transaction per selected installment in a
// single atomic batch; they either all land or none do.
func (ls *Ledger) PayInstallments(ctx context.Context, userID string, request PayInstallmentsRequest) (int, decimal.Decimal, error) {
	if request.AccountID == "" {
		return 0, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Account is required.",
		}
	}
	if len(request.Selected) == 0 {
		return 0, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Select at least one installment to pay.",
		}
	}
	if request.SubType == "" {
		return 0, decimal.Zero, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Transaction type is required.",
		}
	}

	if _, err := ls.storage.GetAccountByID(ctx, userID, request.AccountID); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to get account: %w", err)
	}

	now := time.Now().UTC()
	total := decimal.Zero
	settlements := make([]Transaction, 0, len(request.Selected))
	for _, selected := range request.Selected {
		if _, err := time.Parse(DateLayout, selected.Date); err != nil {
			return 0, decimal.Zero, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("Invalid installment date: %q, expected format is %s.", selected.Date, DateLayout),
			}
		}
		if !selected.Amount.IsPositive() {
			return 0, decimal.Zero, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Installment amount must be greater than zero.",
			}
		}

		description := request.Description
		if description == "" {
			description = fmt.Sprintf("EMI Payment - %s", selected.Date)
		}

		settlements = append(settlements, Transaction{
			ID:           uuid.New().String(),
			AccountID:    request.AccountID,
			Type:         TypePay,
			SubType:      strings.ToLower(request.SubType),
			Amount:       selected.Amount,
			Description:  description,
			Date:         selected.Date,
			IsEMIPayment: true,
			CreatedAt:    now,
			UpdatedAt:    now,
			CreatedBy:    userID,
		})
		total = total.Add(selected.Amount)
	}

	if err := ls.storage.SaveTransactions(ctx, settlements); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to save installment payments: %w", err)
	}
	return len(settlements), total, nil
}

// --- CATEGORIES --- //

var defaultCategories = []struct {
	Name  string
	Color string
}{
	{"Food", "#28a745"},
	{"Transport", "#007bff"},
	{"Entertainment", "#ffc107"},
	{"Salary", "#17a2b8"},
	{"Bills", "#dc3545"},
}

func (ls *Ledger) seedDefaultCategories(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	seeded := make([]Category, 0, len(defaultCategories))
	for _, def := range defaultCategories {
		seeded = append(seeded, Category{
			ID:        uuid.New().String(),
			Name:      def.Name,
			Color:     def.Color,
			CreatedAt: now,
			CreatedBy: userID,
		})
	}
	return ls.storage.SaveCategories(ctx, seeded)
}

func (ls *Ledger) GetCategories(ctx context.Context, userID string) ([]Category, error) {
	categories, err := ls.storage.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (ls *Ledger) SaveCategory(ctx context.Context, userID string, request CategoryRequest) (Category, error) {
	request.Name = strings.TrimSpace(request.Name)
	if request.Name == "" {
		return Category{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Category name is required.",
		}
	}
	if len(request.Name) > MAX_NAME_LENGTH {
		return Category{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Category name so long, maximum length is %d", MAX_NAME_LENGTH),
		}
	}

	category := Category{
		ID:        uuid.New().String(),
		Name:      request.Name,
		Color:     request.Color,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}

	if err := ls.storage.SaveCategories(ctx, []Category{category}); err != nil {
		return Category{}, fmt.Errorf("failed to save category: %w", err)
	}
	return category, nil
}

func (ls *Ledger) UpdateCategory(ctx context.Context, userID string, fields UpdateCategoryRequest) error {
	fields.NewName = strings.TrimSpace(fields.NewName)
	if fields.NewName == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Category name is required.",
		}
	}
	if err := ls.storage.UpdateCategory(ctx, userID, fields); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (ls *Ledger) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	if err := ls.storage.DeleteCategory(ctx, userID, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// --- SETTINGS --- //

// GetSettings returns the user's currency settings, falling back to the
// defaults when nothing is stored yet.
func (ls *Ledger) GetSettings(ctx context.Context, userID string) (UserSettings, error) {
	settings, err := ls.storage.GetUserSettings(ctx, userID)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrNotFound) {
			return UserSettings{
				UserID:         userID,
				Currency:       DefaultCurrency,
				CurrencySymbol: Currencies[DefaultCurrency].Symbol,
			}, nil
		}
		return UserSettings{}, fmt.Errorf("failed to get user settings: %w", err)
	}
	return settings, nil
}

// SaveSettings upserts the currency choice; the symbol is derived from the
// currency table, never taken from the client.
func (ls *Ledger) SaveSettings(ctx context.Context, userID string, currency string) (UserSettings, error) {
	info, ok := Currencies[currency]
	if !ok {
		return UserSettings{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Unsupported currency: %s", currency),
		}
	}

	settings := UserSettings{
		UserID:         userID,
		Currency:       currency,
		CurrencySymbol: info.Symbol,
	}

	if err := ls.storage.UpsertUserSettings(ctx, settings); err != nil {
		return UserSettings{}, fmt.Errorf("failed to save user settings: %w", err)
	}
	return settings, nil
}

// --- EXPORT --- //

// ExportUserData assembles the downloadable snapshot of everything the user
// owns: profile, settings, transactions and categories.
func (ls *Ledger) ExportUserData(ctx context.Context, userID string) (ExportData, error) {
	user, err := ls.storage.GetUserByID(ctx, userID)
	if err != nil {
		return ExportData{}, fmt.Errorf("failed to get user: %w", err)
	}

	settings, err := ls.GetSettings(ctx, userID)
	if err != nil {
		return ExportData{}, err
	}

	transactions, err := ls.storage.GetTransactions(ctx, userID)
	if err != nil {
		return ExportData{}, fmt.Errorf("failed to get transactions: %w", err)
	}

	categories, err := ls.storage.GetCategories(ctx, userID)
	if err != nil {
		return ExportData{}, fmt.Errorf("failed to get categories: %w", err)
	}

	return ExportData{
		User: ExportUser{
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
		Settings:     settings,
		Transactions: transactions,
		Categories:   categories,
		ExportDate:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ExportFileName builds the timestamped attachment name for an export.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("accounts-keeper-data-%s.json", now.Format(DateLayout))
}
