package storage

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/polosys/accounts-keeper/internal/auth"
	"github.com/polosys/accounts-keeper/internal/ledger"
)

// InMemoryStorage keeps everything in plain slices behind one mutex. It
// backs tests and local runs without a database.
type InMemoryStorage struct {
	mu sync.Mutex

	users            []auth.User
	sessions         []auth.Session
	accounts         []ledger.Account
	accountTypes     []ledger.AccountType
	transactionTypes []ledger.TransactionType
	transactions     []ledger.Transaction
	categories       []ledger.Category
	settings         []ledger.UserSettings
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func notFound(message string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: message,
	}
}

// --- USERS & SESSIONS --- //

func (inMem *InMemoryStorage) SaveUser(ctx context.Context, user auth.User) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, existing := range inMem.users {
		if existing.Email == user.Email {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "This email address already registered, try to sign in.",
			}
		}
	}
	inMem.users = append(inMem.users, user)
	return nil
}

func (inMem *InMemoryStorage) ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.Email == credentials.Email {
			if auth.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
				return user, nil
			}
			break
		}
	}
	return auth.User{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Email or Password is incorrect.",
	}
}

func (inMem *InMemoryStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (inMem *InMemoryStorage) GetUserByID(ctx context.Context, userID string) (auth.User, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return auth.User{}, notFound("User does not exist.")
}

func (inMem *InMemoryStorage) UpdateDisplayName(ctx context.Context, userID string, displayName string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.users {
		if inMem.users[i].ID == userID {
			inMem.users[i].DisplayName = displayName
			return nil
		}
	}
	return notFound("User does not exist.")
}

func (inMem *InMemoryStorage) SaveSession(ctx context.Context, session auth.Session) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.sessions = append(inMem.sessions, session)
	return nil
}

func (inMem *InMemoryStorage) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, session := range inMem.sessions {
		if session.Token == token {
			return session, nil
		}
	}
	return auth.Session{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Session does not exist, please login.",
	}
}

func (inMem *InMemoryStorage) UpdateSession(ctx context.Context, userID string, token string, expireAt time.Time) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	updated := false
	for i := range inMem.sessions {
		if inMem.sessions[i].UserID == userID && inMem.sessions[i].Token == token {
			inMem.sessions[i].ExpireAt = expireAt
			updated = true
		}
	}
	if !updated {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Session does not exist, please login.",
		}
	}
	return nil
}

func (inMem *InMemoryStorage) LogoutUser(ctx context.Context, userID string, token string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	kept := inMem.sessions[:0]
	for _, session := range inMem.sessions {
		if session.UserID == userID && session.Token == token {
			continue
		}
		kept = append(kept, session)
	}
	inMem.sessions = kept
	return nil
}

func (inMem *InMemoryStorage) DeleteUserData(ctx context.Context, userID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	keptSessions := inMem.sessions[:0]
	for _, session := range inMem.sessions {
		if session.UserID != userID {
			keptSessions = append(keptSessions, session)
		}
	}
	inMem.sessions = keptSessions

	keptTransactions := inMem.transactions[:0]
	for _, t := range inMem.transactions {
		if t.CreatedBy != userID {
			keptTransactions = append(keptTransactions, t)
		}
	}
	inMem.transactions = keptTransactions

	keptAccounts := inMem.accounts[:0]
	for _, account := range inMem.accounts {
		if account.CreatedBy != userID {
			keptAccounts = append(keptAccounts, account)
		}
	}
	inMem.accounts = keptAccounts

	keptAccountTypes := inMem.accountTypes[:0]
	for _, accountType := range inMem.accountTypes {
		if accountType.CreatedBy != userID {
			keptAccountTypes = append(keptAccountTypes, accountType)
		}
	}
	inMem.accountTypes = keptAccountTypes

	keptTransactionTypes := inMem.transactionTypes[:0]
	for _, transactionType := range inMem.transactionTypes {
		if transactionType.CreatedBy != userID {
			keptTransactionTypes = append(keptTransactionTypes, transactionType)
		}
	}
	inMem.transactionTypes = keptTransactionTypes

	keptCategories := inMem.categories[:0]
	for _, category := range inMem.categories {
		if category.CreatedBy != userID {
			keptCategories = append(keptCategories, category)
		}
	}
	inMem.categories = keptCategories

	keptSettings := inMem.settings[:0]
	for _, settings := range inMem.settings {
		if settings.UserID != userID {
			keptSettings = append(keptSettings, settings)
		}
	}
	inMem.settings = keptSettings

	keptUsers := inMem.users[:0]
	for _, user := range inMem.users {
		if user.ID != userID {
			keptUsers = append(keptUsers, user)
		}
	}
	inMem.users = keptUsers
	return nil
}

// --- ACCOUNTS --- //

func (inMem *InMemoryStorage) SaveAccount(ctx context.Context, account ledger.Account) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.accounts = append(inMem.accounts, account)
	return nil
}

func (inMem *InMemoryStorage) GetAccounts(ctx context.Context, userID string) ([]ledger.Account, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var accounts []ledger.Account
	for _, account := range inMem.accounts {
		if account.CreatedBy == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (inMem *InMemoryStorage) GetAccountByID(ctx context.Context, userID string, accountID string) (ledger.Account, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, account := range inMem.accounts {
		if account.ID == accountID && account.CreatedBy == userID {
			return account, nil
		}
	}
	return ledger.Account{}, notFound("The account does not exist.")
}

func (inMem *InMemoryStorage) UpdateAccount(ctx context.Context, userID string, fields ledger.UpdateAccountRequest) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.accounts {
		if inMem.accounts[i].ID == fields.ID && inMem.accounts[i].CreatedBy == userID {
			inMem.accounts[i].Name = fields.NewName
			inMem.accounts[i].TypeID = fields.NewTypeID
			inMem.accounts[i].Description = fields.NewDescription
			inMem.accounts[i].UpdatedAt = fields.UpdateTime
			return nil
		}
	}
	return notFound("The account does not exist.")
}

func (inMem *InMemoryStorage) DeleteAccountWithTransactions(ctx context.Context, userID string, accountID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	found := false
	keptAccounts := inMem.accounts[:0]
	for _, account := range inMem.accounts {
		if account.ID == accountID && account.CreatedBy == userID {
			found = true
			continue
		}
		keptAccounts = append(keptAccounts, account)
	}
	if !found {
		inMem.accounts = keptAccounts
		return notFound("The account does not exist.")
	}
	inMem.accounts = keptAccounts

	keptTransactions := inMem.transactions[:0]
	for _, t := range inMem.transactions {
		if t.AccountID == accountID && t.CreatedBy == userID {
			continue
		}
		keptTransactions = append(keptTransactions, t)
	}
	inMem.transactions = keptTransactions
	return nil
}

// --- ACCOUNT TYPES --- //

func (inMem *InMemoryStorage) SaveAccountTypes(ctx context.Context, types []ledger.AccountType) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.accountTypes = append(inMem.accountTypes, types...)
	return nil
}

func (inMem *InMemoryStorage) GetAccountTypes(ctx context.Context, userID string) ([]ledger.AccountType, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var types []ledger.AccountType
	for _, accountType := range inMem.accountTypes {
		if accountType.CreatedBy == userID {
			types = append(types, accountType)
		}
	}
	return types, nil
}

func (inMem *InMemoryStorage) UpdateAccountType(ctx context.Context, userID string, fields ledger.UpdateTypeRequest) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.accountTypes {
		if inMem.accountTypes[i].ID == fields.ID && inMem.accountTypes[i].CreatedBy == userID {
			inMem.accountTypes[i].Name = fields.NewName
			inMem.accountTypes[i].Category = fields.NewCategory
			return nil
		}
	}
	return notFound("The account type does not exist.")
}

func (inMem *InMemoryStorage) DeleteAccountType(ctx context.Context, userID string, typeID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.accountTypes {
		if inMem.accountTypes[i].ID == typeID && inMem.accountTypes[i].CreatedBy == userID {
			inMem.accountTypes = append(inMem.accountTypes[:i], inMem.accountTypes[i+1:]...)
			return nil
		}
	}
	return notFound("The account type does not exist.")
}

// --- TRANSACTION TYPES --- //

func (inMem *InMemoryStorage) SaveTransactionTypes(ctx context.Context, types []ledger.TransactionType) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.transactionTypes = append(inMem.transactionTypes, types...)
	return nil
}

func (inMem *InMemoryStorage) GetTransactionTypes(ctx context.Context, userID string, category string) ([]ledger.TransactionType, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var types []ledger.TransactionType
	for _, transactionType := range inMem.transactionTypes {
		if transactionType.CreatedBy != userID {
			continue
		}
		if category != "" && transactionType.Category != category {
			continue
		}
		types = append(types, transactionType)
	}
	return types, nil
}

func (inMem *InMemoryStorage) UpdateTransactionType(ctx context.Context, userID string, fields ledger.UpdateTypeRequest) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.transactionTypes {
		if inMem.transactionTypes[i].ID == fields.ID && inMem.transactionTypes[i].CreatedBy == userID {
			inMem.transactionTypes[i].Name = fields.NewName
			inMem.transactionTypes[i].Category = fields.NewCategory
			return nil
		}
	}
	return notFound("The transaction type does not exist.")
}

func (inMem *InMemoryStorage) DeleteTransactionType(ctx context.Context, userID string, typeID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.transactionTypes {
		if inMem.transactionTypes[i].ID == typeID && inMem.transactionTypes[i].CreatedBy == userID {
			inMem.transactionTypes = append(inMem.transactionTypes[:i], inMem.transactionTypes[i+1:]...)
			return nil
		}
	}
	return notFound("The transaction type does not exist.")
}

// --- TRANSACTIONS --- //

func (inMem *InMemoryStorage) SaveTransaction(ctx context.Context, t ledger.Transaction) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.transactions = append(inMem.transactions, t)
	return nil
}

func (inMem *InMemoryStorage) SaveTransactions(ctx context.Context, ts []ledger.Transaction) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.transactions = append(inMem.transactions, ts...)
	return nil
}

func (inMem *InMemoryStorage) GetTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var transactions []ledger.Transaction
	for _, t := range inMem.transactions {
		if t.CreatedBy == userID {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (inMem *InMemoryStorage) GetAccountTransactions(ctx context.Context, userID string, accountID string) ([]ledger.Transaction, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var transactions []ledger.Transaction
	for _, t := range inMem.transactions {
		if t.CreatedBy == userID && t.AccountID == accountID {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (inMem *InMemoryStorage) GetTransactionByID(ctx context.Context, userID string, transactionID string) (ledger.Transaction, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, t := range inMem.transactions {
		if t.ID == transactionID && t.CreatedBy == userID {
			return t, nil
		}
	}
	return ledger.Transaction{}, notFound("The transaction does not exist.")
}

func (inMem *InMemoryStorage) UpdateTransaction(ctx context.Context, userID string, fields ledger.UpdateTransactionRequest) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.transactions {
		if inMem.transactions[i].ID == fields.ID && inMem.transactions[i].CreatedBy == userID {
			inMem.transactions[i].AccountID = fields.NewAccountID
			inMem.transactions[i].Type = fields.NewType
			inMem.transactions[i].SubType = fields.NewSubType
			inMem.transactions[i].Amount = fields.NewAmount
			inMem.transactions[i].Description = fields.NewDescription
			inMem.transactions[i].Date = fields.NewDate
			inMem.transactions[i].EnableEMI = fields.EnableEMI
			inMem.transactions[i].EMINumbers = fields.EMINumbers
			inMem.transactions[i].EMIAmount = fields.EMIAmount
			inMem.transactions[i].EMIType = fields.EMIType
			inMem.transactions[i].UpdatedAt = fields.UpdateTime
			return nil
		}
	}
	return notFound("The transaction does not exist.")
}

func (inMem *InMemoryStorage) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.transactions {
		if inMem.transactions[i].ID == transactionID && inMem.transactions[i].CreatedBy == userID {
			inMem.transactions = append(inMem.transactions[:i], inMem.transactions[i+1:]...)
			return nil
		}
	}
	return notFound("The transaction does not exist.")
}

// --- CATEGORIES --- //

func (inMem *InMemoryStorage) SaveCategories(ctx context.Context, categories []ledger.Category) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.categories = append(inMem.categories, categories...)
	return nil
}

func (inMem *InMemoryStorage) GetCategories(ctx context.Context, userID string) ([]ledger.Category, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var categories []ledger.Category
	for _, category := range inMem.categories {
		if category.CreatedBy == userID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (inMem *InMemoryStorage) UpdateCategory(ctx context.Context, userID string, fields ledger.UpdateCategoryRequest) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.categories {
		if inMem.categories[i].ID == fields.ID && inMem.categories[i].CreatedBy == userID {
			inMem.categories[i].Name = fields.NewName
			inMem.categories[i].Color = fields.NewColor
			return nil
		}
	}
	return notFound("The category does not exist.")
}

func (inMem *InMemoryStorage) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.categories {
		if inMem.categories[i].ID == categoryID && inMem.categories[i].CreatedBy == userID {
			inMem.categories = append(inMem.categories[:i], inMem.categories[i+1:]...)
			return nil
		}
	}
	return notFound("The category does not exist.")
}

// --- SETTINGS --- //

func (inMem *InMemoryStorage) GetUserSettings(ctx context.Context, userID string) (ledger.UserSettings, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, settings := range inMem.settings {
		if settings.UserID == userID {
			return settings, nil
		}
	}
	return ledger.UserSettings{}, notFound("Settings not found.")
}

func (inMem *InMemoryStorage) UpsertUserSettings(ctx context.Context, settings ledger.UserSettings) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.settings {
		if inMem.settings[i].UserID == settings.UserID {
			inMem.settings[i] = settings
			return nil
		}
	}
	inMem.settings = append(inMem.settings, settings)
	return nil
}
