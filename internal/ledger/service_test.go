package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/polosys/accounts-keeper/internal/auth"
	"github.com/polosys/accounts-keeper/logging"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func init() {
	// the service logs through the shared logger
	logging.Logger = logrus.New()
}

// Mocks
type MockStorage struct {
	savedUsers              []auth.User
	savedCategoryBatches    [][]Category
	savedTransactions       []Transaction
	savedTransactionBatches [][]Transaction
	savedSettings           []UserSettings
	updateSessionCalls      int
	updatedSessionTokens    []string
	deleteUserDataCalls     int

	updatedTransactions []UpdateTransactionRequest
	updatedAccountTypes []UpdateTypeRequest

	accountTransactions []Transaction
	userWithPassword    auth.User
}

func (m *MockStorage) GetStorageType() string { return "mock" }

func (m *MockStorage) SaveUser(ctx context.Context, user auth.User) error {
	m.savedUsers = append(m.savedUsers, user)
	return nil
}

func (m *MockStorage) ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error) {
	if credentials.Email == "john@example.com" {
		return auth.User{ID: "john-1234", Email: credentials.Email}, nil
	}
	return auth.User{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Email or Password is incorrect.",
	}
}

func (m *MockStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return email == "taken@example.com", nil
}

func (m *MockStorage) GetUserByID(ctx context.Context, userID string) (auth.User, error) {
	if m.userWithPassword.ID == userID {
		return m.userWithPassword, nil
	}
	return auth.User{ID: userID, Email: "john@example.com", DisplayName: "John", CreatedAt: time.Now()}, nil
}

func (m *MockStorage) UpdateDisplayName(ctx context.Context, userID string, displayName string) error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, session auth.Session) error {
	return nil
}

func (m *MockStorage) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	now := time.Now().UTC()
	switch token {
	case "tok-expired":
		return auth.Session{ID: "s1", Token: token, ExpireAt: now.Add(-time.Hour), UserID: "john-1234"}, nil
	case "tok-expiring":
		return auth.Session{ID: "s2", Token: token, ExpireAt: now.Add(48 * time.Hour), UserID: "john-1234"}, nil
	case "tok-valid":
		return auth.Session{ID: "s3", Token: token, ExpireAt: now.AddDate(0, 2, 0), UserID: "john-1234"}, nil
	}
	return auth.Session{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Session does not exist, please login.",
	}
}

func (m *MockStorage) UpdateSession(ctx context.Context, userID string, token string, expireAt time.Time) error {
	m.updateSessionCalls++
	m.updatedSessionTokens = append(m.updatedSessionTokens, token)
	return nil
}

func (m *MockStorage) LogoutUser(ctx context.Context, userID string, token string) error {
	return nil
}

func (m *MockStorage) DeleteUserData(ctx context.Context, userID string) error {
	m.deleteUserDataCalls++
	return nil
}

func (m *MockStorage) SaveAccount(ctx context.Context, account Account) error {
	return nil
}

func (m *MockStorage) GetAccounts(ctx context.Context, userID string) ([]Account, error) {
	return []Account{{ID: "acc-1", Name: "Landlord", TypeID: "at-1", CreatedBy: userID}}, nil
}

func (m *MockStorage) GetAccountByID(ctx context.Context, userID string, accountID string) (Account, error) {
	if accountID == "acc-1" {
		return Account{ID: "acc-1", Name: "Landlord", TypeID: "at-1", CreatedBy: userID}, nil
	}
	return Account{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "The account does not exist.",
	}
}

func (m *MockStorage) UpdateAccount(ctx context.Context, userID string, fields UpdateAccountRequest) error {
	return nil
}

func (m *MockStorage) DeleteAccountWithTransactions(ctx context.Context, userID string, accountID string) error {
	return nil
}

func (m *MockStorage) SaveAccountTypes(ctx context.Context, types []AccountType) error {
	return nil
}

func (m *MockStorage) GetAccountTypes(ctx context.Context, userID string) ([]AccountType, error) {
	return []AccountType{{ID: "at-1", Name: "Accounts Payable", Category: AccountCategoryLiability, CreatedBy: userID}}, nil
}

func (m *MockStorage) UpdateAccountType(ctx context.Context, userID string, fields UpdateTypeRequest) error {
	m.updatedAccountTypes = append(m.updatedAccountTypes, fields)
	return nil
}

func (m *MockStorage) DeleteAccountType(ctx context.Context, userID string, typeID string) error {
	return nil
}

func (m *MockStorage) SaveTransactionTypes(ctx context.Context, types []TransactionType) error {
	return nil
}

func (m *MockStorage) GetTransactionTypes(ctx context.Context, userID string, category string) ([]TransactionType, error) {
	return nil, nil
}

func (m *MockStorage) UpdateTransactionType(ctx context.Context, userID string, fields UpdateTypeRequest) error {
	return nil
}

func (m *MockStorage) DeleteTransactionType(ctx context.Context, userID string, typeID string) error {
	return nil
}

func (m *MockStorage) SaveTransaction(ctx context.Context, t Transaction) error {
	m.savedTransactions = append(m.savedTransactions, t)
	return nil
}

func (m *MockStorage) SaveTransactions(ctx context.Context, ts []Transaction) error {
	m.savedTransactionBatches = append(m.savedTransactionBatches, ts)
	return nil
}

func (m *MockStorage) GetTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	return m.accountTransactions, nil
}

func (m *MockStorage) GetAccountTransactions(ctx context.Context, userID string, accountID string) ([]Transaction, error) {
	return m.accountTransactions, nil
}

func (m *MockStorage) GetTransactionByID(ctx context.Context, userID string, transactionID string) (Transaction, error) {
	return Transaction{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "The transaction does not exist.",
	}
}

func (m *MockStorage) UpdateTransaction(ctx context.Context, userID string, fields UpdateTransactionRequest) error {
	m.updatedTransactions = append(m.updatedTransactions, fields)
	return nil
}

func (m *MockStorage) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	return nil
}

func (m *MockStorage) SaveCategories(ctx context.Context, categories []Category) error {
	m.savedCategoryBatches = append(m.savedCategoryBatches, categories)
	return nil
}

func (m *MockStorage) GetCategories(ctx context.Context, userID string) ([]Category, error) {
	return []Category{{ID: "cat-1", Name: "Food", Color: "#28a745", CreatedBy: userID}}, nil
}

func (m *MockStorage) UpdateCategory(ctx context.Context, userID string, fields UpdateCategoryRequest) error {
	return nil
}

func (m *MockStorage) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	return nil
}

func (m *MockStorage) GetUserSettings(ctx context.Context, userID string) (UserSettings, error) {
	if userID == "u-nosettings" {
		return UserSettings{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Settings not found.",
		}
	}
	return UserSettings{UserID: userID, Currency: "USD", CurrencySymbol: "$"}, nil
}

func (m *MockStorage) UpsertUserSettings(ctx context.Context, settings UserSettings) error {
	m.savedSettings = append(m.savedSettings, settings)
	return nil
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		input       auth.NewUser
		wantToken   bool
		expectedMsg string
	}{
		{
			name:        "Fail - Empty Email",
			input:       auth.NewUser{Email: "", PasswordPlain: "secure123"},
			expectedMsg: "Email cannot be empty!",
		},
		{
			name:        "Fail - Invalid Email Format",
			input:       auth.NewUser{Email: "notanemail", PasswordPlain: "secure123"},
			expectedMsg: "Invalid email format, example valid email: john.doe@gmail.com",
		},
		{
			name:        "Fail - Short Password",
			input:       auth.NewUser{Email: "john@example.com", PasswordPlain: "123"},
			expectedMsg: "Password must be at least 6 characters",
		},
		{
			name:      "Fail - Email Taken",
			input:     auth.NewUser{Email: "taken@example.com", PasswordPlain: "secure123"},
			wantToken: false,
		},
		{
			name:      "Success - Valid Registration",
			input:     auth.NewUser{Email: "john@example.com", DisplayName: "John", PasswordPlain: "secure123"},
			wantToken: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockStorage{}
			ls := NewLedger(mockStore)

			token, err := ls.RegisterUser(ctx, tt.input)

			if tt.expectedMsg != "" {
				appErr, ok := appErrors.AsErrorResponse(err)
				if !ok {
					t.Fatalf("expected ErrorResponse, got %v", err)
				}
				if appErr.Message != tt.expectedMsg {
					t.Errorf("Got message %q, want %q", appErr.Message, tt.expectedMsg)
				}
				return
			}

			if tt.name == "Fail - Email Taken" {
				if !appErrors.HasCode(err, appErrors.ErrConflict) {
					t.Fatalf("expected conflict error, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantToken && token == "" {
				t.Error("expected a session token")
			}

			if len(mockStore.savedUsers) != 1 {
				t.Fatalf("expected 1 saved user, got %d", len(mockStore.savedUsers))
			}
			if len(mockStore.savedCategoryBatches) != 1 {
				t.Fatalf("expected default categories seeded in one batch, got %d batches", len(mockStore.savedCategoryBatches))
			}
			if len(mockStore.savedCategoryBatches[0]) != 5 {
				t.Errorf("expected 5 default categories, got %d", len(mockStore.savedCategoryBatches[0]))
			}
		})
	}
}

func TestCheckSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid session returns the user", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		userId, err := ls.CheckSession(ctx, "tok-valid")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if userId != "john-1234" {
			t.Errorf("got user %q, want john-1234", userId)
		}
		if mockStore.updateSessionCalls != 0 {
			t.Error("fresh session should not be extended")
		}
	})

	t.Run("expired session rejected", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		if _, err := ls.CheckSession(ctx, "tok-expired"); !appErrors.HasCode(err, appErrors.ErrAuth) {
			t.Fatalf("expected auth error, got %v", err)
		}
	})

	t.Run("session close to expiry is extended", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		if _, err := ls.CheckSession(ctx, "tok-expiring"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mockStore.updateSessionCalls != 1 {
			t.Fatalf("expected session extension, got %d calls", mockStore.updateSessionCalls)
		}
		if mockStore.updatedSessionTokens[0] != "tok-expiring" {
			t.Errorf("extension should target the presented token, got %q", mockStore.updatedSessionTokens[0])
		}
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		if _, err := ls.CheckSession(ctx, "nope"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestSaveTransaction(t *testing.T) {
	ctx := context.Background()
	userId := "john-1234"

	tests := []struct {
		name    string
		input   TransactionRequest
		wantErr bool
	}{
		{
			name:    "Fail - Missing Account",
			input:   TransactionRequest{Type: TypePay, SubType: "rent", Amount: dec("100"), Date: "2024-01-01"},
			wantErr: true,
		},
		{
			name:    "Fail - Invalid Type",
			input:   TransactionRequest{AccountID: "acc-1", Type: "transfer", SubType: "rent", Amount: dec("100"), Date: "2024-01-01"},
			wantErr: true,
		},
		{
			name:    "Fail - Zero Amount",
			input:   TransactionRequest{AccountID: "acc-1", Type: TypePay, SubType: "rent", Amount: dec("0"), Date: "2024-01-01"},
			wantErr: true,
		},
		{
			name:    "Fail - Bad Date",
			input:   TransactionRequest{AccountID: "acc-1", Type: TypePay, SubType: "rent", Amount: dec("100"), Date: "01/01/2024"},
			wantErr: true,
		},
		{
			name:    "Fail - Unknown Account",
			input:   TransactionRequest{AccountID: "acc-404", Type: TypePay, SubType: "rent", Amount: dec("100"), Date: "2024-01-01"},
			wantErr: true,
		},
		{
			name: "Fail - EMI On Payment",
			input: TransactionRequest{
				AccountID: "acc-1", Type: TypePay, SubType: "credit", Date: "2024-01-01",
				EnableEMI: true, EMINumbers: 3, EMIAmount: dec("100"), EMIType: EMIUnitMonth,
			},
			wantErr: true,
		},
		{
			name: "Fail - EMI Invalid Unit",
			input: TransactionRequest{
				AccountID: "acc-1", Type: TypeReceive, SubType: "loan", Date: "2024-01-01",
				EnableEMI: true, EMINumbers: 3, EMIAmount: dec("100"), EMIType: "fortnight",
			},
			wantErr: true,
		},
		{
			name:  "Success - Plain Payment",
			input: TransactionRequest{AccountID: "acc-1", Type: TypePay, SubType: "Rent", Amount: dec("100"), Date: "2024-01-01"},
		},
		{
			name: "Success - EMI Origin",
			input: TransactionRequest{
				AccountID: "acc-1", Type: TypeReceive, SubType: "loan", Date: "2024-01-15",
				EnableEMI: true, EMINumbers: 12, EMIAmount: dec("250.50"), EMIType: EMIUnitMonth,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockStorage{}
			ls := NewLedger(mockStore)

			saved, err := ls.SaveTransaction(ctx, userId, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(mockStore.savedTransactions) != 0 {
					t.Error("nothing should be persisted on validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if saved.SubType != strings.ToLower(tt.input.SubType) {
				t.Errorf("sub type not normalized: %q", saved.SubType)
			}
			if tt.input.EnableEMI {
				wantTotal := tt.input.EMIAmount.Mul(decimal.NewFromInt(int64(tt.input.EMINumbers)))
				if !saved.Amount.Equal(wantTotal) {
					t.Errorf("EMI origin amount = %s, want schedule total %s", saved.Amount, wantTotal)
				}
			}
			if len(mockStore.savedTransactions) != 1 {
				t.Fatalf("expected 1 persisted transaction, got %d", len(mockStore.savedTransactions))
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	userId := "john-1234"

	tests := []struct {
		name    string
		input   UpdateTransactionRequest
		wantErr bool
	}{
		{
			name:    "Fail - Missing Account",
			input:   UpdateTransactionRequest{ID: "t1", NewAccountID: "", NewType: TypePay, NewSubType: "rent", NewAmount: dec("100"), NewDate: "2024-01-01"},
			wantErr: true,
		},
		{
			name:    "Fail - Account Of Another User",
			input:   UpdateTransactionRequest{ID: "t1", NewAccountID: "acc-victim", NewType: TypePay, NewSubType: "rent", NewAmount: dec("100"), NewDate: "2024-01-01"},
			wantErr: true,
		},
		{
			name:  "Success - Own Account",
			input: UpdateTransactionRequest{ID: "t1", NewAccountID: "acc-1", NewType: TypePay, NewSubType: "Rent", NewAmount: dec("100"), NewDate: "2024-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &MockStorage{}
			ls := NewLedger(mockStore)

			err := ls.UpdateTransaction(ctx, userId, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(mockStore.updatedTransactions) != 0 {
					t.Error("nothing should be persisted when the account check fails")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(mockStore.updatedTransactions) != 1 {
				t.Fatalf("expected 1 persisted update, got %d", len(mockStore.updatedTransactions))
			}
			if mockStore.updatedTransactions[0].NewSubType != "rent" {
				t.Errorf("sub type not normalized: %q", mockStore.updatedTransactions[0].NewSubType)
			}
		})
	}
}

func TestUpdateAccountType(t *testing.T) {
	ctx := context.Background()
	userId := "john-1234"

	t.Run("invalid category rejected", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		err := ls.UpdateAccountType(ctx, userId, UpdateTypeRequest{ID: "at-1", NewName: "Wallet", NewCategory: "equity"})
		if !appErrors.HasCode(err, appErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
		if len(mockStore.updatedAccountTypes) != 0 {
			t.Error("nothing should be persisted")
		}
	})

	t.Run("asset and empty categories accepted", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		if err := ls.UpdateAccountType(ctx, userId, UpdateTypeRequest{ID: "at-1", NewName: "Wallet", NewCategory: AccountCategoryAsset}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ls.UpdateAccountType(ctx, userId, UpdateTypeRequest{ID: "at-1", NewName: "Wallet", NewCategory: ""}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(mockStore.updatedAccountTypes) != 2 {
			t.Fatalf("expected 2 persisted updates, got %d", len(mockStore.updatedAccountTypes))
		}
	})
}

func TestUnpaidInstallments(t *testing.T) {
	ctx := context.Background()
	mockStore := &MockStorage{
		accountTransactions: []Transaction{
			{
				ID: "tx-origin", AccountID: "acc-1", Type: TypeReceive, Date: "2024-01-15",
				EnableEMI: true, EMINumbers: 3, EMIAmount: dec("100"), EMIType: EMIUnitMonth,
			},
			{ID: "pay-1", AccountID: "acc-1", Type: TypePay, Date: "2024-02-15", Amount: dec("100"), IsEMIPayment: true},
		},
	}
	ls := NewLedger(mockStore)

	unpaid, err := ls.UnpaidInstallments(ctx, "john-1234", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDates := []string{"2024-03-15", "2024-04-15"}
	if len(unpaid) != len(wantDates) {
		t.Fatalf("got %d unpaid, want %d", len(unpaid), len(wantDates))
	}
	for i, due := range unpaid {
		if due.Date != wantDates[i] {
			t.Errorf("unpaid %d: got %q, want %q", i, due.Date, wantDates[i])
		}
	}
}

func TestPayInstallments(t *testing.T) {
	ctx := context.Background()
	userId := "john-1234"

	t.Run("empty selection rejected", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		_, _, err := ls.PayInstallments(ctx, userId, PayInstallmentsRequest{AccountID: "acc-1", SubType: "repayment"})
		if !appErrors.HasCode(err, appErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})

	t.Run("bad installment date rejected before anything is written", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		_, _, err := ls.PayInstallments(ctx, userId, PayInstallmentsRequest{
			AccountID: "acc-1",
			SubType:   "repayment",
			Selected:  []InstallmentSelection{{Date: "15/02/2024", Amount: dec("100")}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if len(mockStore.savedTransactionBatches) != 0 {
			t.Error("nothing should be persisted")
		}
	})

	t.Run("selected installments land as one batch of payments", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		count, total, err := ls.PayInstallments(ctx, userId, PayInstallmentsRequest{
			AccountID: "acc-1",
			SubType:   "Repayment",
			Selected: []InstallmentSelection{
				{Date: "2024-02-15", Amount: dec("100")},
				{Date: "2024-03-15", Amount: dec("100")},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 2 {
			t.Errorf("got count %d, want 2", count)
		}
		if !total.Equal(dec("200")) {
			t.Errorf("got total %s, want 200", total)
		}

		if len(mockStore.savedTransactionBatches) != 1 {
			t.Fatalf("expected one batch, got %d", len(mockStore.savedTransactionBatches))
		}
		batch := mockStore.savedTransactionBatches[0]
		if len(batch) != 2 {
			t.Fatalf("expected 2 transactions in batch, got %d", len(batch))
		}
		for _, settlement := range batch {
			if settlement.Type != TypePay || !settlement.IsEMIPayment {
				t.Errorf("settlement %s should be a pay transaction flagged as EMI payment", settlement.ID)
			}
			if settlement.SubType != "repayment" {
				t.Errorf("sub type not normalized: %q", settlement.SubType)
			}
		}
	})
}

func TestGetSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("missing settings fall back to defaults", func(t *testing.T) {
		ls := NewLedger(&MockStorage{})

		settings, err := ls.GetSettings(ctx, "u-nosettings")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.Currency != DefaultCurrency {
			t.Errorf("got currency %q, want %q", settings.Currency, DefaultCurrency)
		}
		if settings.CurrencySymbol != Currencies[DefaultCurrency].Symbol {
			t.Errorf("got symbol %q", settings.CurrencySymbol)
		}
	})

	t.Run("stored settings returned as-is", func(t *testing.T) {
		ls := NewLedger(&MockStorage{})

		settings, err := ls.GetSettings(ctx, "john-1234")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.Currency != "USD" {
			t.Errorf("got currency %q, want USD", settings.Currency)
		}
	})
}

func TestSaveSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported currency rejected", func(t *testing.T) {
		ls := NewLedger(&MockStorage{})

		if _, err := ls.SaveSettings(ctx, "john-1234", "XYZ"); !appErrors.HasCode(err, appErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})

	t.Run("symbol derived from the currency table", func(t *testing.T) {
		mockStore := &MockStorage{}
		ls := NewLedger(mockStore)

		settings, err := ls.SaveSettings(ctx, "john-1234", "EUR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.CurrencySymbol != "€" {
			t.Errorf("got symbol %q, want €", settings.CurrencySymbol)
		}
		if len(mockStore.savedSettings) != 1 {
			t.Fatalf("expected settings upsert, got %d", len(mockStore.savedSettings))
		}
	})
}

func TestDeleteUserAccount(t *testing.T) {
	ctx := context.Background()
	userId := "john-1234"

	hashed, err := auth.HashPassword("secure123")
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	newStore := func() *MockStorage {
		return &MockStorage{
			userWithPassword: auth.User{ID: userId, Email: "john@example.com", PasswordHashed: hashed},
		}
	}

	t.Run("wrong confirmation word rejected", func(t *testing.T) {
		mockStore := newStore()
		ls := NewLedger(mockStore)

		err := ls.DeleteUserAccount(ctx, userId, auth.DeleteUser{Confirmation: "delete", Password: "secure123"})
		if !appErrors.HasCode(err, appErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
		if mockStore.deleteUserDataCalls != 0 {
			t.Error("nothing should be deleted")
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		mockStore := newStore()
		ls := NewLedger(mockStore)

		err := ls.DeleteUserAccount(ctx, userId, auth.DeleteUser{Confirmation: auth.DeleteConfirmationWord, Password: "wrong"})
		if !appErrors.HasCode(err, appErrors.ErrAccessDenied) {
			t.Fatalf("expected access denied error, got %v", err)
		}
		if mockStore.deleteUserDataCalls != 0 {
			t.Error("nothing should be deleted")
		}
	})

	t.Run("both gates pass", func(t *testing.T) {
		mockStore := newStore()
		ls := NewLedger(mockStore)

		err := ls.DeleteUserAccount(ctx, userId, auth.DeleteUser{Confirmation: auth.DeleteConfirmationWord, Password: "secure123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mockStore.deleteUserDataCalls != 1 {
			t.Errorf("expected one delete call, got %d", mockStore.deleteUserDataCalls)
		}
	})
}
