package storage

import (
	"context"
	"testing"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/polosys/accounts-keeper/internal/auth"
	"github.com/polosys/accounts-keeper/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, store *InMemoryStorage, id, email, password string) {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)

	require.NoError(t, store.SaveUser(context.Background(), auth.User{
		ID:             id,
		Email:          email,
		PasswordHashed: hashed,
		CreatedAt:      time.Now().UTC(),
	}))
}

func TestInMemorySaveUserRejectsDuplicateEmail(t *testing.T) {
	store := NewInMemoryStorage()
	seedUser(t, store, "u1", "john@example.com", "secure123")

	err := store.SaveUser(context.Background(), auth.User{ID: "u2", Email: "john@example.com"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestInMemoryValidateUser(t *testing.T) {
	store := NewInMemoryStorage()
	seedUser(t, store, "u1", "john@example.com", "secure123")
	ctx := context.Background()

	user, err := store.ValidateUser(ctx, auth.UserCredentialsPure{Email: "john@example.com", PasswordPlain: "secure123"})
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)

	_, err = store.ValidateUser(ctx, auth.UserCredentialsPure{Email: "john@example.com", PasswordPlain: "wrong"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrAuth))

	_, err = store.ValidateUser(ctx, auth.UserCredentialsPure{Email: "nobody@example.com", PasswordPlain: "secure123"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrAuth))
}

func TestInMemoryLogoutRemovesOnlyThatSession(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, auth.Session{ID: "s1", Token: "tok-a", UserID: "u1"}))
	require.NoError(t, store.SaveSession(ctx, auth.Session{ID: "s2", Token: "tok-b", UserID: "u1"}))

	require.NoError(t, store.LogoutUser(ctx, "u1", "tok-a"))

	_, err := store.GetSessionByToken(ctx, "tok-a")
	require.Error(t, err)

	session, err := store.GetSessionByToken(ctx, "tok-b")
	require.NoError(t, err)
	require.Equal(t, "u1", session.UserID)
}

func TestInMemoryUpdateSessionRenewsOnlyThatToken(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	expireA := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	expireB := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(ctx, auth.Session{ID: "s1", Token: "tok-a", UserID: "u1", ExpireAt: expireA}))
	require.NoError(t, store.SaveSession(ctx, auth.Session{ID: "s2", Token: "tok-b", UserID: "u1", ExpireAt: expireB}))

	renewed := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateSession(ctx, "u1", "tok-a", renewed))

	sessionA, err := store.GetSessionByToken(ctx, "tok-a")
	require.NoError(t, err)
	require.True(t, sessionA.ExpireAt.Equal(renewed))

	sessionB, err := store.GetSessionByToken(ctx, "tok-b")
	require.NoError(t, err)
	require.True(t, sessionB.ExpireAt.Equal(expireB))

	err = store.UpdateSession(ctx, "u1", "tok-missing", renewed)
	require.True(t, appErrors.HasCode(err, appErrors.ErrAuth))
}

func TestInMemoryOwnershipIsolation(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, ledger.Account{ID: "acc-1", Name: "Landlord", CreatedBy: "u1"}))
	require.NoError(t, store.SaveAccount(ctx, ledger.Account{ID: "acc-2", Name: "Grocery", CreatedBy: "u2"}))

	accounts, err := store.GetAccounts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "acc-1", accounts[0].ID)

	// another user cannot reach, update or delete someone else's account
	_, err = store.GetAccountByID(ctx, "u2", "acc-1")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	err = store.UpdateAccount(ctx, "u2", ledger.UpdateAccountRequest{ID: "acc-1", NewName: "Hijacked"})
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	err = store.DeleteAccountWithTransactions(ctx, "u2", "acc-1")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	account, err := store.GetAccountByID(ctx, "u1", "acc-1")
	require.NoError(t, err)
	require.Equal(t, "Landlord", account.Name)
}

func TestInMemoryDeleteAccountCascades(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, ledger.Account{ID: "acc-1", CreatedBy: "u1"}))
	require.NoError(t, store.SaveAccount(ctx, ledger.Account{ID: "acc-2", CreatedBy: "u1"}))
	require.NoError(t, store.SaveTransactions(ctx, []ledger.Transaction{
		{ID: "t1", AccountID: "acc-1", Type: ledger.TypePay, Amount: decimal.NewFromInt(100), CreatedBy: "u1"},
		{ID: "t2", AccountID: "acc-1", Type: ledger.TypeReceive, Amount: decimal.NewFromInt(50), CreatedBy: "u1"},
		{ID: "t3", AccountID: "acc-2", Type: ledger.TypePay, Amount: decimal.NewFromInt(25), CreatedBy: "u1"},
	}))

	require.NoError(t, store.DeleteAccountWithTransactions(ctx, "u1", "acc-1"))

	transactions, err := store.GetTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, "t3", transactions[0].ID)

	_, err = store.GetAccountByID(ctx, "u1", "acc-1")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	// the untouched account survives
	_, err = store.GetAccountByID(ctx, "u1", "acc-2")
	require.NoError(t, err)
}

func TestInMemoryDeleteUserDataLeavesOtherUsersAlone(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	seedUser(t, store, "u1", "john@example.com", "secure123")
	seedUser(t, store, "u2", "jane@example.com", "secure123")

	require.NoError(t, store.SaveSession(ctx, auth.Session{ID: "s1", Token: "tok-u1", UserID: "u1"}))
	require.NoError(t, store.SaveSession(ctx, auth.Session{ID: "s2", Token: "tok-u2", UserID: "u2"}))
	require.NoError(t, store.SaveAccount(ctx, ledger.Account{ID: "acc-1", CreatedBy: "u1"}))
	require.NoError(t, store.SaveAccount(ctx, ledger.Account{ID: "acc-2", CreatedBy: "u2"}))
	require.NoError(t, store.SaveTransaction(ctx, ledger.Transaction{ID: "t1", AccountID: "acc-1", CreatedBy: "u1"}))
	require.NoError(t, store.SaveTransaction(ctx, ledger.Transaction{ID: "t2", AccountID: "acc-2", CreatedBy: "u2"}))
	require.NoError(t, store.SaveCategories(ctx, []ledger.Category{
		{ID: "cat-1", Name: "Food", CreatedBy: "u1"},
		{ID: "cat-2", Name: "Food", CreatedBy: "u2"},
	}))
	require.NoError(t, store.UpsertUserSettings(ctx, ledger.UserSettings{UserID: "u1", Currency: "INR", CurrencySymbol: "₹"}))
	require.NoError(t, store.UpsertUserSettings(ctx, ledger.UserSettings{UserID: "u2", Currency: "USD", CurrencySymbol: "$"}))

	require.NoError(t, store.DeleteUserData(ctx, "u1"))

	_, err := store.GetUserByID(ctx, "u1")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
	_, err = store.GetSessionByToken(ctx, "tok-u1")
	require.Error(t, err)
	accounts, err := store.GetAccounts(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, accounts)
	transactions, err := store.GetTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, transactions)
	categories, err := store.GetCategories(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, categories)
	_, err = store.GetUserSettings(ctx, "u1")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	// the second user keeps everything
	_, err = store.GetUserByID(ctx, "u2")
	require.NoError(t, err)
	accounts, err = store.GetAccounts(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	transactions, err = store.GetTransactions(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	settings, err := store.GetUserSettings(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, "USD", settings.Currency)
}

func TestInMemoryTransactionTypeCategoryFilter(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveTransactionTypes(ctx, []ledger.TransactionType{
		{ID: "tt-1", Name: "Savings", Category: ledger.CategoryReceipt, CreatedBy: "u1"},
		{ID: "tt-2", Name: "Loan", Category: ledger.CategoryReceipt, CreatedBy: "u1"},
		{ID: "tt-3", Name: "Credit", Category: ledger.CategoryPayment, CreatedBy: "u1"},
		{ID: "tt-4", Name: "Savings", Category: ledger.CategoryReceipt, CreatedBy: "u2"},
	}))

	receipts, err := store.GetTransactionTypes(ctx, "u1", ledger.CategoryReceipt)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	for _, transactionType := range receipts {
		require.Equal(t, ledger.CategoryReceipt, transactionType.Category)
	}

	all, err := store.GetTransactionTypes(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestInMemoryUpdateTransaction(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveTransaction(ctx, ledger.Transaction{
		ID: "t1", AccountID: "acc-1", Type: ledger.TypePay, SubType: "rent",
		Amount: decimal.NewFromInt(100), Date: "2024-01-10", CreatedBy: "u1",
	}))

	updateTime := time.Now().UTC()
	err := store.UpdateTransaction(ctx, "u1", ledger.UpdateTransactionRequest{
		ID: "t1", NewAccountID: "acc-1", NewType: ledger.TypeReceive, NewSubType: "loan",
		NewAmount: decimal.NewFromInt(300), NewDate: "2024-02-01", UpdateTime: updateTime,
	})
	require.NoError(t, err)

	updated, err := store.GetTransactionByID(ctx, "u1", "t1")
	require.NoError(t, err)
	require.Equal(t, ledger.TypeReceive, updated.Type)
	require.Equal(t, "loan", updated.SubType)
	require.True(t, updated.Amount.Equal(decimal.NewFromInt(300)))
	require.Equal(t, "2024-02-01", updated.Date)
}

func TestInMemoryUpsertUserSettings(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	_, err := store.GetUserSettings(ctx, "u1")
	require.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	require.NoError(t, store.UpsertUserSettings(ctx, ledger.UserSettings{UserID: "u1", Currency: "INR", CurrencySymbol: "₹"}))
	require.NoError(t, store.UpsertUserSettings(ctx, ledger.UserSettings{UserID: "u1", Currency: "EUR", CurrencySymbol: "€"}))

	settings, err := store.GetUserSettings(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "EUR", settings.Currency)
	require.Equal(t, "€", settings.CurrencySymbol)
}
