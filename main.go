package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/0xcafe-io/iz"
	"github.com/polosys/accounts-keeper/api"
	"github.com/polosys/accounts-keeper/internal/ledger"
	"github.com/polosys/accounts-keeper/internal/storage"
	"github.com/polosys/accounts-keeper/logging"
	"github.com/rs/cors"
)

var ls ledger.Ledger // Global

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type"},
	AllowCredentials: true,
})

func newStorage() (ledger.Storage, error) {
	if strings.ToLower(os.Getenv("STORAGE_TYPE")) == "inmemory" {
		return storage.NewInMemoryStorage(), nil
	}

	db, err := storage.Init()
	if err != nil {
		return nil, err
	}
	return storage.NewMySQLStorage(db), nil
}

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return
	}

	logging.Logger.Info("application starting...")

	storageInstance, err := newStorage()
	if err != nil {
		logging.Logger.Errorf("failed to initialize storage: %v", err)
		return
	}

	ls = ledger.NewLedger(storageInstance)
	logging.Logger.Infof("storage type: %s", ls.StorageType)

	server := http.NewServeMux()
	api := api.NewApi(&ls)

	// USER ENDPOINTS.
	server.HandleFunc("POST /api/register", iz.Bind(api.SaveUserHandler))         // Create User
	server.HandleFunc("POST /api/login", iz.Bind(api.LoginUserHandler))           // Login User
	server.HandleFunc("GET /api/logout", iz.Bind(api.LogoutUserHandler))          // Logout User
	server.HandleFunc("POST /api/remove-account", iz.Bind(api.DeleteUserHandler)) // Remove User
	server.HandleFunc("GET /api/download-user-data", api.DownloadUserData)        // Download User Data
	server.HandleFunc("GET /api/check-token", iz.Bind(api.CheckTokenHandler))     // Check User Token
	server.HandleFunc("GET /api/account", iz.Bind(api.GetAccountInfoHandler))     // Account Info
	server.HandleFunc("PUT /api/account", iz.Bind(api.UpdateProfileHandler))      // Update Profile

	// ACCOUNT ENDPOINTS.
	server.HandleFunc("POST /api/accounts", iz.Bind(api.SaveAccountHandler))             // Create Account
	server.HandleFunc("GET /api/accounts", iz.Bind(api.GetAccountsHandler))              // Get Accounts with balances
	server.HandleFunc("GET /api/accounts/{id}", iz.Bind(api.GetAccountDetailsHandler))   // Get Account with stats
	server.HandleFunc("PUT /api/accounts/{id}", iz.Bind(api.UpdateAccountHandler))       // Update Account
	server.HandleFunc("DELETE /api/accounts/{id}", iz.Bind(api.DeleteAccountHandler))    // Delete Account with its transactions
	server.HandleFunc("GET /api/accounts/{id}/installments", iz.Bind(api.GetUnpaidInstallmentsHandler)) // Unpaid installments of account

	// ACCOUNT TYPE ENDPOINTS.
	server.HandleFunc("GET /api/account-types", iz.Bind(api.GetAccountTypesHandler))           // Get Account Types (seeds defaults)
	server.HandleFunc("POST /api/account-types", iz.Bind(api.SaveAccountTypeHandler))          // Create Account Type
	server.HandleFunc("PUT /api/account-types/{id}", iz.Bind(api.UpdateAccountTypeHandler))    // Update Account Type
	server.HandleFunc("DELETE /api/account-types/{id}", iz.Bind(api.DeleteAccountTypeHandler)) // Delete Account Type

	// TRANSACTION TYPE ENDPOINTS.
	server.HandleFunc("GET /api/transaction-types", iz.Bind(api.GetTransactionTypesHandler))           // Get Transaction Types (seeds defaults per category)
	server.HandleFunc("POST /api/transaction-types", iz.Bind(api.SaveTransactionTypeHandler))          // Create Transaction Type
	server.HandleFunc("PUT /api/transaction-types/{id}", iz.Bind(api.UpdateTransactionTypeHandler))    // Update Transaction Type
	server.HandleFunc("DELETE /api/transaction-types/{id}", iz.Bind(api.DeleteTransactionTypeHandler)) // Delete Transaction Type

	// TRANSACTION ENDPOINTS.
	server.HandleFunc("POST /api/transactions", iz.Bind(api.SaveTransactionHandler))           // Create Transaction (plain or EMI origin)
	server.HandleFunc("GET /api/transactions", iz.Bind(api.GetFilteredTransactionsHandler))    // Get Transactions with filters
	server.HandleFunc("GET /api/transactions/{id}", iz.Bind(api.GetTransactionByIdHandler))    // Get Transaction by ID
	server.HandleFunc("PUT /api/transactions/{id}", iz.Bind(api.UpdateTransactionHandler))     // Update Transaction
	server.HandleFunc("DELETE /api/transactions/{id}", iz.Bind(api.DeleteTransactionHandler))  // Delete Transaction
	server.HandleFunc("POST /api/installments/pay", iz.Bind(api.PayInstallmentsHandler))       // Pay selected installments

	// CATEGORY ENDPOINTS.
	server.HandleFunc("GET /api/categories", iz.Bind(api.GetCategoriesHandler))           // Get Categories
	server.HandleFunc("POST /api/categories", iz.Bind(api.SaveCategoryHandler))           // Create Category
	server.HandleFunc("PUT /api/categories/{id}", iz.Bind(api.UpdateCategoryHandler))     // Update Category
	server.HandleFunc("DELETE /api/categories/{id}", iz.Bind(api.DeleteCategoryHandler))  // Delete Category

	// SETTINGS ENDPOINTS.
	server.HandleFunc("GET /api/settings", iz.Bind(api.GetSettingsHandler))              // Get Settings
	server.HandleFunc("PUT /api/settings", iz.Bind(api.SaveSettingsHandler))             // Save Settings
	server.HandleFunc("GET /api/settings/currencies", iz.Bind(api.GetCurrenciesHandler)) // Supported Currencies

	port := os.Getenv("APP_PORT")
	if port == "" {
		logging.Logger.Info("APP_PORT environment variable not set, using default port 8080")
		port = "8080"
	}
	fmt.Println("Starting server on port: ", port)
	handlerWithCors := corsConf.Handler(server)
	err = http.ListenAndServe(":"+port, handlerWithCors) // Start the server
	if err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
