package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
	"github.com/polosys/accounts-keeper/internal/auth"
	"github.com/polosys/accounts-keeper/internal/contextutil"
	"github.com/polosys/accounts-keeper/internal/ledger"
	"github.com/polosys/accounts-keeper/logging"

	"github.com/go-sql-driver/mysql"
)

// --- INIT START --- //

func Init() (*sql.DB, error) {
	var db *sql.DB
	var err error
	var dbname string

	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname = os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "accounts_keeper"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	logging.Logger.Info("Connecting to database...")
	db, err = sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %v", err)
	}

	if _, err := db.Exec("SET GLOBAL time_zone = '+00:00'"); err != nil {
		logging.Logger.Warn("failed to set database timezone(UTC+0)")
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrationFiles, err := getMigrationFiles("db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migration files: %v", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(db)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %v", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)

	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join("db/migrations/", migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %v", migrationFile, err)
		}

		err = applyMigration(db, migrationFile, string(migrationContent))
		if err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %v", migrationFile, err)
		}
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(db *sql.DB) (string, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`)

	if err != nil {
		return "", err
	}

	var lastMigration string
	err = db.QueryRow("SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1").Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

func applyMigration(db *sql.DB, name, sqlContent string) error {
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	statements := strings.Split(sqlContent, ";")

	for _, statement := range statements {
		trimmedStmt := strings.TrimSpace(statement)
		if trimmedStmt == "" {
			continue
		}

		if _, err := txn.Exec(trimmedStmt); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, trimmedStmt)
		}
	}

	if _, err := txn.Exec("INSERT INTO migration (migration_name) VALUES (?)", name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (mySql *MySQLStorage) GetStorageType() string {
	return "MYSQL"
}

func isDuplicateEntry(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}

// --- USERS & SESSIONS --- //

func (mySql *MySQLStorage) SaveUser(ctx context.Context, user auth.User) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO user (id, email, display_name, hashed_password, created_at) VALUES (?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, user.ID, user.Email, user.DisplayName, user.PasswordHashed, user.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "This email address already registered, try to sign in.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save user in Storage.SaveUser() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Registration failed, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, email, display_name, hashed_password, created_at FROM user WHERE email = ?;"

	var user auth.User
	err := mySql.db.QueryRowContext(ctx, query, credentials.Email).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHashed,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Email or Password is incorrect.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user in Storage.ValidateUser() function | Error: %v", traceID, err)
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to sign in, try again later.",
		}
	}

	if !auth.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Email or Password is incorrect.",
		}
	}

	return user, nil
}

func (mySql *MySQLStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT 1 FROM user WHERE email = ?;"

	var one int
	err := mySql.db.QueryRowContext(ctx, query, email).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to check email existence in Storage.IsEmailTaken() function | Error: %v", traceID, err)
		return false, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Registration failed, try again later.",
		}
	}
	return true, nil
}

func (mySql *MySQLStorage) GetUserByID(ctx context.Context, userID string) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, email, display_name, hashed_password, created_at FROM user WHERE id = ?;"

	var user auth.User
	err := mySql.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHashed,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "User does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user in Storage.GetUserByID() function | Error: %v", traceID, err)
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get account info, try again later.",
		}
	}
	return user, nil
}

func (mySql *MySQLStorage) UpdateDisplayName(ctx context.Context, userID string, displayName string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE user SET display_name = ? WHERE id = ?;"
	res, err := mySql.db.ExecContext(ctx, query, displayName, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update display name in Storage.UpdateDisplayName() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update profile, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateDisplayName() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update profile, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "User does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) SaveSession(ctx context.Context, session auth.Session) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO session (id, token, created_at, expire_at, user_id) VALUES (?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, session.ID, session.Token, session.CreatedAt, session.ExpireAt, session.UserID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save session in Storage.SaveSession() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to sign in, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, token, created_at, expire_at, user_id FROM session WHERE token = ?;"

	var dbS dbSession
	err := mySql.db.QueryRowContext(ctx, query, token).Scan(
		&dbS.ID,
		&dbS.Token,
		&dbS.CreatedAt,
		&dbS.ExpireAt,
		&dbS.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Session{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Session does not exist, please login.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get session in Storage.GetSessionByToken() function | Error: %v", traceID, err)
		return auth.Session{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to check session, please try again later.",
		}
	}

	return auth.Session{
		ID:        dbS.ID,
		Token:     dbS.Token,
		CreatedAt: dbS.CreatedAt,
		ExpireAt:  dbS.ExpireAt,
		UserID:    dbS.UserID,
	}, nil
}

func (mySql *MySQLStorage) UpdateSession(ctx context.Context, userID string, token string, expireAt time.Time) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE session SET expire_at = ? WHERE user_id = ? AND token = ?;"
	res, err := mySql.db.ExecContext(ctx, query, expireAt, userID, token)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update session in Storage.UpdateSession() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to check session, please try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateSession() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to check session, please try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Session does not exist, please login.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) LogoutUser(ctx context.Context, userID string, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM session WHERE user_id = ? AND token = ?;"
	_, err := mySql.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete session in Storage.LogoutUser() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to logout, try again later.",
		}
	}
	return nil
}

// DeleteUserData removes the user row and everything keyed to it in one SQL
// transaction.
func (mySql *MySQLStorage) DeleteUserData(ctx context.Context, userID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	internalErr := appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to delete account, try later.",
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.DeleteUserData() function | Error: %v", traceID, err)
		return internalErr
	}

	deletes := []string{
		"DELETE FROM session WHERE user_id = ?;",
		"DELETE FROM transaction WHERE created_by = ?;",
		"DELETE FROM account WHERE created_by = ?;",
		"DELETE FROM account_type WHERE created_by = ?;",
		"DELETE FROM transaction_type WHERE created_by = ?;",
		"DELETE FROM category WHERE created_by = ?;",
		"DELETE FROM user_settings WHERE user_id = ?;",
		"DELETE FROM user WHERE id = ?;",
	}

	for _, query := range deletes {
		if _, err := txn.ExecContext(ctx, query, userID); err != nil {
			txn.Rollback()
			logging.Logger.Errorf("[TraceID=%s] | failed to delete user data in Storage.DeleteUserData() function | Query: %s | Error: %v", traceID, query, err)
			return internalErr
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.DeleteUserData() function | Error: %v", traceID, err)
		return internalErr
	}
	return nil
}

// --- ACCOUNTS --- //

func (mySql *MySQLStorage) SaveAccount(ctx context.Context, account ledger.Account) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO account (id, name, type_id, description, created_at, updated_at, created_by) VALUES (?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, account.ID, account.Name, account.TypeID, account.Description, account.CreatedAt, account.UpdatedAt, account.CreatedBy)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The account already exists.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save account in Storage.SaveAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save the account, try again later.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) GetAccounts(ctx context.Context, userID string) ([]ledger.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, type_id, description, created_at, updated_at, created_by FROM account WHERE created_by = ? ORDER BY created_at;"

	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get accounts in Storage.GetAccounts() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get accounts, try again later.",
		}
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		var account ledger.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.TypeID, &account.Description, &account.CreatedAt, &account.UpdatedAt, &account.CreatedBy); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan account row in Storage.GetAccounts() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get accounts, try again later.",
			}
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate account rows in Storage.GetAccounts() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get accounts, try again later.",
		}
	}
	return accounts, nil
}

func (mySql *MySQLStorage) GetAccountByID(ctx context.Context, userID string, accountID string) (ledger.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, type_id, description, created_at, updated_at, created_by FROM account WHERE id = ? AND created_by = ?;"

	var account ledger.Account
	err := mySql.db.QueryRowContext(ctx, query, accountID, userID).Scan(
		&account.ID,
		&account.Name,
		&account.TypeID,
		&account.Description,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "The account does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get account in Storage.GetAccountByID() function | Error: %v", traceID, err)
		return ledger.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get the account, try again later.",
		}
	}
	return account, nil
}

func (mySql *MySQLStorage) UpdateAccount(ctx context.Context, userID string, fields ledger.UpdateAccountRequest) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE account SET name = ?, type_id = ?, description = ?, updated_at = ? WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, fields.NewName, fields.NewTypeID, fields.NewDescription, fields.UpdateTime, fields.ID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update account in Storage.UpdateAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the account, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateAccount() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the account, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The account does not exist.",
		}
	}
	return nil
}

// DeleteAccountWithTransactions removes the account and its transactions in
// one SQL transaction; a missing account rolls back untouched.
func (mySql *MySQLStorage) DeleteAccountWithTransactions(ctx context.Context, userID string, accountID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	internalErr := appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to delete the account, try again later.",
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.DeleteAccountWithTransactions() function | Error: %v", traceID, err)
		return internalErr
	}

	transactionsDelQuery := "DELETE FROM transaction WHERE account_id = ? AND created_by = ?;"
	if _, err := txn.ExecContext(ctx, transactionsDelQuery, accountID, userID); err != nil {
		txn.Rollback()
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account transactions in Storage.DeleteAccountWithTransactions() function | Error: %v", traceID, err)
		return internalErr
	}

	accountDelQuery := "DELETE FROM account WHERE id = ? AND created_by = ?;"
	res, err := txn.ExecContext(ctx, accountDelQuery, accountID, userID)
	if err != nil {
		txn.Rollback()
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account in Storage.DeleteAccountWithTransactions() function | Error: %v", traceID, err)
		return internalErr
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		txn.Rollback()
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteAccountWithTransactions() function | Error: %v", traceID, err)
		return internalErr
	}
	if rowsAffected == 0 {
		txn.Rollback()
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The account does not exist.",
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.DeleteAccountWithTransactions() function | Error: %v", traceID, err)
		return internalErr
	}
	return nil
}

// --- ACCOUNT TYPES --- //

func (mySql *MySQLStorage) SaveAccountTypes(ctx context.Context, types []ledger.AccountType) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	internalErr := appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to save the account type, try again later.",
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.SaveAccountTypes() function | Error: %v", traceID, err)
		return internalErr
	}

	query := "INSERT INTO account_type (id, name, category, created_at, created_by) VALUES (?, ?, ?, ?, ?);"
	for _, accountType := range types {
		if _, err := txn.ExecContext(ctx, query, accountType.ID, accountType.Name, accountType.Category, accountType.CreatedAt, accountType.CreatedBy); err != nil {
			txn.Rollback()
			if isDuplicateEntry(err) {
				return appErrors.ErrorResponse{
					Code:    appErrors.ErrConflict,
					Message: "The account type already exists.",
				}
			}
			logging.Logger.Errorf("[TraceID=%s] | failed to save account type in Storage.SaveAccountTypes() function | Error: %v", traceID, err)
			return internalErr
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.SaveAccountTypes() function | Error: %v", traceID, err)
		return internalErr
	}
	return nil
}

func (mySql *MySQLStorage) GetAccountTypes(ctx context.Context, userID string) ([]ledger.AccountType, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, category, created_at, created_by FROM account_type WHERE created_by = ? ORDER BY created_at;"

	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get account types in Storage.GetAccountTypes() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get account types, try again later.",
		}
	}
	defer rows.Close()

	var types []ledger.AccountType
	for rows.Next() {
		var accountType ledger.AccountType
		if err := rows.Scan(&accountType.ID, &accountType.Name, &accountType.Category, &accountType.CreatedAt, &accountType.CreatedBy); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan account type row in Storage.GetAccountTypes() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get account types, try again later.",
			}
		}
		types = append(types, accountType)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate account type rows in Storage.GetAccountTypes() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get account types, try again later.",
		}
	}
	return types, nil
}

func (mySql *MySQLStorage) UpdateAccountType(ctx context.Context, userID string, fields ledger.UpdateTypeRequest) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE account_type SET name = ?, category = ? WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, fields.NewName, fields.NewCategory, fields.ID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update account type in Storage.UpdateAccountType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the account type, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateAccountType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the account type, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The account type does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteAccountType(ctx context.Context, userID string, typeID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM account_type WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, typeID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete account type in Storage.DeleteAccountType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the account type, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteAccountType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the account type, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The account type does not exist.",
		}
	}
	return nil
}

// --- TRANSACTION TYPES --- //

func (mySql *MySQLStorage) SaveTransactionTypes(ctx context.Context, types []ledger.TransactionType) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	internalErr := appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to save the transaction type, try again later.",
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.SaveTransactionTypes() function | Error: %v", traceID, err)
		return internalErr
	}

	query := "INSERT INTO transaction_type (id, name, category, created_at, created_by) VALUES (?, ?, ?, ?, ?);"
	for _, transactionType := range types {
		if _, err := txn.ExecContext(ctx, query, transactionType.ID, transactionType.Name, transactionType.Category, transactionType.CreatedAt, transactionType.CreatedBy); err != nil {
			txn.Rollback()
			if isDuplicateEntry(err) {
				return appErrors.ErrorResponse{
					Code:    appErrors.ErrConflict,
					Message: "The transaction type already exists.",
				}
			}
			logging.Logger.Errorf("[TraceID=%s] | failed to save transaction type in Storage.SaveTransactionTypes() function | Error: %v", traceID, err)
			return internalErr
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.SaveTransactionTypes() function | Error: %v", traceID, err)
		return internalErr
	}
	return nil
}

func (mySql *MySQLStorage) GetTransactionTypes(ctx context.Context, userID string, category string) ([]ledger.TransactionType, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, category, created_at, created_by FROM transaction_type WHERE created_by = ?"
	args := []interface{}{userID}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at;"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get transaction types in Storage.GetTransactionTypes() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get transaction types, try again later.",
		}
	}
	defer rows.Close()

	var types []ledger.TransactionType
	for rows.Next() {
		var transactionType ledger.TransactionType
		if err := rows.Scan(&transactionType.ID, &transactionType.Name, &transactionType.Category, &transactionType.CreatedAt, &transactionType.CreatedBy); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan transaction type row in Storage.GetTransactionTypes() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get transaction types, try again later.",
			}
		}
		types = append(types, transactionType)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate transaction type rows in Storage.GetTransactionTypes() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get transaction types, try again later.",
		}
	}
	return types, nil
}

func (mySql *MySQLStorage) UpdateTransactionType(ctx context.Context, userID string, fields ledger.UpdateTypeRequest) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE transaction_type SET name = ?, category = ? WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, fields.NewName, fields.NewCategory, fields.ID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update transaction type in Storage.UpdateTransactionType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the transaction type, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateTransactionType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the transaction type, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The transaction type does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteTransactionType(ctx context.Context, userID string, typeID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM transaction_type WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, typeID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete transaction type in Storage.DeleteTransactionType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the transaction type, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteTransactionType() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the transaction type, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The transaction type does not exist.",
		}
	}
	return nil
}

// --- TRANSACTIONS --- //

const transactionColumns = "id, account_id, type, sub_type, amount, description, date, enable_emi, emi_numbers, emi_amount, emi_type, is_emi_payment, created_at, updated_at, created_by"

func (mySql *MySQLStorage) SaveTransaction(ctx context.Context, t ledger.Transaction) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO transaction (" + transactionColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, t.ID, t.AccountID, t.Type, t.SubType, t.Amount, t.Description, t.Date, t.EnableEMI, t.EMINumbers, t.EMIAmount, t.EMIType, t.IsEMIPayment, t.CreatedAt, t.UpdatedAt, t.CreatedBy)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save transaction in Storage.SaveTransaction() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save transaction, try again later.",
		}
	}
	return nil
}

// SaveTransactions inserts all rows in one SQL transaction; they either all
// land or none do.
func (mySql *MySQLStorage) SaveTransactions(ctx context.Context, ts []ledger.Transaction) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	internalErr := appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to save transactions, try again later.",
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.SaveTransactions() function | Error: %v", traceID, err)
		return internalErr
	}

	query := "INSERT INTO transaction (" + transactionColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);"
	for _, t := range ts {
		if _, err := txn.ExecContext(ctx, query, t.ID, t.AccountID, t.Type, t.SubType, t.Amount, t.Description, t.Date, t.EnableEMI, t.EMINumbers, t.EMIAmount, t.EMIType, t.IsEMIPayment, t.CreatedAt, t.UpdatedAt, t.CreatedBy); err != nil {
			txn.Rollback()
			logging.Logger.Errorf("[TraceID=%s] | failed to save transaction in Storage.SaveTransactions() function | Error: %v", traceID, err)
			return internalErr
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.SaveTransactions() function | Error: %v", traceID, err)
		return internalErr
	}
	return nil
}

func (mySql *MySQLStorage) processTransactionRows(traceID string, rows *sql.Rows) ([]ledger.Transaction, error) {
	var transactions []ledger.Transaction
	for rows.Next() {
		var dbT dbTransaction
		err := rows.Scan(
			&dbT.ID,
			&dbT.AccountID,
			&dbT.Type,
			&dbT.SubType,
			&dbT.Amount,
			&dbT.Description,
			&dbT.Date,
			&dbT.EnableEMI,
			&dbT.EMINumbers,
			&dbT.EMIAmount,
			&dbT.EMIType,
			&dbT.IsEMIPayment,
			&dbT.CreatedAt,
			&dbT.UpdatedAt,
			&dbT.CreatedBy,
		)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan transaction row in Storage.processTransactionRows() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get transactions, try again later.",
			}
		}
		transactions = append(transactions, ledger.Transaction(dbT))
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate transaction rows in Storage.processTransactionRows() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get transactions, try again later.",
		}
	}
	return transactions, nil
}

func (mySql *MySQLStorage) GetTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + transactionColumns + " FROM transaction WHERE created_by = ? ORDER BY date DESC, created_at DESC;"

	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get transactions in Storage.GetTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get transactions, try again later.",
		}
	}
	defer rows.Close()

	return mySql.processTransactionRows(traceID, rows)
}

func (mySql *MySQLStorage) GetAccountTransactions(ctx context.Context, userID string, accountID string) ([]ledger.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + transactionColumns + " FROM transaction WHERE created_by = ? AND account_id = ? ORDER BY date DESC, created_at DESC;"

	rows, err := mySql.db.QueryContext(ctx, query, userID, accountID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get account transactions in Storage.GetAccountTransactions() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get transactions, try again later.",
		}
	}
	defer rows.Close()

	return mySql.processTransactionRows(traceID, rows)
}

func (mySql *MySQLStorage) GetTransactionByID(ctx context.Context, userID string, transactionID string) (ledger.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + transactionColumns + " FROM transaction WHERE id = ? AND created_by = ?;"

	var dbT dbTransaction
	err := mySql.db.QueryRowContext(ctx, query, transactionID, userID).Scan(
		&dbT.ID,
		&dbT.AccountID,
		&dbT.Type,
		&dbT.SubType,
		&dbT.Amount,
		&dbT.Description,
		&dbT.Date,
		&dbT.EnableEMI,
		&dbT.EMINumbers,
		&dbT.EMIAmount,
		&dbT.EMIType,
		&dbT.IsEMIPayment,
		&dbT.CreatedAt,
		&dbT.UpdatedAt,
		&dbT.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Transaction{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "The transaction does not exist.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get transaction in Storage.GetTransactionByID() function | Error: %v", traceID, err)
		return ledger.Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get the transaction, try again later.",
		}
	}
	return ledger.Transaction(dbT), nil
}

func (mySql *MySQLStorage) UpdateTransaction(ctx context.Context, userID string, fields ledger.UpdateTransactionRequest) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE transaction
		SET account_id = ?, type = ?, sub_type = ?, amount = ?, description = ?, date = ?,
			enable_emi = ?, emi_numbers = ?, emi_amount = ?, emi_type = ?, updated_at = ?
		WHERE id = ? AND created_by = ?;`
	res, err := mySql.db.ExecContext(ctx, query,
		fields.NewAccountID,
		fields.NewType,
		fields.NewSubType,
		fields.NewAmount,
		fields.NewDescription,
		fields.NewDate,
		fields.EnableEMI,
		fields.EMINumbers,
		fields.EMIAmount,
		fields.EMIType,
		fields.UpdateTime,
		fields.ID,
		userID,
	)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update transaction in Storage.UpdateTransaction() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the transaction, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateTransaction() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the transaction, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The transaction does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM transaction WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, transactionID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete transaction in Storage.DeleteTransaction() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the transaction, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteTransaction() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the transaction, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The transaction does not exist.",
		}
	}
	return nil
}

// --- CATEGORIES --- //

func (mySql *MySQLStorage) SaveCategories(ctx context.Context, categories []ledger.Category) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	internalErr := appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to save the category, try again later.",
	}

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.SaveCategories() function | Error: %v", traceID, err)
		return internalErr
	}

	query := "INSERT INTO category (id, name, color, created_at, created_by) VALUES (?, ?, ?, ?, ?);"
	for _, category := range categories {
		if _, err := txn.ExecContext(ctx, query, category.ID, category.Name, category.Color, category.CreatedAt, category.CreatedBy); err != nil {
			txn.Rollback()
			if isDuplicateEntry(err) {
				return appErrors.ErrorResponse{
					Code:    appErrors.ErrConflict,
					Message: "The category already exists.",
				}
			}
			logging.Logger.Errorf("[TraceID=%s] | failed to save category in Storage.SaveCategories() function | Error: %v", traceID, err)
			return internalErr
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.SaveCategories() function | Error: %v", traceID, err)
		return internalErr
	}
	return nil
}

func (mySql *MySQLStorage) GetCategories(ctx context.Context, userID string) ([]ledger.Category, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, color, created_at, created_by FROM category WHERE created_by = ? ORDER BY created_at;"

	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get categories in Storage.GetCategories() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get categories, try again later.",
		}
	}
	defer rows.Close()

	var categories []ledger.Category
	for rows.Next() {
		var category ledger.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Color, &category.CreatedAt, &category.CreatedBy); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan category row in Storage.GetCategories() function | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to get categories, try again later.",
			}
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate category rows in Storage.GetCategories() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get categories, try again later.",
		}
	}
	return categories, nil
}

func (mySql *MySQLStorage) UpdateCategory(ctx context.Context, userID string, fields ledger.UpdateCategoryRequest) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE category SET name = ?, color = ? WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, fields.NewName, fields.NewColor, fields.ID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update category in Storage.UpdateCategory() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the category, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.UpdateCategory() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update the category, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The category does not exist.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM category WHERE id = ? AND created_by = ?;"
	res, err := mySql.db.ExecContext(ctx, query, categoryID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete category in Storage.DeleteCategory() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the category, try again later.",
		}
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteCategory() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete the category, try again later.",
		}
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "The category does not exist.",
		}
	}
	return nil
}

// --- SETTINGS --- //

func (mySql *MySQLStorage) GetUserSettings(ctx context.Context, userID string) (ledger.UserSettings, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT user_id, currency, currency_symbol FROM user_settings WHERE user_id = ?;"

	var settings ledger.UserSettings
	err := mySql.db.QueryRowContext(ctx, query, userID).Scan(&settings.UserID, &settings.Currency, &settings.CurrencySymbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.UserSettings{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Settings not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user settings in Storage.GetUserSettings() function | Error: %v", traceID, err)
		return ledger.UserSettings{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get settings, try again later.",
		}
	}
	return settings, nil
}

func (mySql *MySQLStorage) UpsertUserSettings(ctx context.Context, settings ledger.UserSettings) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `INSERT INTO user_settings (user_id, currency, currency_symbol) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE currency = VALUES(currency), currency_symbol = VALUES(currency_symbol);`
	_, err := mySql.db.ExecContext(ctx, query, settings.UserID, settings.Currency, settings.CurrencySymbol)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to upsert user settings in Storage.UpsertUserSettings() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save settings, try again later.",
		}
	}
	return nil
}
