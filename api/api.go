package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/0xcafe-io/iz"
	"github.com/polosys/accounts-keeper/internal/auth"
	"github.com/polosys/accounts-keeper/internal/contextutil"
	"github.com/polosys/accounts-keeper/internal/ledger"
	"github.com/polosys/accounts-keeper/logging"
)

type Api struct {
	Service *ledger.Ledger
}

func NewApi(service *ledger.Ledger) *Api {
	return &Api{
		Service: service,
	}
}

// authenticate resolves the Authorization token to a user id. A nil
// responder means the request is authorized.
func (api *Api) authenticate(r *iz.Request) (context.Context, string, string, iz.Responder) {
	ctx := contextutil.WithTraceID(r.Context())

	token := r.Header.Get("Authorization")
	if token == "" {
		msg := "authorization failed: Authorization header is required."
		return ctx, "", "", iz.Respond().Status(401).Text(msg)
	}

	userId, err := api.Service.CheckSession(ctx, token)
	if err != nil {
		msg := fmt.Sprintf("authorization failed: %s", err.Error())
		return ctx, "", "", iz.Respond().Status(401).Text(msg)
	}
	return ctx, userId, token, nil
}

// --- USER HANDLERS --- //

func (api *Api) SaveUserHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	var newUserReq SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&newUserReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	newUser := auth.NewUser{
		Email:         newUserReq.Email,
		DisplayName:   newUserReq.DisplayName,
		PasswordPlain: newUserReq.Password,
	}

	token, err := api.Service.RegisterUser(ctx, newUser)
	if err != nil {
		msg := fmt.Sprintf("registration failed: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := UserCreatedResponse{
		Message: "Registration Completed",
		Token:   token,
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) LoginUserHandler(r *iz.Request) iz.Responder {
	ctx := contextutil.WithTraceID(r.Context())

	var loginRequest UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		msg := "invalid request body"
		return iz.Respond().Status(400).Text(msg)
	}

	credentials := auth.UserCredentialsPure{
		Email:         loginRequest.Email,
		PasswordPlain: loginRequest.Password,
	}

	response := LoginResponse{}

	token, err := api.Service.GenerateSession(ctx, credentials)
	if err != nil {
		response.Message = err.Error()
		return iz.Respond().Status(httpStatusFromError(err)).JSON(response)
	}
	response.Message = "You've logged in successfully!"
	response.Token = token
	return iz.Respond().Status(200).JSON(response)
}

func (api *Api) LogoutUserHandler(r *iz.Request) iz.Responder {
	ctx, userId, token, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	if err := api.Service.LogoutUser(ctx, userId, token); err != nil {
		msg := fmt.Sprintf("logout failed: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	msg := "Logout successful."
	return iz.Respond().Status(200).Text(msg)
}

func (api *Api) CheckTokenHandler(r *iz.Request) iz.Responder {
	_, _, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Token is valid."})
}

func (api *Api) GetAccountInfoHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	info, err := api.Service.AccountInfo(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to get account info: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := AccountInfoResponse{
		Email:       info.Email,
		DisplayName: info.DisplayName,
		JoinedAt:    info.JoinedAt.Format(timestampLayout),
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) UpdateProfileHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var profileReq UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&profileReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	if err := api.Service.UpdateDisplayName(ctx, userId, profileReq.DisplayName); err != nil {
		msg := fmt.Sprintf("failed to update profile: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Profile updated."})
}

func (api *Api) DeleteUserHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var deleteReq DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&deleteReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	deleteUser := auth.DeleteUser{
		Confirmation: deleteReq.Confirmation,
		Password:     deleteReq.Password,
	}

	if err := api.Service.DeleteUserAccount(ctx, userId, deleteUser); err != nil {
		msg := fmt.Sprintf("failed to delete account: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Account deleted."})
}

// DownloadUserData streams the export as a JSON attachment; it is a plain
// http.HandlerFunc because it sets download headers itself.
func (api *Api) DownloadUserData(w http.ResponseWriter, r *http.Request) {
	ctx := contextutil.WithTraceID(r.Context())

	token := r.Header.Get("Authorization")
	if token == "" {
		http.Error(w, "authorization failed: Authorization header is required.", http.StatusUnauthorized)
		return
	}

	userId, err := api.Service.CheckSession(ctx, token)
	if err != nil {
		http.Error(w, fmt.Sprintf("authorization failed: %s", err.Error()), http.StatusUnauthorized)
		return
	}

	export, err := api.Service.ExportUserData(ctx, userId)
	if err != nil {
		logging.Logger.Errorf("Failed to export user data: %v", err)
		http.Error(w, "failed to export user data", httpStatusFromError(err))
		return
	}

	fileName := ledger.ExportFileName(time.Now().UTC())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		logging.Logger.Errorf("Failed to write user data export: %v", err)
	}
}

// --- ACCOUNT HANDLERS --- //

func (api *Api) SaveAccountHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var accountReq AccountCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&accountReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	account, err := api.Service.SaveAccount(ctx, userId, ledger.AccountRequest{
		Name:        accountReq.Name,
		TypeID:      accountReq.TypeID,
		Description: accountReq.Description,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to create account: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := AccountItem{
		ID:          account.ID,
		Name:        account.Name,
		TypeID:      account.TypeID,
		Description: account.Description,
		Balance:     "0",
		Status:      "zero",
		CreatedAt:   account.CreatedAt.Format(timestampLayout),
		UpdatedAt:   account.UpdatedAt.Format(timestampLayout),
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) GetAccountsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	accounts, summary, err := api.Service.GetAccounts(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to get accounts: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListAccountsResponse{
		Accounts: make([]AccountItem, 0, len(accounts)),
		Summary: AccountsSummaryItem{
			Count:      summary.Count,
			Receivable: summary.Receivable.String(),
			Payable:    summary.Payable.String(),
			Net:        summary.Net.String(),
		},
	}
	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, AccountToHttp(account))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetAccountDetailsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	accountId := r.PathValue("id")

	account, stats, transactions, err := api.Service.GetAccountDetails(ctx, userId, accountId)
	if err != nil {
		msg := fmt.Sprintf("failed to get account: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := AccountDetailResponse{
		ID:          account.ID,
		Name:        account.Name,
		TypeID:      account.TypeID,
		Description: account.Description,
		Stats: AccountStatsItem{
			Balance:           stats.Balance.String(),
			TotalReceived:     stats.TotalReceived.String(),
			TotalPaid:         stats.TotalPaid.String(),
			TotalTransactions: stats.TotalTransactions,
		},
		Transactions: make([]TransactionItem, 0, len(transactions)),
	}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, TransactionToHttp(t))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) UpdateAccountHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var accountReq AccountCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&accountReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	err := api.Service.UpdateAccount(ctx, userId, ledger.UpdateAccountRequest{
		ID:             r.PathValue("id"),
		NewName:        accountReq.Name,
		NewTypeID:      accountReq.TypeID,
		NewDescription: accountReq.Description,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update account: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Account updated."})
}

func (api *Api) DeleteAccountHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	if err := api.Service.DeleteAccount(ctx, userId, r.PathValue("id")); err != nil {
		msg := fmt.Sprintf("failed to delete account: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Account and its transactions deleted."})
}

// --- ACCOUNT TYPE HANDLERS --- //

func (api *Api) GetAccountTypesHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	types, err := api.Service.GetAccountTypes(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to get account types: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListTypesResponse{Types: make([]TypeItem, 0, len(types))}
	for _, accountType := range types {
		resp.Types = append(resp.Types, TypeItem{
			ID:        accountType.ID,
			Name:      accountType.Name,
			Category:  accountType.Category,
			CreatedAt: accountType.CreatedAt.Format(timestampLayout),
		})
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) SaveAccountTypeHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var typeReq TypeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&typeReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	accountType, err := api.Service.SaveAccountType(ctx, userId, ledger.TypeRequest{
		Name:     typeReq.Name,
		Category: typeReq.Category,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to create account type: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := TypeItem{
		ID:        accountType.ID,
		Name:      accountType.Name,
		Category:  accountType.Category,
		CreatedAt: accountType.CreatedAt.Format(timestampLayout),
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) UpdateAccountTypeHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var typeReq TypeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&typeReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	err := api.Service.UpdateAccountType(ctx, userId, ledger.UpdateTypeRequest{
		ID:          r.PathValue("id"),
		NewName:     typeReq.Name,
		NewCategory: typeReq.Category,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update account type: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Account type updated."})
}

func (api *Api) DeleteAccountTypeHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	if err := api.Service.DeleteAccountType(ctx, userId, r.PathValue("id")); err != nil {
		msg := fmt.Sprintf("failed to delete account type: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Account type deleted."})
}

// --- TRANSACTION TYPE HANDLERS --- //

func (api *Api) GetTransactionTypesHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	category := r.URL.Query().Get("category")

	types, err := api.Service.GetTransactionTypes(ctx, userId, category)
	if err != nil {
		msg := fmt.Sprintf("failed to get transaction types: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListTypesResponse{Types: make([]TypeItem, 0, len(types))}
	for _, transactionType := range types {
		resp.Types = append(resp.Types, TypeItem{
			ID:        transactionType.ID,
			Name:      transactionType.Name,
			Category:  transactionType.Category,
			CreatedAt: transactionType.CreatedAt.Format(timestampLayout),
		})
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) SaveTransactionTypeHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var typeReq TypeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&typeReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	transactionType, err := api.Service.SaveTransactionType(ctx, userId, ledger.TypeRequest{
		Name:     typeReq.Name,
		Category: typeReq.Category,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to create transaction type: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := TypeItem{
		ID:        transactionType.ID,
		Name:      transactionType.Name,
		Category:  transactionType.Category,
		CreatedAt: transactionType.CreatedAt.Format(timestampLayout),
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) UpdateTransactionTypeHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var typeReq TypeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&typeReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	err := api.Service.UpdateTransactionType(ctx, userId, ledger.UpdateTypeRequest{
		ID:          r.PathValue("id"),
		NewName:     typeReq.Name,
		NewCategory: typeReq.Category,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update transaction type: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Transaction type updated."})
}

func (api *Api) DeleteTransactionTypeHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	if err := api.Service.DeleteTransactionType(ctx, userId, r.PathValue("id")); err != nil {
		msg := fmt.Sprintf("failed to delete transaction type: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Transaction type deleted."})
}

// --- TRANSACTION HANDLERS --- //

func (api *Api) SaveTransactionHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var transactionReq CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&transactionReq); err != nil {
		logging.Logger.Errorf("Failed to parse save transaction request: %v", err)
		msg := fmt.Sprintf("failed to parse save transaction request: %v", err)
		return iz.Respond().Status(400).Text(msg)
	}

	amount, err := parseAmount(transactionReq.Amount)
	if err != nil {
		return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
	}
	emiAmount, err := parseAmount(transactionReq.EMIAmount)
	if err != nil {
		return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
	}

	transaction, err := api.Service.SaveTransaction(ctx, userId, ledger.TransactionRequest{
		AccountID:   transactionReq.AccountID,
		Type:        transactionReq.Type,
		SubType:     transactionReq.SubType,
		Amount:      amount,
		Description: transactionReq.Description,
		Date:        transactionReq.Date,
		EnableEMI:   transactionReq.EnableEMI,
		EMINumbers:  transactionReq.EMINumbers,
		EMIAmount:   emiAmount,
		EMIType:     transactionReq.EMIType,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to create transaction: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(201).JSON(TransactionToHttp(transaction))
}

func (api *Api) GetFilteredTransactionsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	filter, page, pageSize, err := TransactionListParams(r.URL.Query())
	if err != nil {
		msg := fmt.Sprintf("invalid filter parameters: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	transactions, summary, err := api.Service.ListTransactions(ctx, userId, filter)
	if err != nil {
		logging.Logger.Errorf("Failed to get filtered transactions request: %v", err)
		msg := "failed to get transactions"
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	pageOfTransactions := paginateTransactions(transactions, page, pageSize)

	resp := ListTransactionsResponse{
		Transactions: make([]TransactionItem, 0, len(pageOfTransactions)),
		Summary: TransactionsSummaryItem{
			Count:         summary.Count,
			TotalReceipts: summary.TotalReceipts.String(),
			TotalPayments: summary.TotalPayments.String(),
			Net:           summary.Net.String(),
		},
		Page:       page,
		PageSize:   pageSize,
		TotalCount: len(transactions),
	}
	for _, t := range pageOfTransactions {
		resp.Transactions = append(resp.Transactions, TransactionToHttp(t))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetTransactionByIdHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	transaction, err := api.Service.GetTransactionByID(ctx, userId, r.PathValue("id"))
	if err != nil {
		logging.Logger.Errorf("Failed to get transaction by Id request: %v", err)
		msg := fmt.Sprintf("failed to get transaction by ID: %s", err.Error())
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(TransactionToHttp(transaction))
}

func (api *Api) UpdateTransactionHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var transactionReq CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&transactionReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	amount, err := parseAmount(transactionReq.Amount)
	if err != nil {
		return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
	}
	emiAmount, err := parseAmount(transactionReq.EMIAmount)
	if err != nil {
		return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
	}

	err = api.Service.UpdateTransaction(ctx, userId, ledger.UpdateTransactionRequest{
		ID:             r.PathValue("id"),
		NewAccountID:   transactionReq.AccountID,
		NewType:        transactionReq.Type,
		NewSubType:     transactionReq.SubType,
		NewAmount:      amount,
		NewDescription: transactionReq.Description,
		NewDate:        transactionReq.Date,
		EnableEMI:      transactionReq.EnableEMI,
		EMINumbers:     transactionReq.EMINumbers,
		EMIAmount:      emiAmount,
		EMIType:        transactionReq.EMIType,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update transaction: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Transaction updated."})
}

func (api *Api) DeleteTransactionHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	if err := api.Service.DeleteTransaction(ctx, userId, r.PathValue("id")); err != nil {
		logging.Logger.Errorf("Failed to delete transaction request: %v", err)
		msg := fmt.Sprintf("failed to delete transaction: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Transaction deleted."})
}

// --- INSTALLMENT HANDLERS --- //

func (api *Api) GetUnpaidInstallmentsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	unpaid, err := api.Service.UnpaidInstallments(ctx, userId, r.PathValue("id"))
	if err != nil {
		msg := fmt.Sprintf("failed to get unpaid installments: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListInstallmentsResponse{
		Installments: make([]InstallmentItem, 0, len(unpaid)),
		Count:        len(unpaid),
	}
	for _, due := range unpaid {
		resp.Installments = append(resp.Installments, InstallmentItem{
			Date:        due.Date,
			Amount:      due.Amount.String(),
			Installment: due.Installment,
		})
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) PayInstallmentsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var payReq PayInstallmentsHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&payReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	request := ledger.PayInstallmentsRequest{
		AccountID:   payReq.AccountID,
		SubType:     payReq.SubType,
		Description: payReq.Description,
		Selected:    make([]ledger.InstallmentSelection, 0, len(payReq.Installments)),
	}
	for _, installment := range payReq.Installments {
		amount, err := parseAmount(installment.Amount)
		if err != nil {
			return iz.Respond().Status(httpStatusFromError(err)).Text(err.Error())
		}
		request.Selected = append(request.Selected, ledger.InstallmentSelection{
			Date:   installment.Date,
			Amount: amount,
		})
	}

	count, total, err := api.Service.PayInstallments(ctx, userId, request)
	if err != nil {
		msg := fmt.Sprintf("failed to pay installments: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := PayInstallmentsResponse{
		Message: fmt.Sprintf("%d installment(s) paid.", count),
		Count:   count,
		Total:   total.String(),
	}
	return iz.Respond().Status(201).JSON(resp)
}

// --- CATEGORY HANDLERS --- //

func (api *Api) GetCategoriesHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	categories, err := api.Service.GetCategories(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to get categories: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := ListCategoriesResponse{Categories: make([]CategoryItem, 0, len(categories))}
	for _, category := range categories {
		resp.Categories = append(resp.Categories, CategoryItem{
			ID:        category.ID,
			Name:      category.Name,
			Color:     category.Color,
			CreatedAt: category.CreatedAt.Format(timestampLayout),
		})
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) SaveCategoryHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var categoryReq CategoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	category, err := api.Service.SaveCategory(ctx, userId, ledger.CategoryRequest{
		Name:  categoryReq.Name,
		Color: categoryReq.Color,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to create category: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := CategoryItem{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt.Format(timestampLayout),
	}
	return iz.Respond().Status(201).JSON(resp)
}

func (api *Api) UpdateCategoryHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var categoryReq CategoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	err := api.Service.UpdateCategory(ctx, userId, ledger.UpdateCategoryRequest{
		ID:       r.PathValue("id"),
		NewName:  categoryReq.Name,
		NewColor: categoryReq.Color,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to update category: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Category updated."})
}

func (api *Api) DeleteCategoryHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	if err := api.Service.DeleteCategory(ctx, userId, r.PathValue("id")); err != nil {
		msg := fmt.Sprintf("failed to delete category: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "Category deleted."})
}

// --- SETTINGS HANDLERS --- //

func (api *Api) GetSettingsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	settings, err := api.Service.GetSettings(ctx, userId)
	if err != nil {
		msg := fmt.Sprintf("failed to get settings: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := SettingsResponse{
		Currency:       settings.Currency,
		CurrencySymbol: settings.CurrencySymbol,
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) SaveSettingsHandler(r *iz.Request) iz.Responder {
	ctx, userId, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	var settingsReq SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&settingsReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	settings, err := api.Service.SaveSettings(ctx, userId, settingsReq.Currency)
	if err != nil {
		msg := fmt.Sprintf("failed to save settings: %v", err)
		return iz.Respond().Status(httpStatusFromError(err)).Text(msg)
	}

	resp := SettingsResponse{
		Currency:       settings.Currency,
		CurrencySymbol: settings.CurrencySymbol,
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetCurrenciesHandler(r *iz.Request) iz.Responder {
	_, _, _, denied := api.authenticate(r)
	if denied != nil {
		return denied
	}

	resp := ListCurrenciesResponse{
		Currencies: make([]CurrencyItem, 0, len(ledger.Currencies)),
		Default:    ledger.DefaultCurrency,
	}
	for code, info := range ledger.Currencies {
		resp.Currencies = append(resp.Currencies, CurrencyItem{
			Code:   code,
			Symbol: info.Symbol,
			Name:   info.Name,
		})
	}
	sort.Slice(resp.Currencies, func(i, j int) bool {
		return resp.Currencies[i].Code < resp.Currencies[j].Code
	})
	return iz.Respond().Status(200).JSON(resp)
}
