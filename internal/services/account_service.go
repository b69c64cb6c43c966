package services

import (
	"context"
	"fmt"

	"gatekeeper/internal/models/response_models"
	"gatekeeper/internal/repositories"
	"gatekeeper/pkg/utils"
)

// AccountServiceInterface backs the ban-status check polled by clients. The
// ban is account level and is deliberately not derived from the quota block.
type AccountServiceInterface interface {
	BanStatus(ctx context.Context, accountID uint) (response_models.AccountStatusResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
}

func NewAccountService(accountRepo repositories.AccountRepository) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
	}
}

func (a *AccountService) BanStatus(ctx context.Context, accountID uint) (response_models.AccountStatusResponse, error) {

	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return response_models.AccountStatusResponse{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if account == nil {
		return response_models.AccountStatusResponse{}, utils.ErrAccountNotFound
	}

	status := response_models.AccountStatusActive
	if account.Banned {
		status = response_models.AccountStatusBanned
	}

	return response_models.AccountStatusResponse{
		AccountID: account.ID,
		Status:    status,
	}, nil
}
