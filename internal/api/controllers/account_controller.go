package controllers

import (
	"github.com/gin-gonic/gin"

	"gatekeeper/internal/services"
	"gatekeeper/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// GetStatus godoc
// @Summary Account ban status
// @Description Polled by signed-in clients to learn whether the account was banned
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /auth/status [get]
func (a *AccountController) GetStatus(c *gin.Context) {
	status, err := a.accountService.BanStatus(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Account status retrieved successfully")
}
