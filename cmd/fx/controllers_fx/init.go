package controllers_fx

import (
	"go.uber.org/fx"

	"gatekeeper/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewLinkPreviewController),
	fx.Provide(controllers.NewCompletionController))
