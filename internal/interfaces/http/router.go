package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
	"github.com/jhoicas/Booking-api/internal/application/voucher"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	InvitationUC  *usecase.InvitationUseCase
	AgentUC       *usecase.AgentUseCase
	OrderUC       *usecase.OrderUseCase
	BankAccountUC *usecase.BankAccountUseCase
	VoucherUC     *voucher.UseCase
	Users         repository.UserRepository
	DB            Pinger
	Env           string
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.DB, deps.Env).Check)

	api := app.Group("/api")
	authHandler := NewAuthHandler(deps.AuthUC, deps.InvitationUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register/:token", authHandler.Register)
	authGroup.Get("/invitations/:token", authHandler.VerifyInvitation)
	api.Post("/admin/register-first-admin", authHandler.RegisterFirstAdmin)

	// Rutas protegidas (Bearer Token + usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.Users))
	supervisors := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Perfil
	profileHandler := NewProfileHandler(deps.AuthUC)
	protected.Get("/profile", profileHandler.Get)
	protected.Put("/profile", profileHandler.Update)
	protected.Put("/profile/change-password", profileHandler.ChangePassword)

	// Invitaciones (admin, manager)
	invitationHandler := NewInvitationHandler(deps.InvitationUC)
	invitations := protected.Group("/invitations", supervisors)
	invitations.Post("/", invitationHandler.Create)
	invitations.Get("/", invitationHandler.List)
	invitations.Delete("/:id", invitationHandler.Cancel)

	// Agentes (admin, manager)
	agentHandler := NewAgentHandler(deps.AgentUC)
	agents := protected.Group("/agents", supervisors)
	agents.Get("/", agentHandler.List)
	agents.Get("/:id", agentHandler.Get)
	agents.Put("/:id", agentHandler.Update)
	agents.Patch("/:id/toggle-status", agentHandler.ToggleStatus)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, deps.VoucherUC)
	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.List)
	orders.Post("/", RequireRole(entity.RoleAgent), orderHandler.Create)
	orders.Get("/:orderId/voucher", orderHandler.Voucher)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)
	orders.Patch("/:id/deposit-paid", orderHandler.MarkDepositPaid)

	// Pedidos desde el panel del manager (admin, manager)
	manager := protected.Group("/manager/orders", supervisors)
	manager.Get("/", orderHandler.List)
	manager.Patch("/:id/confirm", orderHandler.Confirm)
	manager.Patch("/:id/confirm-payment", orderHandler.ConfirmPayment)

	// Cuentas bancarias
	bankHandler := NewBankAccountHandler(deps.BankAccountUC)
	banks := protected.Group("/bank-accounts")
	banks.Get("/", bankHandler.List)
	banks.Post("/", RequireRole(entity.RoleManager), bankHandler.Create)
	banks.Get("/:identifier", bankHandler.GetByIdentifier)
	banks.Put("/:id", RequireRole(entity.RoleManager), bankHandler.Update)
	banks.Delete("/:id", RequireRole(entity.RoleManager), bankHandler.Delete)
}
