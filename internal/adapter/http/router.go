package http

import (
	"github.com/labstack/echo/v4"

	"prestamos-backend/internal/adapter/middleware"
)

type Handlers struct {
	Health        *Handler
	Loans         *LoanHandler
	Approvals     *ApprovalHandler
	Installments  *InstallmentHandler
	Documents     *DocumentHandler
	Settings      *SettingsHandler
	Notifications *NotificationHandler
}

// Register mounts every route. actor resolves the caller; idem guards the
// mutating routes and must come after actor.
func Register(e *echo.Echo, h Handlers, actor, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.GET("/loan-options", h.Loans.Options)

	api := e.Group("", actor, idem)
	admin := api.Group("/admin", middleware.RequireAdmin)
	adminOnly := middleware.RequireAdmin

	api.POST("/loans", h.Loans.CreateLoan)
	api.GET("/loans", h.Loans.ListLoans)
	api.GET("/loans/:loan_id", h.Loans.GetLoan)
	api.POST("/loans/:loan_id/sign", h.Loans.SignLoan)
	api.POST("/loans/:loan_id/approve", h.Approvals.ApproveLoan, adminOnly)
	api.POST("/loans/:loan_id/reject", h.Approvals.RejectLoan, adminOnly)
	api.POST("/loans/:loan_id/installments", h.Installments.EnsureSchedule, adminOnly)
	api.GET("/loans/:loan_id/installments", h.Installments.ListByLoan)
	api.GET("/loans/:loan_id/progress", h.Loans.Progress)

	api.POST("/installments/:id/report", h.Installments.Report)
	api.GET("/installments/:id/receipt", h.Installments.Receipt)
	api.PUT("/installments/:id/status", h.Installments.UpdateStatus, adminOnly)

	api.GET("/documents/status", h.Documents.Status)
	api.PUT("/documents/status", h.Documents.SetSlot)
	api.POST("/documents/:slot/uploaded", h.Documents.MarkUploaded)

	api.GET("/notifications", h.Notifications.Inbox)

	admin.GET("/loans/active", h.Loans.ActiveLoans)
	admin.POST("/installments/overdue", h.Installments.SweepOverdue)
	admin.GET("/settings/:key", h.Settings.Get)
	admin.PUT("/settings/:key", h.Settings.Put)
	admin.POST("/settings/:key/refresh", h.Settings.Refresh)
}
