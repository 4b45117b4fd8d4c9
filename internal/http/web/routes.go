package web

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all web UI routes. superAdmin guards the
// worker management pages.
func RegisterRoutes(e *echo.Group, h *Handler, loginLimit, superAdmin echo.MiddlewareFunc) {
	// Authentication
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login, loginLimit)
	e.POST("/logout", h.Logout)

	// Dashboard
	e.GET("/", h.Index)
	e.GET("", h.Index)

	// Customers
	e.GET("/customers", h.ListCustomers)
	e.GET("/customers/new", h.NewCustomerForm)
	e.POST("/customers", h.CreateCustomer)
	e.POST("/customers/delete", h.DeleteCustomers)
	e.GET("/customers/:id", h.CustomerDetail)
	e.GET("/customers/:id/edit", h.EditCustomerForm)
	e.PUT("/customers/:id", h.UpdateCustomer)
	e.DELETE("/customers/:id", h.DeleteCustomer)

	// Points
	e.POST("/customers/:id/points/add", h.AddPoints)
	e.POST("/customers/:id/points/redeem", h.RedeemPoints)

	// Activity
	e.GET("/logs", h.ListLogs)

	// Workers
	w := e.Group("/workers", superAdmin)
	w.GET("", h.ListWorkers)
	w.GET("/new", h.NewWorkerForm)
	w.POST("", h.CreateWorker)
	w.GET("/:id", h.WorkerDetail)
	w.GET("/:id/edit", h.EditWorkerForm)
	w.PUT("/:id", h.UpdateWorker)
	w.DELETE("/:id", h.DeleteWorker)

	// Profile
	e.GET("/profile", h.Profile)
	e.PUT("/profile", h.UpdateProfile)
	e.PUT("/profile/password", h.ChangePassword)
}
