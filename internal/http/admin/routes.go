package admin

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the JSON API on g. login is only rate limited;
// every other route runs behind auth.
func RegisterRoutes(g *echo.Group, h *Handler, auth, loginLimit, superAdmin echo.MiddlewareFunc) {
	g.POST("/login", h.Login, loginLimit)

	p := g.Group("", auth)
	p.POST("/logout", h.Logout)

	// Customers
	p.GET("/customers", h.ListCustomers)
	p.GET("/customers/:id", h.GetCustomer)
	p.POST("/customers", h.CreateCustomer)
	p.PUT("/customers/:id", h.UpdateCustomer)
	p.DELETE("/customers/:id", h.DeleteCustomer)
	p.POST("/customers/delete", h.DeleteCustomers)
	p.GET("/customers/:id/logs", h.CustomerLogs)

	// Points
	p.POST("/customers/:id/points/add", h.AddPoints)
	p.POST("/customers/:id/points/redeem", h.RedeemPoints)

	// Dashboard & activity
	p.GET("/stats", h.Stats)
	p.GET("/logs", h.ListLogs)

	// Workers
	w := p.Group("/workers", superAdmin)
	w.GET("", h.ListWorkers)
	w.GET("/:id", h.GetWorker)
	w.POST("", h.CreateWorker)
	w.PUT("/:id", h.UpdateWorker)
	w.DELETE("/:id", h.DeleteWorker)

	p.POST("/backup", h.Backup, superAdmin)

	// Profile
	p.GET("/profile", h.GetProfile)
	p.PUT("/profile", h.UpdateProfile)
	p.PUT("/profile/password", h.ChangePassword)
}
