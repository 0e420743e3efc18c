package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the admin management routes
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin",
		middlewares.AuthMiddleware(),
		middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/issues", controllers.GetAllIssues)
		admin.PATCH("/issues/:id/assign", controllers.AssignStaff)
		admin.PATCH("/issues/:id/reject", controllers.RejectIssue)

		admin.GET("/staff", controllers.GetStaffList)
		admin.POST("/staff", controllers.CreateStaff)
		admin.PATCH("/staff/:id", controllers.UpdateStaff)
		admin.DELETE("/staff/:id", controllers.DeleteStaff)

		admin.GET("/citizens", controllers.GetCitizens)
		admin.PATCH("/users/:id/status", controllers.SetUserStatus)

		admin.GET("/stats", controllers.GetAdminStats)
		admin.GET("/payments", controllers.GetPaymentsReport)
	}
}
