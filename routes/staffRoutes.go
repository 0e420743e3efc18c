package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// StaffRoutes sets up routes for the staff workflow. Admins may advance
// status as an override, so the status route admits both roles.
func StaffRoutes(r *gin.Engine) {
	staff := r.Group("/api/staff", middlewares.AuthMiddleware())
	{
		staff.GET("/assigned-issues",
			middlewares.RequireRole(models.RoleStaff),
			controllers.GetAssignedIssues)
		staff.GET("/stats",
			middlewares.RequireRole(models.RoleStaff),
			controllers.GetStaffStats)
		staff.PATCH("/issues/:id/status",
			middlewares.RequireRole(models.RoleStaff, models.RoleAdmin),
			controllers.UpdateIssueStatus)
	}
}
