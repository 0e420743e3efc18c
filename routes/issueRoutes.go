package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issues")
	{
		issue.GET("", controllers.GetAllIssues)
		issue.GET("/:id", controllers.GetIssue)
		issue.POST("",
			middlewares.AuthMiddleware(),
			middlewares.RequireRole(models.RoleCitizen),
			middlewares.IssueRateLimiter(10),
			controllers.CreateIssue)
		issue.GET("/mine", middlewares.AuthMiddleware(), controllers.GetMyIssues)
		issue.PUT("/:id", middlewares.AuthMiddleware(), controllers.UpdateIssue)
		issue.DELETE("/:id", middlewares.AuthMiddleware(), controllers.DeleteIssue)
		issue.PATCH("/:id/upvote", middlewares.AuthMiddleware(), controllers.UpvoteIssue)
		issue.PATCH("/:id/boost", middlewares.AuthMiddleware(), controllers.BoostIssue)
	}
}
