package routes

import (
	"civicfix-be/controllers"
	"civicfix-be/middlewares"

	"github.com/gin-gonic/gin"
)

// PaymentRoutes sets up payment recording and citizen stats routes
func PaymentRoutes(r *gin.Engine) {
	r.POST("/api/payments", middlewares.AuthMiddleware(), controllers.RecordPayment)
	r.GET("/api/stats/citizen", middlewares.AuthMiddleware(), controllers.GetCitizenStats)
}
