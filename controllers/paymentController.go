package controllers

import (
	"net/http"

	"civicfix-be/core"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordPayment stores a confirmed charge from the payment gateway. A
// subscription payment upgrades the payer to premium; a boost payment
// is consumed later by the boost endpoint. Gateway webhook mechanics
// stay outside this service; only the confirmation lands here.
func RecordPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Purpose string `json:"purpose" binding:"required"`
		Amount  int64  `json:"amount" binding:"required"`
		IssueID string `json:"issueId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var issueID *primitive.ObjectID
	if input.IssueID != "" {
		id, err := primitive.ObjectIDFromHex(input.IssueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
			return
		}
		issueID = &id
	}

	payment, err := core.RecordPayment(c.Request.Context(), user,
		models.PaymentPurpose(input.Purpose), input.Amount, issueID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetCitizenStats returns the authenticated citizen's dashboard numbers.
func GetCitizenStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := core.StatsForReporter(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
