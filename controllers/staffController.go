package controllers

import (
	"net/http"

	"civicfix-be/core"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetAssignedIssues lists the issues assigned to the authenticated
// staff member.
func GetAssignedIssues(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	issues, err := core.ListByAssignedStaff(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// UpdateIssueStatus advances an issue one stage along its lifecycle and
// appends the matching timeline entry.
func UpdateIssueStatus(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		NewStatus string `json:"newStatus" binding:"required"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = core.AdvanceStatus(c.Request.Context(), issueID,
		models.IssueStatus(input.NewStatus), user, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// GetStaffStats returns the authenticated staff member's dashboard
// numbers.
func GetStaffStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := core.StatsForStaff(c.Request.Context(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
