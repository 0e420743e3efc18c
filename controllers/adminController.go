package controllers

import (
	"net/http"

	"civicfix-be/core"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignStaff sets the responsible staff member on a pending issue.
func AssignStaff(c *gin.Context) {
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
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staffID, err := primitive.ObjectIDFromHex(input.StaffID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	if err := core.AssignStaff(c.Request.Context(), issueID, staffID, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff assigned successfully"})
}

// RejectIssue moves a pending issue to the terminal rejected state.
func RejectIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := core.RejectIssue(c.Request.Context(), issueID, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue has been rejected"})
}

// GetStaffList returns all staff principals.
func GetStaffList(c *gin.Context) {
	staff, err := core.ListUsersByRole(c.Request.Context(), models.RoleStaff)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// CreateStaff provisions a new staff principal.
func CreateStaff(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staff, err := core.ProvisionStaff(c.Request.Context(), input.Name, input.Email, input.Password, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        staff.ID,
		"name":      staff.Name,
		"email":     staff.Email,
		"role":      staff.Role,
		"createdAt": staff.CreatedAt,
	})
}

// UpdateStaff edits a staff member's profile fields.
func UpdateStaff(c *gin.Context) {
	staffID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := core.UpdateStaff(c.Request.Context(), staffID, input.Name, input.Email, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff updated successfully"})
}

// DeleteStaff removes a staff principal.
func DeleteStaff(c *gin.Context) {
	staffID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := core.DeleteStaff(c.Request.Context(), staffID, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}

// GetCitizens returns all citizen principals.
func GetCitizens(c *gin.Context) {
	citizens, err := core.ListUsersByRole(c.Request.Context(), models.RoleCitizen)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, citizens)
}

// SetUserStatus blocks or unblocks a citizen account.
func SetUserStatus(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = core.SetAccountStatus(c.Request.Context(), userID,
		models.AccountStatus(input.Status), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account status updated"})
}

// GetAdminStats returns the global dashboard aggregates.
func GetAdminStats(c *gin.Context) {
	stats, err := core.StatsGlobal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetPaymentsReport lists every confirmed payment with the revenue sum.
func GetPaymentsReport(c *gin.Context) {
	report, err := core.ReportPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
