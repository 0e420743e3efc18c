package controllers

import (
	"net/http"
	"strconv"

	"civicfix-be/core"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateIssue handles the creation of a new issue. The image must
// already be uploaded to the external host; we only store its URL.
// Validation, the blocked-account check and the free-tier quota are all
// re-enforced inside the core, never trusted to the client.
func CreateIssue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required,max=1000"`
		Category    string `json:"category" binding:"required"`
		Location    string `json:"location" binding:"required,max=200"`
		Image       string `json:"image" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := &core.IssueDraft{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Location:    input.Location,
		ImageURL:    input.Image,
	}

	issue, err := core.CreateIssue(c.Request.Context(), draft, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues handles retrieving all issues with filtering, search and
// pagination.
func GetAllIssues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := core.SearchIssues(c.Request.Context(), core.SearchFilters{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIssue retrieves an issue by its ID, timeline included.
func GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	issue, err := core.GetIssue(c.Request.Context(), issueID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetMyIssues retrieves all issues created by the authenticated user,
// optionally narrowed by status.
func GetMyIssues(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	status := models.IssueStatus(c.Query("status"))
	issues, err := core.ListByReporter(c.Request.Context(), user.Email, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// UpdateIssue allows the reporter to edit title and description while
// the issue is still pending.
func UpdateIssue(c *gin.Context) {
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
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := &core.IssuePatch{Title: input.Title, Description: input.Description}
	if err := core.UpdateIssue(c.Request.Context(), issueID, patch, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully"})
}

// DeleteIssue removes an issue: the reporter while pending, admins any
// time.
func DeleteIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := core.DeleteIssue(c.Request.Context(), issueID, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// UpvoteIssue adds the authenticated user's upvote. Upvoting your own
// issue is forbidden and a duplicate upvote answers with 409 rather
// than silently succeeding, so the client can tell the two apart.
func UpvoteIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	upvotes, err := core.Upvote(c.Request.Context(), issueID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upvote recorded",
		"upvotes": upvotes,
	})
}

// BoostIssue upgrades the issue to high priority after a confirmed
// boost payment.
func BoostIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := core.BoostIssue(c.Request.Context(), issueID, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue boosted to high priority"})
}
