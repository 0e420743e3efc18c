package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections are resolved lazily so pure-rule tests never touch Mongo.
func issueCollection() *mongo.Collection { return config.GetCollection("issues") }
func userCollection() *mongo.Collection  { return config.GetCollection("users") }

const opTimeout = 10 * time.Second

// IssueDraft is the citizen-supplied part of a new issue. The image must
// already be uploaded to the external host; only its URL travels here.
type IssueDraft struct {
	Title       string
	Description string
	Category    models.IssueCategory
	Location    string
	ImageURL    string
}

// ValidateDraft checks the required fields of a new issue submission.
func ValidateDraft(d *IssueDraft) error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case strings.TrimSpace(d.Location) == "":
		return fmt.Errorf("%w: location is required", ErrValidation)
	case strings.TrimSpace(d.ImageURL) == "":
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	if !models.ValidCategory(d.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, d.Category)
	}
	return nil
}

// CreateIssue validates the draft, enforces the free-tier quota and
// persists a pending issue with a seeded timeline. The reporter's
// lifetime submission counter is incremented as part of the flow, so
// the quota counts every issue ever created, deleted or rejected ones
// included.
func CreateIssue(ctx context.Context, draft *IssueDraft, reporter *models.User) (*models.Issue, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	if reporter.IsBlocked() {
		return nil, fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if reporter.Role != models.RoleCitizen {
		return nil, fmt.Errorf("%w: only citizens can report issues", ErrForbidden)
	}
	if err := CanCreateIssue(reporter); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()

	// Reserve the submission slot before inserting. The conditional
	// increment is the authoritative quota check; CanCreateIssue above
	// only supplies the friendly early error against the loaded record.
	res, err := userCollection().UpdateOne(ctx,
		QuotaFilter(reporter.ID),
		bson.M{"$inc": bson.M{"quotaUsed": 1}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to record submission count", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: free accounts may submit at most %d reports, upgrade to premium for unlimited reporting",
			ErrQuotaExceeded, FreeIssueLimit)
	}

	issue := models.Issue{
		ID:            primitive.NewObjectID(),
		Title:         draft.Title,
		Description:   draft.Description,
		Category:      draft.Category,
		Location:      draft.Location,
		ImageURL:      draft.ImageURL,
		Status:        models.Pending,
		Priority:      models.PriorityLow,
		Upvotes:       0,
		UpvotedBy:     []string{},
		ReporterEmail: reporter.Email,
		ReporterName:  reporter.Name,
		Timeline: []models.TimelineEntry{{
			Status:    models.Pending,
			Message:   "Issue reported by citizen.",
			Actor:     reporter.Email,
			UpdatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := issueCollection().InsertOne(ctx, issue); err != nil {
		// Release the reserved slot so a failed insert does not burn
		// part of the caller's quota.
		_, _ = userCollection().UpdateOne(ctx,
			bson.M{"_id": reporter.ID},
			bson.M{"$inc": bson.M{"quotaUsed": -1}},
		)
		return nil, fmt.Errorf("%w: failed to create issue", ErrUnavailable)
	}

	return &issue, nil
}

// GetIssue returns the issue with the given id.
func GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var issue models.Issue
	err := issueCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: issue", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve issue", ErrUnavailable)
	}
	return &issue, nil
}

// SearchFilters narrows an issue listing. Zero values mean "no filter".
type SearchFilters struct {
	Search   string
	Category string
	Status   string
	Priority string
	Page     int
	Limit    int
}

// SearchResult is one page of issues plus pagination info.
type SearchResult struct {
	Issues      []models.Issue `json:"issues"`
	TotalIssues int64          `json:"totalIssues"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// SearchIssues lists issues newest-first with optional free-text,
// category, status and priority filters, paginated.
func SearchIssues(ctx context.Context, f SearchFilters) (*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}

	filter := bson.M{}
	if f.Category != "" && f.Category != "all" {
		filter["category"] = f.Category
	}
	if f.Status != "" && f.Status != "all" {
		filter["status"] = f.Status
	}
	if f.Priority != "" && f.Priority != "all" {
		filter["priority"] = f.Priority
	}
	if f.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": f.Search, "$options": "i"}},
			{"location": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}

	totalCount, err := issueCollection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count issues", ErrUnavailable)
	}

	skip := (f.Page - 1) * f.Limit
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(f.Limit))

	cursor, err := issueCollection().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve issues", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("%w: failed to decode issues", ErrUnavailable)
	}

	totalPages := int((totalCount + int64(f.Limit) - 1) / int64(f.Limit))
	return &SearchResult{
		Issues:      issues,
		TotalIssues: totalCount,
		TotalPages:  totalPages,
		CurrentPage: f.Page,
	}, nil
}

// ListByReporter returns all issues created by a reporter, newest-first,
// optionally narrowed to one status.
func ListByReporter(ctx context.Context, reporterEmail string, status models.IssueStatus) ([]models.Issue, error) {
	filter := bson.M{"reporterEmail": reporterEmail}
	if status != "" {
		filter["status"] = status
	}
	return listIssues(ctx, filter)
}

// ListByAssignedStaff returns all issues assigned to a staff member,
// newest-first.
func ListByAssignedStaff(ctx context.Context, staffEmail string) ([]models.Issue, error) {
	return listIssues(ctx, bson.M{"assignedStaff.email": staffEmail})
}

func listIssues(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := issueCollection().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve issues", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("%w: failed to decode issues", ErrUnavailable)
	}
	return issues, nil
}

// IssuePatch carries the owner-editable fields of an issue.
type IssuePatch struct {
	Title       *string
	Description *string
}

// ValidateOwnerEdit checks that the actor may apply the patch: only the
// reporter may edit, and only while the issue is still pending.
func ValidateOwnerEdit(issue *models.Issue, actor *models.User) error {
	if actor.IsBlocked() {
		return fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if issue.ReporterEmail != actor.Email {
		return fmt.Errorf("%w: only the reporter can edit this issue", ErrForbidden)
	}
	if issue.Status != models.Pending {
		return fmt.Errorf("%w: issues can only be edited while pending", ErrForbidden)
	}
	return nil
}

// UpdateIssue applies an owner edit of title/description while the issue
// is pending. The pending precondition is repeated in the write filter
// so a concurrent status change cannot slip an edit in after the fact.
func UpdateIssue(ctx context.Context, id primitive.ObjectID, patch *IssuePatch, actor *models.User) error {
	issue, err := GetIssue(ctx, id)
	if err != nil {
		return err
	}
	if err := ValidateOwnerEdit(issue, actor); err != nil {
		return err
	}

	update := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		update["title"] = *patch.Title
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		update["description"] = *patch.Description
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := issueCollection().UpdateOne(ctx,
		bson.M{"_id": id, "status": models.Pending},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update issue", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: issue is no longer pending", ErrConflict)
	}
	return nil
}

// ValidateDelete checks that the actor may remove the issue: the owning
// citizen while it is still pending, or an admin at any time. Blocked
// principals are denied like every other mutation.
func ValidateDelete(issue *models.Issue, actor *models.User) error {
	if actor.IsBlocked() {
		return fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if issue.ReporterEmail != actor.Email {
		return fmt.Errorf("%w: only the reporter can delete this issue", ErrForbidden)
	}
	if issue.Status != models.Pending {
		return fmt.Errorf("%w: issues can only be deleted while pending", ErrForbidden)
	}
	return nil
}

// DeleteIssue removes an issue. The owning citizen may delete while the
// issue is pending; admins may delete at any time.
func DeleteIssue(ctx context.Context, id primitive.ObjectID, actor *models.User) error {
	issue, err := GetIssue(ctx, id)
	if err != nil {
		return err
	}
	if err := ValidateDelete(issue, actor); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := issueCollection().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("%w: failed to delete issue", ErrUnavailable)
	}
	return nil
}
