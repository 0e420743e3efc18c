package core

import (
	"context"
	"fmt"
	"time"

	"civicfix-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ValidateAssignment checks the assignment preconditions against loaded
// records: the actor must be an admin, the issue still pending with no
// staff assigned, and the target principal must actually be staff.
func ValidateAssignment(issue *models.Issue, staff *models.User, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can assign staff", ErrForbidden)
	}
	if staff.Role != models.RoleStaff {
		return fmt.Errorf("%w: assignee must be a staff member", ErrValidation)
	}
	if issue.AssignedStaff != nil {
		return fmt.Errorf("%w: issue already has assigned staff", ErrConflict)
	}
	if issue.Status != models.Pending {
		return fmt.Errorf("%w: staff can only be assigned while the issue is pending", ErrInvalidTransition)
	}
	return nil
}

// AssignStaff sets the responsible staff member on a pending issue.
// Assignment happens once per issue and leaves the status at pending;
// the staff member advances it separately when work begins. The write
// filter repeats the preconditions so two concurrent assignments cannot
// both land.
func AssignStaff(ctx context.Context, issueID, staffID primitive.ObjectID, actor *models.User) error {
	issue, err := GetIssue(ctx, issueID)
	if err != nil {
		return err
	}

	staff, err := findUserByID(ctx, staffID)
	if err != nil {
		return err
	}
	if err := ValidateAssignment(issue, staff, actor); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	res, err := issueCollection().UpdateOne(ctx,
		bson.M{
			"_id":           issueID,
			"status":        models.Pending,
			"assignedStaff": bson.M{"$exists": false},
		},
		bson.M{
			"$set": bson.M{
				"assignedStaff": models.AssignedStaff{
					ID:    staff.ID,
					Name:  staff.Name,
					Email: staff.Email,
				},
				"updatedAt": now,
			},
			"$push": bson.M{"timeline": models.TimelineEntry{
				Status:    models.Pending,
				Message:   fmt.Sprintf("Assigned to %s.", staff.Name),
				Actor:     actor.Email,
				UpdatedAt: now,
			}},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to assign staff", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: issue was assigned or moved on concurrently", ErrConflict)
	}
	return nil
}

// RejectIssue moves a pending issue to the terminal rejected state.
// Admin only. The status filter makes concurrent rejection or
// advancement mutually exclusive.
func RejectIssue(ctx context.Context, issueID primitive.ObjectID, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can reject issues", ErrForbidden)
	}

	issue, err := GetIssue(ctx, issueID)
	if err != nil {
		return err
	}
	if !CanReject(issue.Status) {
		return fmt.Errorf("%w: only pending issues can be rejected, issue is %s",
			ErrInvalidTransition, issue.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	res, err := issueCollection().UpdateOne(ctx,
		bson.M{"_id": issueID, "status": models.Pending},
		bson.M{
			"$set": bson.M{"status": models.Rejected, "updatedAt": now},
			"$push": bson.M{"timeline": models.TimelineEntry{
				Status:    models.Rejected,
				Message:   "Issue rejected by admin.",
				Actor:     actor.Email,
				UpdatedAt: now,
			}},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to reject issue", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: issue is no longer pending", ErrConflict)
	}
	return nil
}

// ValidateAdvance checks that the actor may move the issue to newStatus:
// the assigned staff member owns advancement, admins may override, and
// newStatus must be the single legal successor of the current status.
func ValidateAdvance(issue *models.Issue, newStatus models.IssueStatus, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		if actor.Role != models.RoleStaff {
			return fmt.Errorf("%w: only staff can advance issue status", ErrForbidden)
		}
		if issue.AssignedStaff == nil || issue.AssignedStaff.Email != actor.Email {
			return fmt.Errorf("%w: issue is not assigned to you", ErrForbidden)
		}
	}
	return ValidateTransition(issue.Status, newStatus)
}

// AdvanceStatus moves an issue to the next stage of its lifecycle and
// appends the matching timeline entry in the same write. The filter
// pins the status the decision was made against, so of two concurrent
// advances only one matches; the loser sees Conflict after the state
// has already moved.
func AdvanceStatus(ctx context.Context, issueID primitive.ObjectID, newStatus models.IssueStatus, actor *models.User, message string) error {
	issue, err := GetIssue(ctx, issueID)
	if err != nil {
		return err
	}
	if err := ValidateAdvance(issue, newStatus, actor); err != nil {
		return err
	}
	if message == "" {
		message = fmt.Sprintf("Status changed from %s to %s.", issue.Status, newStatus)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	res, err := issueCollection().UpdateOne(ctx,
		bson.M{"_id": issueID, "status": issue.Status},
		bson.M{
			"$set": bson.M{"status": newStatus, "updatedAt": now},
			"$push": bson.M{"timeline": models.TimelineEntry{
				Status:    newStatus,
				Message:   message,
				Actor:     actor.Email,
				UpdatedAt: now,
			}},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update status", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: issue status changed concurrently", ErrConflict)
	}
	return nil
}

func findUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := userCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve user", ErrUnavailable)
	}
	return &user, nil
}
