package core

import (
	"context"
	"fmt"
	"time"

	"civicfix-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateBoost checks boost eligibility against an already-loaded
// issue: only the reporter may boost, and only once.
func ValidateBoost(issue *models.Issue, actor *models.User) error {
	if actor.IsBlocked() {
		return fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if issue.ReporterEmail != actor.Email {
		return fmt.Errorf("%w: only the reporter can boost this issue", ErrForbidden)
	}
	if issue.IsBoosted {
		return fmt.Errorf("%w: issue is already boosted", ErrConflict)
	}
	return nil
}

// BoostIssue flips the one-way boosted flag and forces priority to high,
// gated on a confirmed boost payment by the reporter for this exact
// issue. Flag and priority move in one conditional write keyed on
// isBoosted=false, so a second call lands on Conflict and the flag is
// never toggled back.
func BoostIssue(ctx context.Context, issueID primitive.ObjectID, actor *models.User) error {
	issue, err := GetIssue(ctx, issueID)
	if err != nil {
		return err
	}
	if err := ValidateBoost(issue, actor); err != nil {
		return err
	}
	if _, err := FindBoostPayment(ctx, actor.Email, issueID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := issueCollection().UpdateOne(ctx,
		bson.M{"_id": issueID, "isBoosted": false},
		bson.M{"$set": bson.M{
			"isBoosted": true,
			"priority":  models.PriorityHigh,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to boost issue", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: issue is already boosted", ErrConflict)
	}
	return nil
}
