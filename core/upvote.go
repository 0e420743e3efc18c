package core

import (
	"context"
	"fmt"

	"civicfix-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateUpvote checks upvote eligibility against an already-loaded
// issue: reporters cannot upvote their own issue, and a second upvote
// from the same principal is a conflict, never a double count.
func ValidateUpvote(issue *models.Issue, voter *models.User) error {
	if voter.IsBlocked() {
		return fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if issue.ReporterEmail == voter.Email {
		return fmt.Errorf("%w: you cannot upvote your own report", ErrForbidden)
	}
	if issue.HasUpvoted(voter.Email) {
		return fmt.Errorf("%w: you have already upvoted this report", ErrConflict)
	}
	return nil
}

// Upvote adds the voter to the issue's upvoter set and bumps the count.
// Set membership and count move in one conditional UpdateOne, so the
// count always equals the set cardinality no matter how calls
// interleave; the filter excludes the reporter and existing voters, so
// a concurrent duplicate simply matches nothing. Returns the new count.
func Upvote(ctx context.Context, issueID primitive.ObjectID, voter *models.User) (int64, error) {
	issue, err := GetIssue(ctx, issueID)
	if err != nil {
		return 0, err
	}
	if err := ValidateUpvote(issue, voter); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := issueCollection().UpdateOne(ctx,
		bson.M{
			"_id":           issueID,
			"reporterEmail": bson.M{"$ne": voter.Email},
			"upvotedBy":     bson.M{"$ne": voter.Email},
		},
		bson.M{
			"$addToSet": bson.M{"upvotedBy": voter.Email},
			"$inc":      bson.M{"upvotes": 1},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to cast upvote", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		// The filter also misses when the issue was deleted between the
		// read and the update; re-read to tell NotFound from Conflict.
		latest, getErr := GetIssue(ctx, issueID)
		return issue.Upvotes, resolveUpvoteMiss(latest, getErr, voter.Email)
	}
	return issue.Upvotes + 1, nil
}

// resolveUpvoteMiss classifies a conditional-update miss from the
// re-read state: a vanished issue propagates NotFound, a voter already
// in the set raced a duplicate, anything else lost a concurrent write.
func resolveUpvoteMiss(latest *models.Issue, getErr error, voterEmail string) error {
	if getErr != nil {
		return getErr
	}
	if latest.HasUpvoted(voterEmail) {
		return fmt.Errorf("%w: you have already upvoted this report", ErrConflict)
	}
	return fmt.Errorf("%w: issue changed concurrently, try again", ErrConflict)
}
