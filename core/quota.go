package core

import (
	"fmt"

	"civicfix-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FreeIssueLimit is the lifetime cap on submissions for free-tier
// citizens. The count includes rejected and deleted issues.
const FreeIssueLimit = 3

// CanCreateIssue decides whether a citizen may submit another issue.
// Premium citizens are never limited. The returned error is nil when
// allowed and wraps ErrQuotaExceeded otherwise.
func CanCreateIssue(user *models.User) error {
	if user.Tier == models.TierPremium {
		return nil
	}
	if user.QuotaUsed >= FreeIssueLimit {
		return fmt.Errorf("%w: free accounts may submit at most %d reports, upgrade to premium for unlimited reporting",
			ErrQuotaExceeded, FreeIssueLimit)
	}
	return nil
}

// QuotaFilter is the write filter that reserves a submission slot. The
// quotaUsed counter is the serialization point: two concurrent creates
// both race through the in-memory check against a stale record, but
// only as many conditional increments match as the cap allows.
func QuotaFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id": userID,
		"$or": []bson.M{
			{"tier": models.TierPremium},
			{"quotaUsed": bson.M{"$lt": FreeIssueLimit}},
		},
	}
}
