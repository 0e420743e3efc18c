package core

import (
	"context"
	"fmt"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func paymentCollection() *mongo.Collection { return config.GetCollection("payments") }

// Prices in the local currency.
const (
	BoostPrice        = 100
	SubscriptionPrice = 1000
)

// ValidatePayment checks a charge confirmation before it is recorded.
func ValidatePayment(purpose models.PaymentPurpose, amount int64, issueID *primitive.ObjectID) error {
	switch purpose {
	case models.PurposeSubscription:
		if amount != SubscriptionPrice {
			return fmt.Errorf("%w: premium subscription costs %d", ErrValidation, SubscriptionPrice)
		}
	case models.PurposeBoost:
		if amount != BoostPrice {
			return fmt.Errorf("%w: boosting costs %d", ErrValidation, BoostPrice)
		}
		if issueID == nil {
			return fmt.Errorf("%w: boost payment requires an issue id", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown payment purpose %q", ErrValidation, purpose)
	}
	return nil
}

// TierAfterPayment returns the tier the payer holds once a charge with
// the given purpose is settled. Subscription upgrades are idempotent:
// an already-premium payer stays premium, so a retried confirmation
// never changes the outcome.
func TierAfterPayment(current models.Tier, purpose models.PaymentPurpose) models.Tier {
	if purpose == models.PurposeSubscription {
		return models.TierPremium
	}
	return current
}

// RecordPayment stores a confirmed charge reported by the gateway. A
// subscription payment upgrades the payer to premium in the same flow;
// a boost payment only stores the record, which BoostIssue later
// consumes. The tier upgrade lands before the record insert: if the
// insert fails, no payment is stored, and retrying re-applies the
// idempotent upgrade instead of duplicating a charge.
func RecordPayment(ctx context.Context, payer *models.User, purpose models.PaymentPurpose, amount int64, issueID *primitive.ObjectID) (*models.Payment, error) {
	if payer.IsBlocked() {
		return nil, fmt.Errorf("%w: account is blocked", ErrForbidden)
	}
	if err := ValidatePayment(purpose, amount, issueID); err != nil {
		return nil, err
	}
	if purpose == models.PurposeBoost {
		// The referenced issue must exist before money is tied to it.
		if _, err := GetIssue(ctx, *issueID); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if newTier := TierAfterPayment(payer.Tier, purpose); newTier != payer.Tier {
		_, err := userCollection().UpdateOne(ctx,
			bson.M{"_id": payer.ID},
			bson.M{"$set": bson.M{"tier": newTier, "updatedAt": time.Now()}},
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to upgrade tier", ErrUnavailable)
		}
		payer.Tier = newTier
	}

	payment := models.Payment{
		ID:            primitive.NewObjectID(),
		UserEmail:     payer.Email,
		Amount:        amount,
		Purpose:       purpose,
		IssueID:       issueID,
		TransactionID: uuid.NewString(),
		Status:        models.PaymentSuccess,
		Date:          time.Now(),
	}
	if _, err := paymentCollection().InsertOne(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: failed to record payment", ErrUnavailable)
	}

	return &payment, nil
}

// FindBoostPayment looks up a confirmed boost charge by the given payer
// for the given issue. Missing record means the boost was not paid for.
func FindBoostPayment(ctx context.Context, payerEmail string, issueID primitive.ObjectID) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var payment models.Payment
	err := paymentCollection().FindOne(ctx, bson.M{
		"userEmail": payerEmail,
		"purpose":   models.PurposeBoost,
		"issueId":   issueID,
		"status":    models.PaymentSuccess,
	}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: no confirmed boost payment for this issue", ErrPaymentRequired)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up payment", ErrUnavailable)
	}
	return &payment, nil
}
