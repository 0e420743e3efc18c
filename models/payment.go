package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentPurpose enum
type PaymentPurpose string

const (
	PurposeSubscription PaymentPurpose = "subscription"
	PurposeBoost        PaymentPurpose = "boost"
)

// PaymentStatus enum. The gateway only ever reports confirmed charges
// to us, so "success" is the only state a stored record can hold.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
)

// Payment is a confirmed charge reported by the payment gateway.
// Records are read-only after creation.
type Payment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserEmail     string              `bson:"userEmail" json:"userEmail"`
	Amount        int64               `bson:"amount" json:"amount"`
	Purpose       PaymentPurpose      `bson:"purpose" json:"purpose"`
	IssueID       *primitive.ObjectID `bson:"issueId,omitempty" json:"issueId,omitempty"`
	TransactionID string              `bson:"transactionId" json:"transactionId"`
	Status        PaymentStatus       `bson:"status" json:"status"`
	Date          time.Time           `bson:"date" json:"date"`
}
