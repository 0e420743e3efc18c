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

// FindUserByEmail resolves a principal by their identity email.
func FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user models.User
	err := userCollection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve user", ErrUnavailable)
	}
	return &user, nil
}

// FindUserByID resolves a principal by their record id.
func FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findUserByID(ctx, id)
}

// RoleInfo is the resolver's answer for a principal identity.
type RoleInfo struct {
	Role   models.Role          `json:"role"`
	Tier   models.Tier          `json:"tier,omitempty"`
	Status models.AccountStatus `json:"status"`
}

// ResolveRole maps an identity email to its role, tier and account
// status. Read-only; provisioning happens at registration.
func ResolveRole(ctx context.Context, email string) (*RoleInfo, error) {
	user, err := FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &RoleInfo{Role: user.Role, Tier: user.Tier, Status: user.Status}, nil
}

// ProvisionCitizen creates the backing record for a freshly registered
// identity: citizen role, free tier, active status.
func ProvisionCitizen(ctx context.Context, name, email, password string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := userCollection().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing user", ErrUnavailable)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: user with this email already exists", ErrConflict)
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      models.RoleCitizen,
		Tier:      models.TierFree,
		Status:    models.AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("%w: failed to hash password", ErrUnavailable)
	}
	if _, err := userCollection().InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: failed to create user", ErrUnavailable)
	}
	return &user, nil
}

// ProvisionStaff creates a staff principal. Admin only.
func ProvisionStaff(ctx context.Context, name, email, password string, actor *models.User) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can provision staff", ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := userCollection().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing user", ErrUnavailable)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: user with this email already exists", ErrConflict)
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      models.RoleStaff,
		Status:    models.AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("%w: failed to hash password", ErrUnavailable)
	}
	if _, err := userCollection().InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: failed to create user", ErrUnavailable)
	}
	return &user, nil
}

// UpdateStaff edits a staff member's profile fields. Admin only.
func UpdateStaff(ctx context.Context, id primitive.ObjectID, name, email string, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can manage staff", ErrForbidden)
	}

	update := bson.M{"updatedAt": time.Now()}
	if name != "" {
		update["name"] = name
	}
	if email != "" {
		update["email"] = email
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := userCollection().UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleStaff},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update staff", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: staff member", ErrNotFound)
	}
	return nil
}

// DeleteStaff removes a staff principal. Admin only.
func DeleteStaff(ctx context.Context, id primitive.ObjectID, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can manage staff", ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := userCollection().DeleteOne(ctx, bson.M{"_id": id, "role": models.RoleStaff})
	if err != nil {
		return fmt.Errorf("%w: failed to delete staff", ErrUnavailable)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: staff member", ErrNotFound)
	}
	return nil
}

// ListUsersByRole returns all principals with the given role,
// newest-first. Password hashes never leave the model's json mapping.
func ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := userCollection().Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve users", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode users", ErrUnavailable)
	}
	return users, nil
}

// SetAccountStatus blocks or unblocks a citizen account. Admin only.
// Blocked principals are denied all mutating operations at the auth
// layer and inside each core operation.
func SetAccountStatus(ctx context.Context, id primitive.ObjectID, status models.AccountStatus, actor *models.User) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can change account status", ErrForbidden)
	}
	if status != models.AccountActive && status != models.AccountBlocked {
		return fmt.Errorf("%w: unknown account status %q", ErrValidation, status)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := userCollection().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update account status", ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return nil
}
