// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/normalize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	// ErrDuplicateEmail is returned when creating a user with an email
	// that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user document matches.
	ErrNotFound = errors.New("user not found")

	errBadRole  = errors.New("role is not one of the allowed values")
	errNoEmail  = errors.New("email is required")
	errNoScope  = errors.New("state_admin and field_officer must have a state scope")
	errBadCreds = errors.New("invalid email or password")
)

// ErrBadCredentials is returned by VerifyPassword on a mismatch.
var ErrBadCredentials = errBadCreds

// Store manages the users collection.
type Store struct {
	c *mongo.Collection
}

// New creates a user Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and role lookups.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "full_name_ci", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Register inserts a new credential + profile document with an empty
// (pending) role and active=false. The account cannot sign in until an
// administrator promotes and activates it.
func (s *Store) Register(ctx context.Context, fullName, email, password string) (models.User, error) {
	email = normalize.Email(email)
	if email == "" {
		return models.User{}, errNoEmail
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     normalize.Name(fullName),
		FullNameCI:   text.Fold(normalize.Name(fullName)),
		Email:        email,
		PasswordHash: string(hash),
		Role:         "",
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Create inserts a fully specified user (seeding, admin bootstrap).
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Email == "" {
		return models.User{}, errNoEmail
	}
	u.Role = normalize.Enum(u.Role)
	if !authz.ValidRoleOrPending(u.Role) {
		return models.User{}, errBadRole
	}
	if (u.Role == authz.RoleStateAdmin || u.Role == authz.RoleFieldOfficer) && u.StateScope == "" {
		return models.User{}, errNoScope
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = string(hash)
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (s *Store) VerifyPassword(u *models.User, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

// UpdateRole changes a user's role; the value must be in the fixed
// enumeration (or empty to demote back to pending).
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, role, stateScope string) error {
	role = normalize.Enum(role)
	if !authz.ValidRoleOrPending(role) {
		return errBadRole
	}
	if (role == authz.RoleStateAdmin || role == authz.RoleFieldOfficer) && stateScope == "" {
		return errNoScope
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":        role,
		"state_scope": stateScope,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active":     active,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePreferences stores the user's UI preferences (theme).
func (s *Store) UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs models.Preferences) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"preferences": prefs,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login time.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"last_login_at": time.Now(),
	}})
	return err
}

// Delete removes a user document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Role   string
	State  string
	Active *bool
	Limit  int64
	Offset int64
}

// List returns users matching the filter, sorted by folded full name.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = normalize.Enum(filter.Role)
	}
	if filter.State != "" {
		query["state_scope"] = filter.State
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// PromoteOrCreate ensures a user with the given email exists with the
// given role and active=true. Used by the startup admin bootstrap and the
// seed CLI.
func (s *Store) PromoteOrCreate(ctx context.Context, fullName, email, role, stateScope, password string) (*models.User, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		if err := s.UpdateRole(ctx, existing.ID, role, stateScope); err != nil {
			return nil, err
		}
		if err := s.SetActive(ctx, existing.ID, true); err != nil {
			return nil, err
		}
		return s.GetByID(ctx, existing.ID)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		FullName:   fullName,
		Email:      email,
		Role:       role,
		StateScope: stateScope,
		Active:     true,
	}, password)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
