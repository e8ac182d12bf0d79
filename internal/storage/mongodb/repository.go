package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/modules/profile"
)

const (
	localAccountsCollection  = "users"
	pendingSignupsCollection = "pending_users"
	googleAccountsCollection = "google_users"
)

// Repository implements the auth and profile storage interfaces on a
// MongoDB database handle.
type Repository struct {
	db *mongo.Database
}

// NewRepository creates a repository bound to the given database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) localAccounts() *mongo.Collection {
	return r.db.Collection(localAccountsCollection)
}

func (r *Repository) pendingSignups() *mongo.Collection {
	return r.db.Collection(pendingSignupsCollection)
}

func (r *Repository) googleAccounts() *mongo.Collection {
	return r.db.Collection(googleAccountsCollection)
}

type notificationPrefsDoc struct {
	Newsletter string `bson:"newsletter"`
	Updates    bool   `bson:"updates"`
	Offers     bool   `bson:"offers"`
	Mentions   bool   `bson:"mentions"`
}

func defaultPrefsDoc() notificationPrefsDoc {
	prefs := profile.DefaultNotificationPrefs()
	return notificationPrefsDoc{
		Newsletter: string(prefs.Newsletter),
		Updates:    prefs.Updates,
		Offers:     prefs.Offers,
		Mentions:   prefs.Mentions,
	}
}

type localAccountDoc struct {
	ID           string               `bson:"_id"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password_hash"`
	DisplayName  string               `bson:"display_name"`
	Bio          string               `bson:"bio"`
	AvatarURL    string               `bson:"avatar_url"`
	Language     string               `bson:"language"`
	Timezone     string               `bson:"timezone"`
	Prefs        notificationPrefsDoc `bson:"notification_prefs"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

type pendingSignupDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	OTP          string    `bson:"otp"`
	OTPExpiresAt time.Time `bson:"otp_expires_at"`
	CreatedAt    time.Time `bson:"created_at"`
}

type googleAccountDoc struct {
	ID          string               `bson:"_id"`
	GoogleID    string               `bson:"google_id"`
	Email       string               `bson:"email"`
	Username    string               `bson:"username"`
	UsernameSet bool                 `bson:"username_set"`
	DisplayName string               `bson:"display_name"`
	Bio         string               `bson:"bio"`
	AvatarURL   string               `bson:"avatar_url"`
	Language    string               `bson:"language"`
	Timezone    string               `bson:"timezone"`
	Prefs       notificationPrefsDoc `bson:"notification_prefs"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

var (
	_ auth.LocalAccountStore  = (*Repository)(nil)
	_ auth.PendingSignupStore = (*Repository)(nil)
	_ auth.GoogleAccountStore = (*Repository)(nil)
	_ profile.Store           = (*Repository)(nil)
)
