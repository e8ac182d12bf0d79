package profile

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterFrequency enumerates how often digest emails go out.
type NewsletterFrequency string

const (
	NewsletterWeekly   NewsletterFrequency = "weekly"
	NewsletterBiweekly NewsletterFrequency = "biweekly"
	NewsletterMonthly  NewsletterFrequency = "monthly"
	NewsletterOff      NewsletterFrequency = "off"
)

// NotificationPrefs controls which notifications an account receives.
type NotificationPrefs struct {
	Newsletter NewsletterFrequency `json:"newsletter"`
	Updates    bool                `json:"updates"`
	Offers     bool                `json:"offers"`
	Mentions   bool                `json:"mentions"`
}

// DefaultNotificationPrefs are applied to every new account.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		Newsletter: NewsletterWeekly,
		Updates:    true,
		Offers:     true,
		Mentions:   true,
	}
}

const (
	DefaultLanguage = "en"
	DefaultTimezone = "UTC"
)

// Profile is the mutable profile view of an account, identical in shape
// for local and Google accounts.
type Profile struct {
	AccountID   uuid.UUID         `json:"id"`
	Provider    string            `json:"provider"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	DisplayName string            `json:"displayName"`
	Bio         string            `json:"bio"`
	AvatarURL   string            `json:"avatarUrl"`
	Language    string            `json:"language"`
	Timezone    string            `json:"timezone"`
	Prefs       NotificationPrefs `json:"notificationPrefs"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// UpdateParams is a partial patch; nil fields stay untouched. The
// notification preferences merge key by key for the same reason: sending
// one flag must not reset the others.
type UpdateParams struct {
	DisplayName *string
	Bio         *string
	Language    *string
	Timezone    *string
	Newsletter  *string
	Updates     *bool
	Offers      *bool
	Mentions    *bool
}
