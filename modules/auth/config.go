package auth

import "time"

// Config holds the tunables of the auth flows. Loaded from the environment
// by the composition root.
type Config struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY,required"`
	TokenTTL      time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`
	OTPTTL        time.Duration `env:"AUTH_OTP_TTL" envDefault:"10m"`
	StateTTL      time.Duration `env:"AUTH_OAUTH_STATE_TTL" envDefault:"10m"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	// FrontendURL is where OAuth callbacks land after the flow completes:
	// "<FrontendURL>/#google_token=<jwt>" on success,
	// "<FrontendURL>/set-username?pendingId=<id>" when a username is needed,
	// "<FrontendURL>?auth_error=<code>" on failure.
	FrontendURL string `env:"AUTH_FRONTEND_URL" envDefault:"http://localhost:3000"`
}
