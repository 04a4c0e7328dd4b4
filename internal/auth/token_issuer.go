package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidCredentials indicates the username/password pair did not match.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken indicates a token that failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")

	errMissingAccessSecret  = errors.New("access signing secret must be provided")
	errMissingRefreshSecret = errors.New("refresh signing secret must be provided")
	errMissingSubjectClaim  = errors.New("subject claim must be provided")
)

// TokenIssuerConfig configures the single-user JWT issuer.
type TokenIssuerConfig struct {
	Username      string
	Password      string
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Clock         func() time.Time
}

// TokenIssuer authenticates the configured user and issues HS256 access and
// refresh tokens signed with distinct secrets.
type TokenIssuer struct {
	config TokenIssuerConfig
	clock  func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer with sane defaults.
func NewTokenIssuer(cfg TokenIssuerConfig) *TokenIssuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	cfg.Clock = clock
	return &TokenIssuer{config: cfg, clock: clock}
}

// TokenPair carries the access token with its expiry in seconds and the
// refresh token.
type TokenPair struct {
	AccessToken  string
	ExpiresIn    int64
	RefreshToken string
}

// Login checks the credentials against the configured user and issues a
// fresh token pair.
func (i *TokenIssuer) Login(username, password string) (TokenPair, error) {
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(i.config.Username))
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(i.config.Password))
	if userMatch != 1 || passMatch != 1 {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, expiresIn, err := i.sign(username, i.config.AccessSecret, i.config.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := i.sign(username, i.config.RefreshSecret, i.config.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, ExpiresIn: expiresIn, RefreshToken: refresh}, nil
}

// Refresh validates a refresh token and issues a new access token for its
// subject.
func (i *TokenIssuer) Refresh(refreshToken string) (string, int64, error) {
	subject, err := i.validate(refreshToken, i.config.RefreshSecret, errMissingRefreshSecret)
	if err != nil {
		return "", 0, err
	}
	return i.sign(subject, i.config.AccessSecret, i.config.AccessTTL)
}

// ValidateAccessToken ensures the access token is well formed and returns
// its subject.
func (i *TokenIssuer) ValidateAccessToken(tokenString string) (string, error) {
	return i.validate(tokenString, i.config.AccessSecret, errMissingAccessSecret)
}

func (i *TokenIssuer) sign(subject string, secret []byte, ttl time.Duration) (string, int64, error) {
	if len(secret) == 0 {
		return "", 0, errMissingAccessSecret
	}
	if subject == "" {
		return "", 0, errMissingSubjectClaim
	}

	now := i.clock().UTC()
	expiresAt := now.Add(ttl).UTC()

	registered := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    i.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registered)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(expiresAt.Sub(now).Seconds()), nil
}

func (i *TokenIssuer) validate(tokenString string, secret []byte, missing error) (string, error) {
	if len(secret) == 0 {
		return "", missing
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm: %s", token.Method.Alg())
			}
			return secret, nil
		},
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", errMissingSubjectClaim
	}
	return claims.Subject, nil
}
