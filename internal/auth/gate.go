// Package auth is the shared-passphrase access gate and the signed
// session tokens handed out after it.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrBadPassphrase is returned when the passphrase does not match.
	ErrBadPassphrase = errors.New("incorrect passphrase")

	// ErrInvalidToken is returned for malformed, expired or forged tokens.
	ErrInvalidToken = errors.New("invalid token")
)

const sessionClaim = "sid"

// Config holds the gate settings. When neither Passphrase nor
// PassphraseHash is set the gate is open.
type Config struct {
	// Passphrase is compared in constant time.
	Passphrase string

	// PassphraseHash is a bcrypt hash and takes precedence over Passphrase.
	PassphraseHash string

	// Secret signs session tokens. A random one is generated when empty,
	// so tokens do not survive a restart.
	Secret []byte

	// TokenTTL is the lifetime of an issued token.
	TokenTTL time.Duration
}

// DefaultConfig returns an open gate with 12 hour tokens.
func DefaultConfig() Config {
	return Config{TokenTTL: 12 * time.Hour}
}

// ConfigFromEnv reads GRECS_PASSPHRASE, GRECS_PASSPHRASE_HASH,
// GRECS_JWT_SECRET and GRECS_TOKEN_TTL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Passphrase = os.Getenv("GRECS_PASSPHRASE")
	cfg.PassphraseHash = os.Getenv("GRECS_PASSPHRASE_HASH")
	if s := os.Getenv("GRECS_JWT_SECRET"); s != "" {
		cfg.Secret = []byte(s)
	}
	if v := os.Getenv("GRECS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	return cfg
}

// Gate checks the passphrase and issues session tokens.
type Gate struct {
	passphrase []byte
	hash       []byte
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewGate creates a Gate from cfg.
func NewGate(cfg Config) (*Gate, error) {
	g := &Gate{
		passphrase: []byte(cfg.Passphrase),
		hash:       []byte(cfg.PassphraseHash),
		secret:     cfg.Secret,
		ttl:        cfg.TokenTTL,
		now:        time.Now,
	}
	if g.ttl <= 0 {
		g.ttl = DefaultConfig().TokenTTL
	}
	if len(g.hash) > 0 {
		if _, err := bcrypt.Cost(g.hash); err != nil {
			return nil, fmt.Errorf("passphrase hash: %w", err)
		}
	}
	if len(g.secret) == 0 {
		g.secret = make([]byte, 32)
		if _, err := rand.Read(g.secret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
	}
	return g, nil
}

// Open reports whether the gate lets everyone through.
func (g *Gate) Open() bool {
	return len(g.hash) == 0 && len(g.passphrase) == 0
}

// Check verifies passphrase. An open gate accepts anything.
func (g *Gate) Check(passphrase string) error {
	switch {
	case len(g.hash) > 0:
		if bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)) != nil {
			return ErrBadPassphrase
		}
	case len(g.passphrase) > 0:
		if subtle.ConstantTimeCompare(g.passphrase, []byte(passphrase)) != 1 {
			return ErrBadPassphrase
		}
	}
	return nil
}

// IssueToken signs a token naming sessionID.
func (g *Gate) IssueToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("empty session id")
	}
	now := g.now()
	claims := jwt.MapClaims{
		sessionClaim: sessionID,
		"iat":        now.Unix(),
		"exp":        now.Add(g.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// ParseToken validates token and returns the session ID it carries.
func (g *Gate) ParseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sid, _ := claims[sessionClaim].(string)
	if sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}

// HashPassphrase returns the bcrypt hash to put in GRECS_PASSPHRASE_HASH.
func HashPassphrase(passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("empty passphrase")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(h), nil
}
