package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	shareIssuer   = "binpack-service"
	shareAudience = "shared-allocation"
)

// ErrInvalidShareToken covers malformed, expired and foreign tokens.
var ErrInvalidShareToken = errors.New("invalid share token")

// ShareLink is a signed, expiring reference to an allocation.
type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ShareService signs and verifies allocation share tokens.
type ShareService interface {
	Issue(allocationID string) (*ShareLink, error)
	Resolve(token string) (string, error)
}

// ShareConfig holds configuration for the share service.
type ShareConfig struct {
	SecretKey string
	TTL       time.Duration
	// BaseURL prefixes the token in ShareLink.URL.
	BaseURL string
}

// ShareServiceImpl implements ShareService with HS256 JWTs.
type ShareServiceImpl struct {
	secretKey []byte
	ttl       time.Duration
	baseURL   string
	now       func() time.Time
}

// NewShareService creates a new share service.
func NewShareService(cfg ShareConfig) *ShareServiceImpl {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &ShareServiceImpl{
		secretKey: []byte(cfg.SecretKey),
		ttl:       ttl,
		baseURL:   cfg.BaseURL,
		now:       time.Now,
	}
}

// Issue signs a token whose subject is allocationID.
func (s *ShareServiceImpl) Issue(allocationID string) (*ShareLink, error) {
	if allocationID == "" {
		return nil, errors.New("allocation id is required")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   allocationID,
		Issuer:    shareIssuer,
		Audience:  jwt.ClaimStrings{shareAudience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return nil, err
	}

	return &ShareLink{
		Token:     token,
		URL:       s.baseURL + "/api/shared/" + token,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

// Resolve verifies token and returns the allocation id it refers to.
func (s *ShareServiceImpl) Resolve(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(shareIssuer),
		jwt.WithAudience(shareAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidShareToken
	}
	return claims.Subject, nil
}
