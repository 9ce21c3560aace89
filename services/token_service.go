package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marco-deluca/pizza-orders-api/config"
	"golang.org/x/crypto/bcrypt"
)

// Token classes embedded in the token_type claim. Protected endpoints accept
// only access tokens; the refresh endpoint accepts only refresh tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims holds the typed JWT payload for issued tokens.
type TokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the access and refresh tokens returned by login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IssueAccessToken creates a signed short-lived access token bound to the
// given username as subject.
func IssueAccessToken(cfg *config.Config, username string) (string, error) {
	return issueToken(cfg, username, TokenTypeAccess, cfg.AccessTokenTTL)
}

// IssueRefreshToken creates a signed longer-lived token used solely to mint
// new access tokens.
func IssueRefreshToken(cfg *config.Config, username string) (string, error) {
	return issueToken(cfg, username, TokenTypeRefresh, cfg.RefreshTokenTTL)
}

// IssueTokenPair creates the access/refresh pair returned on login.
func IssueTokenPair(cfg *config.Config, username string) (*TokenPair, error) {
	access, err := IssueAccessToken(cfg, username)
	if err != nil {
		return nil, err
	}
	refresh, err := IssueRefreshToken(cfg, username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func issueToken(cfg *config.Config, username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{cfg.JWTAudience},
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// ParseToken parses and validates a token string issued by this service.
func ParseToken(cfg *config.Config, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
