package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/marco-deluca/pizza-orders-api/config"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	TokenType string `json:"token_type"`
}

// Validate does nothing beyond satisfying the validator.CustomClaims
// interface; the token class is checked per-route instead.
func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// IsRefresh reports whether the token is a refresh-class token.
func (c *CustomClaims) IsRefresh() bool {
	return c.TokenType == "refresh"
}

// IsAccess reports whether the token is an access-class token.
func (c *CustomClaims) IsAccess() bool {
	return c.TokenType == "access"
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// Tokens are self-issued HS256 structures; the signature and expiry are the
// whole session state, there is no server-side session table.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	jwtValidator, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		},
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"detail":"Invalid token!"}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false

			// Store the validated claims in Gin context
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			// The subject claim carries the acting username
			username := token.RegisteredClaims.Subject
			c.Set("username", username)
			c.Set("validated_claims", token)

			c.Next()
		}

		// Use the JWT middleware to check the token
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler already wrote the 401 response; stop the chain
		// so no later middleware writes a second body.
		if encounteredError {
			c.Abort()
		}
	}
}

// RequireAccessToken rejects requests whose (otherwise valid) bearer token is
// not an access-class token. Refresh tokens must never reach protected
// endpoints.
func RequireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token!"})
			c.Abort()
			return
		}

		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.IsAccess() {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token!"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRefreshToken rejects requests whose bearer token is not a
// refresh-class token. Guards the refresh endpoint.
func RequireRefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid refresh token"})
			c.Abort()
			return
		}

		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.IsRefresh() {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid refresh token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUsername extracts the acting username from the Gin context
func GetUsername(c *gin.Context) (string, error) {
	username, exists := c.Get("username")
	if !exists {
		return "", &AuthError{Code: "MISSING_USERNAME", Message: "Username not found in context"}
	}

	usernameStr, ok := username.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USERNAME", Message: "Username is not a string"}
	}

	return usernameStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
