package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"ecoeats-server/internal/config"
)

// UserIDKey is the gin context key holding the authenticated subject.
const UserIDKey = "user_id"

// AnonymousUserID is the subject assigned when auth is disabled and the
// caller identifies itself with no header. Local development only.
const AnonymousUserID = "anonymous"

// Validator validates JWTs using JWKS.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Middleware enforces JWT auth when enabled and resolves the acting user ID
// either way. With auth disabled the X-User-ID header selects the user so
// local clients can still exercise per-user scoping.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
			if userID == "" {
				userID = AnonymousUserID
			}
			c.Set(UserIDKey, userID)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
			jwt.WithIssuer(v.cfg.AuthIssuer),
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		if !audienceAllowed(claims, v.cfg.AuthAudience) {
			abortUnauthorized(c, "invalid token audience")
			return
		}

		subject, _ := claims["sub"].(string)
		if subject == "" {
			abortUnauthorized(c, "missing token subject")
			return
		}

		c.Set(UserIDKey, subject)
		c.Next()
	}
}

// UserID extracts the acting user from the gin context.
func UserID(c *gin.Context) string {
	userID, _ := c.Value(UserIDKey).(string)
	return userID
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.jwks != nil
}

func audienceAllowed(claims jwt.MapClaims, audience string) bool {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		return true
	}
	audClaim, hasAud := claims["aud"]
	if !hasAud {
		return true
	}
	switch aud := audClaim.(type) {
	case string:
		return aud == audience
	case []any:
		for _, entry := range aud {
			if s, ok := entry.(string); ok && s == audience {
				return true
			}
		}
	}
	return false
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
