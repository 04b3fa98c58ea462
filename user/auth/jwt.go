package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-jwt/jwt/v5/request"
	"github.com/google/uuid"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/srvcerr"
)

const ScopeAdmin = "admin"

const tokenTTL = 24 * time.Hour

const issuer = "snbtku"

type JwtClaims struct {
	Username  string   `json:"username,omitempty"`
	Firstname *string  `json:"firstname,omitempty"`
	Lastname  *string  `json:"lastname,omitempty"`
	Email     string   `json:"email,omitempty"`
	UUID      string   `json:"uuid,omitempty"`
	Scopes    []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

func (c *JwtClaims) IsAdmin() bool {
	return slices.Contains(c.Scopes, ScopeAdmin)
}

type ClaimsKeyType string

var CtxJwtClaimsKey ClaimsKeyType = "jwtClaims"

func GenerateJWT(username, email string, id uuid.UUID, firstname, lastname *string, scopes []string, jwtKey []byte) (string, error) {
	now := time.Now()
	claims := &JwtClaims{
		Username:  username,
		Firstname: firstname,
		Lastname:  lastname,
		Email:     email,
		UUID:      id.String(),
		Scopes:    scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateJWT(tokenStr string, jwtKey []byte) (*JwtClaims, error) {
	claims := &JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("invalid token signature")
		}
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// WithClaims stores claims in ctx the way the middleware does.
func WithClaims(ctx context.Context, claims *JwtClaims) context.Context {
	return context.WithValue(ctx, CtxJwtClaimsKey, claims)
}

// ClaimsFromContext returns nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *JwtClaims {
	claims, _ := ctx.Value(CtxJwtClaimsKey).(*JwtClaims)
	return claims
}

// UserIDFromContext returns the authenticated user's uuid or "".
func UserIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.UUID
	}
	return ""
}

// GetJwtAuthMiddleware validates a bearer token if present and adds the
// claims to the request context. Requests without a token pass through
// anonymously.
func GetJwtAuthMiddleware(jwtKey []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, err := request.BearerExtractor{}.ExtractToken(r)
			if err != nil {
				if errors.Is(err, request.ErrNoTokenInRequest) {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), nil)))
					return
				}
				httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrUnauthorized().SetDebug(err))
				return
			}

			claims, err := ValidateJWT(token, jwtKey)
			if err != nil {
				httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrUnauthorized().SetDebug(err))
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) == nil {
			httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrUnauthorized())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without the admin scope.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrUnauthorized())
			return
		}
		if !claims.IsAdmin() {
			httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerr.ErrForbidden())
			return
		}
		next.ServeHTTP(w, r)
	})
}
