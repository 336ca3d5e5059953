package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const principalCtxKey = ctxKey("principal")

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID uint
	Email  string
	Nombre string
	Role   Role
}

// Claims is the JWT payload. Field names match the tokens the legacy backend
// issued so existing sessions survive the migration.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// Secret returns JWT_SECRET or a dev-only fallback.
func Secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("devjwtsecret")
}

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = time.Hour

// CreateToken signs a bearer token for the given user.
func CreateToken(userID uint, email, nombre, rol string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Nombre: nombre,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret())
}

// ParseToken validates a bearer token and returns its claims.
func ParseToken(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return Secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext extracts the authenticated principal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Middleware attaches the principal to the request context when a valid
// Bearer token is present. It never rejects by itself; RequireAuth does.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if claims, err := ParseToken(strings.TrimSpace(token)); err == nil {
				p := Principal{UserID: claims.UserID, Email: claims.Email, Nombre: claims.Nombre, Role: ParseRole(claims.Rol)}
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth returns 401 unless a principal is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "no_autorizado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireWrite returns 403 unless the principal's role can mutate state.
// Reads are open to every authenticated role, so there is no read twin.
func RequireWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "no_autorizado")
			return
		}
		if !p.Role.CanWrite() {
			writeJSONError(w, http.StatusForbidden, "permiso_denegado")
			return
		}
		next.ServeHTTP(w, r)
	})
}
