// internal/httpserver/player.go
//
// Player identity for the game routes.
// Responsibilities:
//   - Normalize and validate player names.
//   - Sign and parse HS256 player tokens (JWT_SECRET, JWT_EXPIRES_DAYS).
//   - Set the player cookie (COOKIE_NAME) and read Bearer or cookie tokens.
//   - requirePlayer: load the /game/{id} entry and check it belongs to the
//     token's player.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/chainpop/apps/go-server/internal/store"
)

// ------------------------------ player names -------------------------------

// normalizePlayer trims whitespace and folds case so "Ada " and "ada" share
// progress.
func normalizePlayer(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// validatePlayer enforces basic player-name rules.
func validatePlayer(p string) error {
	if len(p) < 3 || len(p) > 24 {
		return errors.New("player must be 3–24 chars")
	}
	for _, r := range p {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return errors.New("player: letters, numbers, underscore only")
		}
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

func jwtSecret() []byte { return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")) }

// signPlayerToken creates an HS256 JWT carrying the player name, with a
// configurable expiry (JWT_EXPIRES_DAYS; default 14).
func signPlayerToken(player string) (string, time.Time, error) {
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	exp := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"player": player,
		"exp":    exp.Unix(),
		"iat":    time.Now().Unix(),
	})
	ss, err := t.SignedString(jwtSecret())
	return ss, exp, err
}

var errBadToken = errors.New("invalid token")

// parsePlayerToken validates tokenStr and returns its player claim.
func parsePlayerToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errBadToken
	}
	player, _ := claims["player"].(string)
	if player == "" {
		return "", errBadToken
	}
	return player, nil
}

func cookieName() string { return getEnv("COOKIE_NAME", "chainpop_token") }

// setPlayerCookie writes the player token cookie with appropriate security attributes.
func setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header, the
// player cookie, or (for browser WebSockets) the "token" query parameter.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName()); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// ---------------------------- game middleware ------------------------------

type ctxEntryKey struct{}

// entryFrom returns the game entry placed by requirePlayer.
func entryFrom(ctx context.Context) *store.Entry {
	e, _ := ctx.Value(ctxEntryKey{}).(*store.Entry)
	return e
}

// requirePlayer enforces a valid player token that owns the {id} game and
// injects the game entry into request context.
func (s *Server) requirePlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			player, err := parsePlayerToken(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			e, err := s.games.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
				return
			}
			if e.Game.Player != player {
				http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxEntryKey{}, e)))
		})
	}
}
