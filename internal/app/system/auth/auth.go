// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// ErrProfileNotFound is returned by a UserFetcher when the credential is
// valid but no profile document exists. Login surfaces this as its own
// actionable message, never as a generic auth failure.
var ErrProfileNotFound = errors.New("profile document not found")

// SessionUser is the per-request identity resolved from the profile
// document and injected into r.Context().
type SessionUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	StateScope string
}

// UserFetcher resolves a fresh SessionUser from the profile document on
// each request, so role changes and deactivations take effect immediately.
// Implementations must return ErrProfileNotFound when the document does
// not exist; any other error is treated as a connectivity failure.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user from the request context and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing session
// middleware. For tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// SessionManager owns the cookie session store, the bearer-token verifier,
// and the profile cache used for the single connectivity fallback.
type SessionManager struct {
	store       *sessions.CookieStore
	sessionName string
	log         *zap.Logger

	fetcher UserFetcher
	cache   *ProfileCache

	tokenSecret []byte
	tokenTTL    time.Duration
}

// NewSessionManager builds a SessionManager with a cookie store signed by
// sessionKey. The secure flag controls Secure + SameSite handling: None in
// production over HTTPS, Lax for local dev over http.
func NewSessionManager(sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide >=32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:       store,
		sessionName: sessionName,
		log:         logger,
		cache:       NewProfileCache(),
	}, nil
}

// SetUserFetcher wires the profile lookup used by LoadSessionUser.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SetTokenSecret enables bearer-token auth for API clients.
func (sm *SessionManager) SetTokenSecret(secret string) { sm.tokenSecret = []byte(secret) }

// SetTokenTTL overrides the lifetime of issued API tokens.
func (sm *SessionManager) SetTokenTTL(ttl time.Duration) { sm.tokenTTL = ttl }

// TokenTTL returns the configured token lifetime, or DefaultTokenTTL
// when none was set.
func (sm *SessionManager) TokenTTL() time.Duration {
	if sm.tokenTTL > 0 {
		return sm.tokenTTL
	}
	return DefaultTokenTTL
}

// IssueAPIToken mints a bearer token for the user, valid for ttl.
func (sm *SessionManager) IssueAPIToken(u *SessionUser, ttl time.Duration) (string, error) {
	if len(sm.tokenSecret) == 0 {
		return "", errors.New("token auth is not configured")
	}
	return IssueToken(sm.tokenSecret, u, ttl)
}

// ResolveProfile loads the profile for userID: a fresh read first, then
// exactly one fallback to the cached copy when the fresh read fails with a
// connectivity-class error. ErrProfileNotFound passes through untouched —
// a missing document is not a connectivity problem and must surface as its
// own condition.
func (sm *SessionManager) ResolveProfile(ctx context.Context, userID string) (*SessionUser, error) {
	if sm.fetcher == nil {
		return nil, errors.New("no user fetcher configured")
	}

	u, err := sm.fetcher.FetchSessionUser(ctx, userID)
	if err == nil {
		sm.cache.Put(u)
		return u, nil
	}
	if errors.Is(err, ErrProfileNotFound) {
		sm.cache.Drop(userID)
		return nil, err
	}

	// Connectivity-class failure: one fallback to the cached copy.
	if cached, ok := sm.cache.Get(userID); ok {
		sm.log.Warn("profile read failed; serving cached profile",
			zap.String("user_id", userID),
			zap.Error(err))
		return cached, nil
	}
	return nil, fmt.Errorf("resolve profile %s: %w", userID, err)
}

// LoadSessionUser injects the user into context if the request carries a
// valid session cookie or bearer token. Corrupt cookies are cleared and
// the request continues unauthenticated.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := sm.userFromSession(w, r); u != nil {
			next.ServeHTTP(w, withUser(r, u))
			return
		}
		if u := sm.userFromBearer(r); u != nil {
			next.ServeHTTP(w, withUser(r, u))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) userFromSession(w http.ResponseWriter, r *http.Request) *SessionUser {
	sess, err := sm.store.Get(r, sm.sessionName)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			// Stale or corrupt cookie (e.g. rotated key): clear it.
			sess.Options.MaxAge = -1
			_ = sess.Save(r, w)
		}
		return nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	userID, _ := sess.Values[userIDKey].(string)
	if userID == "" {
		return nil
	}

	u, err := sm.ResolveProfile(r.Context(), userID)
	if err != nil {
		// Missing profile or unreachable with no cache: the session is
		// invalid. Treat as signed out.
		return nil
	}
	return u
}

func (sm *SessionManager) userFromBearer(r *http.Request) *SessionUser {
	if len(sm.tokenSecret) == 0 {
		return nil
	}
	raw := bearerToken(r)
	if raw == "" {
		return nil
	}
	userID, err := VerifyToken(sm.tokenSecret, raw)
	if err != nil {
		return nil
	}
	u, err := sm.ResolveProfile(r.Context(), userID)
	if err != nil {
		return nil
	}
	return u
}

// SignIn writes the session cookie synchronously. When it returns nil the
// session is persisted and immediately usable; callers never poll for
// propagation.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	sm.cache.Put(u)
	return nil
}

// SignOut clears the session cookie and the cached profile.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	if userID, _ := sess.Values[userIDKey].(string); userID != "" {
		sm.cache.Drop(userID)
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// RequireSignedIn ensures a user is present in context (set by
// LoadSessionUser); otherwise responds 401 with a JSON error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the signed-in user has one of the allowed roles:
// 401 when not signed in, 403 when signed in with the wrong role.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":%q}`+"\n", msg)
}
