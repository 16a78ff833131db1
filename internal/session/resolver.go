package session

import (
	"strings"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Identity is a resolved caller. Username may be empty when the identity
// came from a session record, which stores only id and role.
type Identity struct {
	UserID   uint
	Role     model.UserRole
	Username string
}

// Strategy tries to resolve an identity from one credential carrier.
type Strategy interface {
	Name() string
	Resolve(c *gin.Context) (*Identity, bool)
}

// Resolver walks its strategies in order; the first success wins. The
// order is fixed at construction so precedence is explicit, not an
// accident of code layout.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

func (r *Resolver) Resolve(c *gin.Context) (*Identity, bool) {
	for _, s := range r.strategies {
		if id, ok := s.Resolve(c); ok {
			return id, true
		}
	}
	return nil, false
}

// TokenStrategy resolves a signed stateless token from the token cookie
// or an Authorization bearer header.
type TokenStrategy struct {
	Secret     string
	CookieName string
}

func (s *TokenStrategy) Name() string { return "token" }

func (s *TokenStrategy) Resolve(c *gin.Context) (*Identity, bool) {
	tokenString := ""
	if cookie, err := c.Cookie(s.CookieName); err == nil {
		tokenString = cookie
	}
	if tokenString == "" {
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenString == "" {
		return nil, false
	}

	claims, err := util.ParseJWT(tokenString, s.Secret)
	if err != nil {
		return nil, false
	}

	return &Identity{
		UserID:   claims.UserID,
		Role:     claims.Role,
		Username: claims.Username,
	}, true
}

// SessionStrategy resolves a server-side session from the session cookie
// or, for non-cookie clients, a request header.
type SessionStrategy struct {
	Store      Store
	CookieName string
	HeaderName string
}

func (s *SessionStrategy) Name() string { return "session" }

func (s *SessionStrategy) Resolve(c *gin.Context) (*Identity, bool) {
	sessionID := c.GetHeader(s.HeaderName)
	if sessionID == "" {
		if cookie, err := c.Cookie(s.CookieName); err == nil {
			sessionID = cookie
		}
	}
	if sessionID == "" {
		return nil, false
	}

	rec, ok := s.Store.Get(sessionID)
	if !ok {
		return nil, false
	}

	return &Identity{UserID: rec.UserID, Role: rec.Role}, true
}
