package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grecsai/grecs/internal/session"
)

const sessionKey = "session"

// withSession resolves the caller's live session from a bearer token or
// the session cookie. Anonymous requests get none until a handler stores
// state through ensureSession.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := s.requestToken(c); tok != "" {
			if sid, err := s.deps.Gate.ParseToken(tok); err == nil {
				if sess, ok := s.deps.Sessions.Get(sid); ok {
					c.Set(sessionKey, sess)
				}
			}
		}
		c.Next()
	}
}

// ensureSession returns the caller's live session, creating one when the
// request carried none. The token of a new session is set as the cookie
// and returned; it is empty for an existing session.
func (s *Server) ensureSession(c *gin.Context) (*session.Context, string, error) {
	if sess := liveSession(c); sess != nil {
		return sess, "", nil
	}
	sess := s.deps.Sessions.Create()
	tok, err := s.deps.Gate.IssueToken(sess.ID)
	if err != nil {
		s.deps.Sessions.End(sess.ID)
		return nil, "", err
	}
	s.setSessionCookie(c, tok)
	c.Header("X-Session-Token", tok)
	c.Set(sessionKey, sess)
	return sess, tok, nil
}

// writableSession is ensureSession for page handlers. It answers 500
// itself and returns nil when no session could be created.
func (s *Server) writableSession(c *gin.Context) *session.Context {
	sess, _, err := s.ensureSession(c)
	if err != nil {
		s.logger.Error("issue session token", "error", err)
		c.String(http.StatusInternalServerError, "could not start a session")
		return nil
	}
	return sess
}

// requireAuth stops requests from sessions that have not passed a closed
// gate. Pages redirect to the login form; the API answers 401.
func (s *Server) requireAuth(api bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Gate.Open() || authenticated(c) {
			c.Next()
			return
		}
		if api {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

func (s *Server) requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	tok, err := c.Cookie(s.cfg.CookieName)
	if err != nil {
		return ""
	}
	return tok
}

func (s *Server) setSessionCookie(c *gin.Context, tok string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, tok, 0, "/", "", s.cfg.SecureCookie, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, "", -1, "/", "", s.cfg.SecureCookie, true)
}

func liveSession(c *gin.Context) *session.Context {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	return v.(*session.Context)
}

func authenticated(c *gin.Context) bool {
	sess := liveSession(c)
	return sess != nil && sess.Authenticated()
}

// currentSession returns the live session for reading. Anonymous callers
// get an empty context that is never registered.
func currentSession(c *gin.Context) *session.Context {
	if sess := liveSession(c); sess != nil {
		return sess
	}
	return session.NewContext()
}
