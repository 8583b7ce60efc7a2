package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/havenrealty/agentdesk/internal/api/metrics"
	"github.com/havenrealty/agentdesk/internal/models"
	"github.com/havenrealty/agentdesk/internal/service"
	"github.com/havenrealty/agentdesk/internal/session"
)

const principalKey = "principal"

// Principal identifies the acting agent for the current request. It is
// resolved once by RequireAgent and passed through the request context;
// handlers never read ambient session state.
type Principal struct {
	AccountID int64
	AgentID   int64
	SessionID string
}

// PrincipalFromContext returns the acting agent set by RequireAgent.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := v.(Principal)
	return principal, ok
}

// RequireAgent returns a middleware that admits only authenticated agent
// sessions. Anything else is redirected to the login page.
func RequireAgent(sessions *session.Manager, svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie == "" {
			redirectToLogin(c)
			return
		}

		sess, err := sessions.Parse(cookie)
		if err != nil {
			redirectToLogin(c)
			return
		}

		if sess.Role != models.RoleAgent {
			redirectToLogin(c)
			return
		}

		profile, err := svc.ResolveAgent(c.Request.Context(), sess.AccountID)
		if err != nil {
			c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			c.Abort()
			return
		}
		if profile == nil {
			// Agent role without a profile: stale session, start over.
			redirectToLogin(c)
			return
		}

		c.Set(principalKey, Principal{
			AccountID: sess.AccountID,
			AgentID:   profile.ID,
			SessionID: sess.ID,
		})
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

// MetricsMiddleware records per-route request latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
