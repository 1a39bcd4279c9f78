package middlewares

import (
	"net/http"

	"github.com/geocoder89/mealhub/internal/access"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/gin-gonic/gin"
)

type Authorizer interface {
	Authorize(path string, s session.Session) access.Decision
}

const CtxAccessDecision = "access.decision"

// RequireView runs the access policy for the request path. Forbidden aborts with 403;
// a landing fallback is left for the handler to render.
func RequireView(policy Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := policy.Authorize(c.Request.URL.Path, SnapshotFromContext(c))
		c.Set(CtxAccessDecision, decision)

		if decision == access.Forbidden {
			abortError(c, http.StatusForbidden, "forbidden", "Your role cannot open this view")
			return
		}
		c.Next()
	}
}

func DecisionFromContext(c *gin.Context) access.Decision {
	v, ok := c.Get(CtxAccessDecision)
	if !ok {
		return access.Allow
	}
	d, ok := v.(access.Decision)
	if !ok {
		return access.Allow
	}
	return d
}
