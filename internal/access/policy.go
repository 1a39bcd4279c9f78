// Package access decides which views a session may open.
package access

import (
	"strings"

	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/session"
)

type Decision int

const (
	Allow Decision = iota
	// FallbackLanding means "show the landing view instead", without an error.
	FallbackLanding
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case FallbackLanding:
		return "fallback_landing"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

const (
	PathHome           = "/home"
	PathChefDashboard  = "/chef-dashboard"
	PathAdminDashboard = "/admin-dashboard"
)

type rule struct {
	prefix string
	check  func(session.Session) Decision
}

type Policy struct {
	rules []rule
}

func NewPolicy() *Policy {
	return &Policy{
		rules: []rule{
			{prefix: PathHome, check: func(s session.Session) Decision {
				if s.IsLoggedIn {
					return Allow
				}
				return FallbackLanding
			}},
			{prefix: PathChefDashboard, check: requireRole(user.RoleChef)},
			{prefix: PathAdminDashboard, check: requireRole(user.RoleAdmin)},
		},
	}
}

func requireRole(r user.Role) func(session.Session) Decision {
	return func(s session.Session) Decision {
		if s.HasRole(r) {
			return Allow
		}
		return Forbidden
	}
}

// Authorize applies the first rule whose path matches; unlisted paths are open.
func (p *Policy) Authorize(path string, s session.Session) Decision {
	for _, r := range p.rules {
		if matches(path, r.prefix) {
			return r.check(s)
		}
	}
	return Allow
}

func matches(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
