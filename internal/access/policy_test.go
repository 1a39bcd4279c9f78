package access

import (
	"testing"

	"github.com/geocoder89/mealhub/internal/domain/user"
	"github.com/geocoder89/mealhub/internal/session"
)

func signedIn(role user.Role) session.Session {
	return session.Session{IsLoggedIn: true, User: &user.Profile{Username: "u", Role: role}}
}

func TestPolicy_Authorize(t *testing.T) {
	p := NewPolicy()
	anon := session.Session{}

	tests := []struct {
		name string
		path string
		sess session.Session
		want Decision
	}{
		{"home_anonymous", "/home", anon, FallbackLanding},
		{"home_user", "/home", signedIn(user.RoleUser), Allow},
		{"chef_as_chef", "/chef-dashboard", signedIn(user.RoleChef), Allow},
		{"chef_subroute", "/chef-dashboard/foods", signedIn(user.RoleChef), Allow},
		{"chef_as_user", "/chef-dashboard", signedIn(user.RoleUser), Forbidden},
		{"chef_as_admin", "/chef-dashboard/special", signedIn(user.RoleAdmin), Forbidden},
		{"chef_anonymous", "/chef-dashboard", anon, Forbidden},
		{"admin_as_admin", "/admin-dashboard", signedIn(user.RoleAdmin), Allow},
		{"admin_as_chef", "/admin-dashboard/manage-orders", signedIn(user.RoleChef), Forbidden},
		{"lookalike_path", "/chef-dashboardx", anon, Allow},
		{"menu_open", "/menu", anon, Allow},
		{"my_orders_open", "/my-orders", anon, Allow},
		{"logged_out_chef", "/chef-dashboard", session.Session{User: &user.Profile{Role: user.RoleChef}}, Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Authorize(tt.path, tt.sess); got != tt.want {
				t.Fatalf("Authorize(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}
