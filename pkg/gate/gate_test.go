package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		status    Status
		requested Route
		want      Route
	}{
		{"anonymous requesting app goes to login", StatusAnonymous, RouteApp, RouteLogin},
		{"anonymous requesting login stays", StatusAnonymous, RouteLogin, RouteLogin},
		{"anonymous requesting challenge goes to login", StatusAnonymous, RouteTwoFactor, RouteLogin},
		{"authenticated requesting app stays", StatusAuthenticated, RouteApp, RouteApp},
		{"authenticated requesting login redirected to app", StatusAuthenticated, RouteLogin, RouteApp},
		{"authenticated requesting challenge redirected to app", StatusAuthenticated, RouteTwoFactor, RouteApp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.status, tt.requested))
		})
	}
}

func TestDecide_PendingPreemptsEverything(t *testing.T) {
	// A pending two-factor challenge wins regardless of destination.
	for _, requested := range []Route{RouteLogin, RouteTwoFactor, RouteApp} {
		assert.Equal(t, RouteTwoFactor, Decide(StatusPendingTwoFactor, requested))
	}
}
