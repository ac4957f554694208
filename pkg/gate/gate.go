package gate

// Status is the session state the gate routes on. It mirrors
// session.Status without importing it, so the gate stays a pure leaf.
type Status string

const (
	StatusAnonymous        Status = "anonymous"
	StatusPendingTwoFactor Status = "pending_two_factor"
	StatusAuthenticated    Status = "authenticated"
)

// Route is a reachable destination in the presentation layer.
type Route string

const (
	RouteLogin     Route = "login"
	RouteTwoFactor Route = "two_factor_challenge"
	RouteApp       Route = "application"
)

// Decide returns the route the presentation layer must show for the
// given session status and requested destination. It has no side
// effects and must be consulted on every navigation decision rather
// than cached: a pending two-factor challenge can arise mid-session and
// preempts everything.
func Decide(status Status, requested Route) Route {
	switch status {
	case StatusPendingTwoFactor:
		// The challenge preempts all navigation.
		return RouteTwoFactor

	case StatusAuthenticated:
		// Login and challenge screens are meaningless once
		// authenticated; send the user into the application.
		if requested == RouteLogin || requested == RouteTwoFactor {
			return RouteApp
		}
		return requested

	default:
		if isPublic(requested) {
			return requested
		}
		return RouteLogin
	}
}

func isPublic(r Route) bool {
	return r == RouteLogin
}
