package cli

// Route identifies a navigable surface of the client. The download and info
// surfaces are public; everything touching the caller's own files requires
// an authenticated session.
type Route string

const (
	RouteLogin         Route = "login"
	RouteRegister      Route = "register"
	RouteFiles         Route = "files"
	RouteUpload        Route = "upload"
	RouteDelete        Route = "delete"
	RouteOwnerDownload Route = "owner-download"
	RouteInfo          Route = "info"
	RouteDownload      Route = "download"
)

// Decision is the outcome of a guard check: either the navigation is
// allowed, or the user is redirected (to the login surface).
type Decision struct {
	Allow      bool
	RedirectTo Route
}

// protectedRoutes gate on session state. The check is a pure predicate over
// (route, authenticated): no server round-trip happens here; token validity
// is judged lazily when the token is actually presented to the API.
var protectedRoutes = map[Route]bool{
	RouteFiles:         true,
	RouteUpload:        true,
	RouteDelete:        true,
	RouteOwnerDownload: true,
}

// CanEnter decides whether a route may be entered given the current session
// state, redirecting unauthenticated users of protected routes to login.
func CanEnter(route Route, authenticated bool) Decision {
	if protectedRoutes[route] && !authenticated {
		return Decision{Allow: false, RedirectTo: RouteLogin}
	}
	return Decision{Allow: true}
}
