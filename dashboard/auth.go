package dashboard

// Auth is the shared-secret token gate described in spec.md §4.6 and
// §6: an optional DASHBOARD_TOKEN enables authentication on the WS
// handshake and on HTTP mutation endpoints. Read-only HTTP endpoints
// are always accessible, and the WS handshake token is not re-checked
// for inbound mutation messages once a connection is accepted.
type Auth struct {
	token string
}

// NewAuth wraps a configured token. An empty token disables
// authentication entirely: every check passes.
func NewAuth(token string) Auth {
	return Auth{token: token}
}

// Enabled reports whether a token has been configured.
func (a Auth) Enabled() bool {
	return a.token != ""
}

// Check reports whether candidate matches the configured token. When
// no token is configured, every candidate is accepted.
func (a Auth) Check(candidate string) bool {
	if !a.Enabled() {
		return true
	}
	return candidate == a.token
}
