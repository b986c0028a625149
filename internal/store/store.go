// Package store is the keyed persistence layer behind the account state.
// It mirrors browser local-storage semantics: reads fall back to the
// caller's default, writes are best-effort and never fail the caller.
package store

// Logical keys. The per-user installation key scopes the record to the
// authenticated email so switching users swaps the visible installation.
const (
	KeyAuth         = "wpsaas.auth"
	KeyInstallation = "wpsaas.server"
)

// InstallationKeyFor returns the per-user installation key.
func InstallationKeyFor(email string) string {
	return KeyInstallation + "." + email
}

// Store reads and writes JSON-serialized values under string keys.
type Store interface {
	// Get unmarshals the value at key into out and reports whether a usable
	// value was found. Absence and parse failures both return false, leaving
	// out for the caller to default.
	Get(key string, out any) bool

	// Put serializes v under key. Failures are logged and swallowed: a full
	// disk or an unreachable backend must not crash the caller.
	Put(key string, v any)
}
