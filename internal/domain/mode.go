package domain

import "strings"

// Mode selects which concrete adapter the client factory builds.
type Mode string

const (
	ModeEmbeddedStore Mode = "embedded-store"
	ModeExternalREST  Mode = "external-rest"
)

var modeAliases = map[string]Mode{
	"embedded-store": ModeEmbeddedStore,
	"embedded":       ModeEmbeddedStore,
	"supabase":       ModeEmbeddedStore,
	"external-rest":  ModeExternalREST,
	"rest":           ModeExternalREST,
	"dotnet":         ModeExternalREST,
}

// ParseMode accepts the canonical names and their historical aliases.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", &ConfigError{Key: "API_MODE", Message: "unknown mode " + s}
}
