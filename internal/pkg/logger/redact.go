package logger

import "net/url"

// RedactURL masks the password of a connection URL for safe logging.
// "postgres://dex:secret@db:5432/pokedex" → "postgres://dex:xxxxx@db:5432/pokedex"
// Values that are not URLs with credentials are returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
