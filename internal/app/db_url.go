package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL tacks disable_prepared_binary_result=yes onto the DSN when
// the deployment asks for it. An explicit value in the URL always wins.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL extracts the database name for trace attributes. Handles
// both postgres:// URLs and key=value connection strings.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if parsed, err := url.Parse(trimmed); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"' `); name != "" {
			return name
		}
	}

	return ""
}
