// Package sl holds shared slog attribute helpers
package sl

import "log/slog"

// Err returns a slog.Attr with the error message. A nil error yields an empty value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.String("error", err.Error())
}
