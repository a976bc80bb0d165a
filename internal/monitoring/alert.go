package monitoring

import (
	"github.com/rs/zerolog/log"
)

// Alert raises an operator-facing alert (logs for now).
func Alert(message string, labels map[string]string) {
	log.Error().
		Str("alert", message).
		Fields(labels).
		Msg("ALERT: contract workflow issue detected")
}
