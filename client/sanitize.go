package client

import "regexp"

// MaxMailLength mirrors the server's MAX_INPUT_LENGTH: oversized
// classification payloads are truncated rather than rejected.
const MaxMailLength = 50000

// Defense in depth, not a substitute for server-side sanitization.
var (
	scriptTagRE    = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	eventHandlerRE = regexp.MustCompile(`(?i)on\w+="[^"]*"`)
)

// sanitizeFields returns a copy of fields with script blocks and inline
// event-handler attributes stripped from every string value. Non-string
// values pass through untouched.
func sanitizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = sanitizeString(s)
			continue
		}
		out[k] = v
	}
	return out
}

func sanitizeString(s string) string {
	s = scriptTagRE.ReplaceAllString(s, "")
	s = eventHandlerRE.ReplaceAllString(s, "")
	return s
}

// truncateMailField caps the classification payload in place.
func truncateMailField(fields map[string]any) {
	if mail, ok := fields["mail"].(string); ok && len(mail) > MaxMailLength {
		fields["mail"] = mail[:MaxMailLength]
	}
}
