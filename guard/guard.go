// Package guard screens classification payloads against known attack
// signatures before any network call. It is a best-effort local pre-filter;
// authoritative validation remains the server's responsibility.
package guard

import (
	"regexp"

	"github.com/ztrustlabs/go-inspector-client/apierr"
	"github.com/ztrustlabs/go-inspector-client/events"
)

// signature pairs a human-readable name with its pattern.
type signature struct {
	name    string
	pattern *regexp.Regexp
}

// Ordered: first match wins and is the one reported.
var signatures = []signature{
	{"alert_call", regexp.MustCompile(`(?i)alert\s*\(`)},
	{"script_tag", regexp.MustCompile(`(?is)<script\b.*?</script>`)},
	{"sql_drop_table", regexp.MustCompile(`(?i)drop\s+table`)},
	{"sql_tautology", regexp.MustCompile(`(?i)\b(and|or)\s+[01]=[01]`)},
}

// Guard screens input for adversarial signatures.
type Guard struct {
	recorder events.Recorder
}

// New creates a Guard reporting matches to recorder.
func New(recorder events.Recorder) *Guard {
	return &Guard{recorder: recorder}
}

// Scan checks input against the signature list. On the first match it
// records a suspicious_input_detected event naming the pattern and returns
// an input-rejected error; the request must not be sent.
func (g *Guard) Scan(input string) error {
	for _, sig := range signatures {
		if sig.pattern.MatchString(input) {
			if g.recorder != nil {
				g.recorder.Record(events.TypeSuspiciousInput, events.Detail{
					"pattern": sig.name,
				})
			}
			return apierr.New(apierr.KindInputRejected, "invalid input format detected")
		}
	}
	return nil
}
