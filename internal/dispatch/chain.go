package dispatch

import (
	"streamcap/internal/classify"
)

// Category match strings: key presence is tested on the raw text so
// messages that will be discarded are never fully decoded.
const (
	statusMatch     = `"in_reply_to_user_id_str":`
	limitMatch      = `"limit":{`
	warningMatch    = `"warning":`
	disconnectMatch = `"disconnect":`
)

// NewChain assembles the recognizer chain in decreasing priority order. The
// final catch-all guarantees every message is handled exactly once.
func NewChain(status, limit, warning, disconnect, unrecognized classify.HandlerFunc) classify.Chain {
	return classify.Chain{
		{Name: "status", Match: classify.Contains(statusMatch), Handle: status},
		{Name: "limit", Match: classify.Contains(limitMatch), Handle: limit},
		{Name: "warning", Match: classify.Contains(warningMatch), Handle: warning},
		{Name: "disconnect", Match: classify.Contains(disconnectMatch), Handle: disconnect},
		{Name: "unrecognized", Match: classify.Any(), Handle: unrecognized},
	}
}
