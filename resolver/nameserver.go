package resolver

import "math/rand"

// nameserverList holds the configured nameservers for one request,
// optionally shuffled once at request start (ns_random).
type nameserverList struct {
	servers []string
	idx     int
}

func newNameserverList(servers []string, shuffle bool) *nameserverList {
	ordered := append([]string(nil), servers...)
	if shuffle {
		rand.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}
	return &nameserverList{servers: ordered}
}

// current returns the nameserver the resolver is presently attempting,
// or "", false once the list is exhausted.
func (l *nameserverList) current() (string, bool) {
	if l.idx >= len(l.servers) {
		return "", false
	}
	return l.servers[l.idx], true
}

// advance moves to the next configured nameserver.
func (l *nameserverList) advance() {
	l.idx++
}

// shouldAdvance is the single decision point (spec §4.7, resolving the
// retry_servfail open question per SPEC_FULL.md §4.7) for whether a
// failed attempt should move on to the next nameserver. Timeouts and
// network errors always advance; SERVFAIL/REFUSED advance only when
// retryServfail is false — a server that is up but explicitly refusing
// or failing a query may be worth re-querying as configured, rather
// than always treated the same as an unreachable one.
func shouldAdvance(outcome attemptOutcome, retryServfail bool) bool {
	switch outcome {
	case outcomeTimeout, outcomeNetworkError:
		return true
	case outcomeServfailOrRefused:
		return !retryServfail
	default:
		return false
	}
}

// attemptOutcome classifies why a per-server attempt did not complete
// the request, feeding shouldAdvance's rotation decision.
type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeTimeout
	outcomeNetworkError
	outcomeServfailOrRefused
)
