package admission

import (
	"errors"
	"strings"
)

var ErrAdmissionDenied = errors.New("unauthorized request")

// DefaultAllowedSubstrings are always trusted: local development hosts,
// hosting platform domains and the production sites.
var DefaultAllowedSubstrings = []string{
	"localhost",
	"127.0.0.1",
	"replit.app",
	"replit.dev",
	"mindbalance.cloud",
	"mindspace.site",
}

// RefererPolicy admits a request when its Referer or Origin header contains
// one of the allow-listed substrings, or when both headers are absent.
//
// Matching is plain substring containment, not an origin parse, so a referer
// such as "https://evil.example/?x=mindspace.site" is admitted.
type RefererPolicy struct {
	allowed []string
}

func NewRefererPolicy(extra ...string) *RefererPolicy {
	allowed := make([]string, 0, len(DefaultAllowedSubstrings)+len(extra))
	allowed = append(allowed, DefaultAllowedSubstrings...)
	for _, s := range extra {
		s = strings.TrimSpace(s)
		if s != "" {
			allowed = append(allowed, s)
		}
	}
	return &RefererPolicy{allowed: allowed}
}

// Check returns ErrAdmissionDenied when neither header carries a trusted substring.
func (p *RefererPolicy) Check(referer, origin string) error {
	if referer == "" && origin == "" {
		return nil
	}
	for _, s := range p.allowed {
		if strings.Contains(referer, s) || strings.Contains(origin, s) {
			return nil
		}
	}
	return ErrAdmissionDenied
}

func (p *RefererPolicy) Allowed() []string {
	out := make([]string, len(p.allowed))
	copy(out, p.allowed)
	return out
}
