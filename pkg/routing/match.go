package routing

import "strings"

// Match returns the winning location rule for a request path, or nil.
//
// Precedence mirrors nginx: an exact match beats everything; among literal
// prefixes the longest wins (first occurrence breaks ties) and a ^~ winner
// short-circuits regex evaluation; otherwise regex rules are scanned in
// declaration order and the first hit wins; failing that, the prefix winner
// is the last resort.
func (c *ServerConfig) Match(path string) *LocationRule {
	for i := range c.Locations {
		r := &c.Locations[i]
		if r.Kind == MatchExact && r.Matcher == path {
			return r
		}
	}

	var prefix *LocationRule
	for i := range c.Locations {
		r := &c.Locations[i]
		if r.Kind != MatchPrefix || !strings.HasPrefix(path, r.Matcher) {
			continue
		}
		if prefix == nil || len(r.Matcher) > len(prefix.Matcher) {
			prefix = r
		}
	}
	if prefix != nil && prefix.StopOnMatch {
		return prefix
	}

	for i := range c.Locations {
		r := &c.Locations[i]
		if r.Kind == MatchRegex && r.Pattern.MatchString(path) {
			return r
		}
	}
	return prefix
}
