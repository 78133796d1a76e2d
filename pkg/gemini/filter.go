package gemini

import "path"

// filterModels applies whitelist then blacklist glob patterns, preserving
// provider order. An empty whitelist or a lone "*" admits everything; a
// blacklist hit always excludes, even for whitelisted ids.
func filterModels(ids []string, whitelist, blacklist []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !matchAny(whitelist, id, true) {
			continue
		}
		if matchAny(blacklist, id, false) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// matchAny reports whether id matches at least one pattern. emptyMatches
// controls the semantics of an empty pattern list: match-all for whitelists,
// match-none for blacklists. Invalid patterns match nothing.
func matchAny(patterns []string, id string, emptyMatches bool) bool {
	if len(patterns) == 0 {
		return emptyMatches
	}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		ok, err := path.Match(p, id)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
