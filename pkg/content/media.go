package content

import "regexp"

// Recognized embedded-media URL shapes. Each pattern is matched
// independently; anything that merely looks like a media link but fails these
// shapes stays plain text.
var mediaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`https?://(?:www\.)?youtube\.com/shorts/[\w-]+`),
	regexp.MustCompile(`https?://youtu\.be/[\w-]+`),
}

// findMediaRef returns the [start, end) of the leftmost media link in s, or
// nil. Ties between patterns go to the longer match so a link is never split.
func findMediaRef(s string) []int {
	var best []int
	for _, re := range mediaPatterns {
		loc := re.FindStringIndex(s)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] || (loc[0] == best[0] && loc[1] > best[1]) {
			best = loc
		}
	}
	return best
}
