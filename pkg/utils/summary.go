package utils

import "strings"

var sentenceEnders = []string{". ", "! ", "? ", "。"}

// FirstSentences extracts up to n leading sentences from free text. Used to
// turn full catalog descriptions into the short summaries user mode may see.
func FirstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" || n <= 0 {
		return ""
	}

	remaining := text
	var out strings.Builder
	for i := 0; i < n; i++ {
		idx, enderLen := nextSentenceEnd(remaining)
		if idx < 0 {
			out.WriteString(remaining)
			remaining = ""
			break
		}
		out.WriteString(remaining[:idx+enderLen])
		remaining = remaining[idx+enderLen:]
		if strings.TrimSpace(remaining) == "" {
			remaining = ""
			break
		}
	}

	return strings.TrimSpace(out.String())
}

func nextSentenceEnd(text string) (int, int) {
	best := -1
	bestLen := 0
	for _, ender := range sentenceEnders {
		if idx := strings.Index(text, ender); idx >= 0 {
			if best == -1 || idx < best {
				best = idx
				bestLen = len(ender)
			}
		}
	}
	return best, bestLen
}
