package server

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// stripFences removes markdown code fences models sometimes wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)

// splitSentences breaks text into trimmed sentences on terminal punctuation.
func splitSentences(text string) []string {
	matches := sentenceRe.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var scoreLineRe = regexp.MustCompile(`(?i)score:\s*(\d{1,3})`)

// parseScore extracts the "Score: X/100" line from feedback text. Missing or
// unparseable scores fall back to 75; parsed values clamp to 0..100.
func parseScore(feedback string) int {
	m := scoreLineRe.FindStringSubmatch(feedback)
	if m == nil {
		return 75
	}
	score := 0
	for _, r := range m[1] {
		score = score*10 + int(r-'0')
	}
	if score > 100 {
		return 100
	}
	return score
}

// truncate caps s at n bytes, backing off to a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripAsterisks removes markdown bold/italic markers models emit despite
// instructions.
func stripAsterisks(s string) string {
	return strings.ReplaceAll(s, "*", "")
}
