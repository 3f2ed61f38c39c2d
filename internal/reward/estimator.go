package reward

import (
	"strings"
	"unicode/utf8"
)

// Estimate scores a bot reply on [-1, 1] as a cheap quality signal for
// telemetry. Additive heuristic: success keywords +0.4, error keywords
// -0.3, reasonable length +0.2, at least one pictograph +0.1. The
// result is clamped. Pure function.
func Estimate(response string) float64 {
	if response == "" {
		return EmptyResponseReward
	}

	score := 0.0

	if containsAny(response, successKeywords) {
		score += successWeight
	}
	if containsAny(response, errorKeywords) {
		score -= errorWeight
	}

	if n := utf8.RuneCountInString(response); n >= minGoodLength && n <= maxGoodLength {
		score += lengthWeight
	}

	if containsEmoji(response) {
		score += emojiWeight
	}

	return clamp(score, -1, 1)
}

// DetectTaskType buckets a user message into a coarse task type for
// telemetry grouping.
func DetectTaskType(message string) string {
	for _, group := range taskTypePatterns {
		for _, p := range group.patterns {
			if p.MatchString(message) {
				return group.taskType
			}
		}
	}
	return taskTypeGeneral
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// containsEmoji reports whether s holds a rune in the main pictograph
// blocks (U+1F300..U+1F9FF).
func containsEmoji(s string) bool {
	for _, r := range s {
		if r >= 0x1F300 && r <= 0x1F9FF {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
