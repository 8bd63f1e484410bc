package keyboard

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var hexControlPattern = regexp.MustCompile(`^0x([0-9a-f]{2})$`)

// Normalize applies the complete normalization rule set from
// spec.md §4.3 to a raw key string and returns the canonical token,
// or "" if the key should be dropped.
func Normalize(raw string) string {
	s := raw
	if strings.HasPrefix(s, "key.") {
		s = s[len("key."):]
	}
	if len(s) > 1 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		s = s[1 : len(s)-1]
	}
	return normalizeKeyStr(s)
}

func normalizeKeyStr(name string) string {
	lower := strings.ToLower(name)

	if m := hexControlPattern.FindStringSubmatch(lower); m != nil {
		code, _ := strconv.ParseInt(m[1], 16, 32)
		if code >= 1 && code <= 26 {
			return string(rune(code + 96))
		}
		return lower
	}

	if utf8.RuneCountInString(name) == 1 {
		r := []rune(name)[0]
		if r >= 1 && r <= 26 {
			return string(r + 96)
		}
	}

	return normalizeModifierName(strings.TrimSpace(name))
}

func normalizeModifierName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "ctrl"), strings.Contains(lower, "control"):
		return "ctrl"
	case strings.Contains(lower, "shift"):
		return "shift"
	case strings.Contains(lower, "alt"):
		return "alt"
	case strings.Contains(lower, "cmd"), strings.Contains(lower, "win"), strings.Contains(lower, "meta"):
		return "cmd"
	default:
		return lower
	}
}
