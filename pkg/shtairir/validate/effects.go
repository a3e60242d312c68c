package validate

import "strings"

// validEffectString checks the EffectString grammar: dot-separated segments
// each matching ^[a-z0-9_]+$ or an angle-bracketed placeholder <foo>; the
// final segment may additionally be a bare '*' wildcard.
func validEffectString(s string) bool {
	if s == "" {
		return false
	}
	segments := strings.Split(s, ".")
	for i, seg := range segments {
		last := i == len(segments)-1
		if last && seg == "*" {
			continue
		}
		if isPlaceholderSegment(seg) {
			continue
		}
		if !isSnakeSegment(seg) {
			return false
		}
	}
	return true
}

func isSnakeSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

func isPlaceholderSegment(seg string) bool {
	if len(seg) < 3 || seg[0] != '<' || seg[len(seg)-1] != '>' {
		return false
	}
	return isSnakeSegment(seg[1 : len(seg)-1])
}
