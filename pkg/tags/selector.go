package tags

import (
	"strings"
	"unicode"
)

// Tag is a forum tag candidate supplied by the destination channel.
type Tag struct {
	ID   string
	Name string
}

// Select picks the forum tag that best matches the playlist, applying ranked
// heuristics in order and returning the first hit:
//
//  1. travel type vs candidate name, normalized bidirectional containment
//  2. city contained in candidate name
//  3. title vs normalized candidate name, bidirectional containment
//  4. normalized candidate name contained in description
//  5. first candidate as supplied
//
// A step is skipped when its payload field is empty. Returns nil only for an
// empty candidate set. Pure: same inputs and order, same answer.
func Select(candidates []Tag, travelType, city, title, description string) *Tag {
	if len(candidates) == 0 {
		return nil
	}

	if travelType != "" {
		wanted := normalize(travelType)
		if wanted != "" {
			for i := range candidates {
				name := normalize(candidates[i].Name)
				if name != "" && (strings.Contains(name, wanted) || strings.Contains(wanted, name)) {
					return &candidates[i]
				}
			}
		}
	}

	if city != "" {
		wanted := strings.ToLower(city)
		for i := range candidates {
			if strings.Contains(strings.ToLower(candidates[i].Name), wanted) {
				return &candidates[i]
			}
		}
	}

	if title != "" {
		wanted := strings.ToLower(title)
		for i := range candidates {
			name := normalize(candidates[i].Name)
			if name != "" && (strings.Contains(wanted, name) || strings.Contains(name, wanted)) {
				return &candidates[i]
			}
		}
	}

	if description != "" {
		wanted := strings.ToLower(description)
		for i := range candidates {
			name := normalize(candidates[i].Name)
			if name != "" && strings.Contains(wanted, name) {
				return &candidates[i]
			}
		}
	}

	return &candidates[0]
}

// normalize lowercases and strips everything except letters, digits, and
// spaces, so decorated tag names like "🍜 Food & Drink" still match.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
