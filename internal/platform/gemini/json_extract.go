package gemini

// ExtractJSON returns the first balanced top-level JSON object embedded in
// the input, or "" when none is found. Models occasionally wrap their output
// in prose or code fences despite instructions; this recovers the object
// without caring about the wrapping.
func ExtractJSON(raw string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return ""
}
