package codec

// scanPairs walks body collecting "key": value pairs at any depth. Keys must
// be double quoted; values may be quoted strings or bare tokens. The first
// occurrence of a key wins. Input that does not fit the pattern is skipped
// and an unterminated string ends at the end of the input.
func scanPairs(body []byte) map[string]string {
	pairs := make(map[string]string)

	for i := 0; i < len(body); {
		if body[i] != '"' {
			i++
			continue
		}

		key, next := readQuoted(body, i)
		j := skipSpace(body, next)
		if j >= len(body) || body[j] != ':' {
			// A string that is not followed by a colon is a value or
			// noise; resume scanning after it.
			i = next
			continue
		}

		j = skipSpace(body, j+1)
		var value string
		if j < len(body) && body[j] == '"' {
			value, next = readQuoted(body, j)
		} else {
			value, next = readBare(body, j)
		}

		if _, seen := pairs[key]; !seen {
			pairs[key] = value
		}
		i = next
	}

	return pairs
}

// readQuoted reads the string starting at the quote at body[start]. It
// returns the raw contents, with backslash escapes kept verbatim, and the
// index just past the closing quote.
func readQuoted(body []byte, start int) (string, int) {
	i := start + 1
	for i < len(body) {
		switch body[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return string(body[start+1 : i]), i + 1
		}
		i++
	}
	if i > len(body) {
		i = len(body)
	}
	return string(body[start+1 : i]), i
}

// readBare reads an unquoted value up to the next delimiter.
func readBare(body []byte, start int) (string, int) {
	i := start
	for i < len(body) {
		switch body[i] {
		case ',', '}', ']', '"', '\n', '\r':
			return string(body[start:i]), i
		}
		i++
	}
	return string(body[start:i]), i
}

func skipSpace(body []byte, i int) int {
	for i < len(body) && isSpace(body[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
