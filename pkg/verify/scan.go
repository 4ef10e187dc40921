package verify

import (
	"strconv"
	"strings"
)

// ScanClasses extracts class names from compiled CSS: every '.' followed by
// an identifier. Backslash escapes are decoded, so ".hover\:bg-black" yields
// "hover:bg-black". Numbers such as "0.5rem" and the synthetic placeholder
// selectors are skipped. The result is deduplicated in first-seen order.
func ScanClasses(css string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)

	for i := 0; i < len(css); i++ {
		switch css[i] {
		case '/':
			if i+1 < len(css) && css[i+1] == '*' {
				end := strings.Index(css[i+2:], "*/")
				if end < 0 {
					return out
				}
				i += end + 3
			}
			continue
		case '.':
		default:
			continue
		}

		if i+1 >= len(css) {
			break
		}
		next := css[i+1]
		if next >= '0' && next <= '9' {
			continue
		}
		if next == '-' && i+2 < len(css) && css[i+2] >= '0' && css[i+2] <= '9' {
			continue
		}

		name, n := readIdent(css[i+1:])
		if name == "" {
			continue
		}
		i += n
		if strings.HasPrefix(name, tempSelectorPrefix) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// readIdent reads a CSS identifier at the start of s and returns its
// decoded value and the number of bytes consumed.
func readIdent(s string) (string, int) {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return sb.String(), i
			}
			r, n := decodeEscape(s[i+1:])
			sb.WriteString(r)
			i += 1 + n
		case isIdentByte(c):
			sb.WriteByte(c)
			i++
		default:
			return sb.String(), i
		}
	}
	return sb.String(), i
}

// decodeEscape decodes the escape following a backslash: up to six hex
// digits and one optional trailing space, or a single literal character.
func decodeEscape(s string) (string, int) {
	n := 0
	for n < len(s) && n < 6 && isHex(s[n]) {
		n++
	}
	if n == 0 {
		return s[:1], 1
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return s[:n], n
	}
	if n < len(s) && (s[n] == ' ' || s[n] == '\t' || s[n] == '\n') {
		n++
	}
	return string(rune(v)), n
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_' ||
		c >= 0x80
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
