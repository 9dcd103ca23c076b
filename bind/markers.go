package bind

// CountMarkers counts the '?' parameter markers in sqlText, skipping
// markers inside single-quoted runs ('' escapes a quote). It is the
// fallback used when a driver cannot report its parameter count, and
// the scanner adapters use to size their argument lists.
func CountMarkers(sqlText string) int {
	n := 0
	inStr := false
	for i := 0; i < len(sqlText); i++ {
		switch sqlText[i] {
		case '\'':
			if inStr && i+1 < len(sqlText) && sqlText[i+1] == '\'' {
				i++ // escaped quote
				continue
			}
			inStr = !inStr
		case '?':
			if !inStr {
				n++
			}
		}
	}
	return n
}
