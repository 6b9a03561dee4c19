package header

import "strconv"

// Dedupe renames repeated labels so every entry is unique. The first
// occurrence of a label is kept; later ones get ".N" where N is the
// occurrence index (second "Temp" becomes "Temp.1"). If a generated name is
// already used by another label, N advances until it is free.
func Dedupe(headers []string) []string {
	taken := make(map[string]bool, len(headers))
	for _, h := range headers {
		taken[h] = true
	}

	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}

		candidate := h + "." + strconv.Itoa(n)
		for taken[candidate] {
			n++
			candidate = h + "." + strconv.Itoa(n)
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}
