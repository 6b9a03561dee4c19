// Package header finds and disambiguates column labels in noisy grids.
package header

import (
	"fmt"

	"github.com/latspace/mapping-agent/internal/model"
)

// DefaultScanLimit is the number of leading rows considered as header candidates.
const DefaultScanLimit = 20

// Locate returns the 0-based index of the most header-like row among the
// first scanLimit rows. A row scores one point per present string cell; the
// lowest index wins ties and row 0 is the fallback.
func Locate(grid model.RawGrid, scanLimit int) int {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}

	best, bestScore := 0, -1
	for i := 0; i < len(grid) && i < scanLimit; i++ {
		score := 0
		for _, c := range grid[i] {
			if c.IsString() {
				score++
			}
		}
		// Strict comparison keeps the first row reaching the maximum.
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// SkipWarning describes the title rows skipped above the header, or returns
// "" when the header is the first row.
func SkipWarning(headerRow int) string {
	if headerRow <= 0 {
		return ""
	}
	return fmt.Sprintf("Skipped %d title/metadata rows to find headers.", headerRow)
}
