package loader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/napolitain/solver-oasis/internal/models"
)

var countRegex = regexp.MustCompile(`\b(\d+)\b`)

// ParseOasisText reads a pasted oasis report. Every known animal starts at 0;
// a line naming an animal sets its count to the first standalone number on
// that line. Names match case-insensitively, so plurals like "Rats" count.
func ParseOasisText(text string, catalog models.DefenderCatalog) models.DefenseComposition {
	composition := make(models.DefenseComposition, len(catalog))
	for _, d := range catalog {
		composition[d.Name] = 0
	}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, d := range catalog {
			if !strings.Contains(lower, strings.ToLower(d.Name)) {
				continue
			}
			m := countRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			composition[d.Name] = n
		}
	}
	return composition
}
