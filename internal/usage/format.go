package usage

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// valueWidth is the column width usage values are right-aligned to.
const valueWidth = 8

// Resolver maps a user id to the name shown for it.
type Resolver interface {
	Resolve(id UserID) (string, error)
}

// ResolveNames resolves every ranked user in order. It fails on the first id
// without a display name; dropping that user would misalign names and values.
func ResolveNames(ranked Ranked, r Resolver) ([]string, error) {
	names := make([]string, len(ranked))
	for i, e := range ranked {
		name, err := r.Resolve(e.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve display name for uid %d", e.ID)
		}
		names[i] = name
	}
	return names, nil
}

// FormatNames returns the display names of ranked, one per line.
func FormatNames(ranked Ranked, r Resolver) (string, error) {
	names, err := ResolveNames(ranked, r)
	if err != nil {
		return "", err
	}
	return strings.Join(names, "\n"), nil
}

// FormatValues returns the usage of ranked, one per line, with two decimals
// right-aligned to a fixed width. Line i matches line i of FormatNames.
func FormatValues(ranked Ranked) string {
	lines := make([]string, len(ranked))
	for i, e := range ranked {
		lines[i] = formatValue(e.Mean)
	}
	return strings.Join(lines, "\n")
}

func formatValue(v float64) string {
	return fmt.Sprintf("%*.2f", valueWidth, v)
}
