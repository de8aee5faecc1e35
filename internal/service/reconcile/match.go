package reconcile

import (
	"fmt"
	"strings"
)

// MatchStrategy decides whether an object key is referenced by the
// concatenated content of a category
type MatchStrategy interface {
	Name() string
	Referenced(references, key string) bool
}

// Strategy names accepted by ParseMatchStrategy
const (
	MatchSubstring = "substring"
	MatchExact     = "exact"
)

// ParseMatchStrategy returns the strategy with the given name
func ParseMatchStrategy(name string) (MatchStrategy, error) {
	switch strings.ToLower(name) {
	case "", MatchSubstring:
		return SubstringMatch{}, nil
	case MatchExact:
		return ExactMatch{}, nil
	default:
		return nil, fmt.Errorf("unknown match strategy %q (supported: substring, exact)", name)
	}
}

// SubstringMatch treats a key as referenced when it occurs anywhere in the
// references. A key that is a suffix of a longer referenced file name
// ("img.png" inside "bigimg.png") therefore counts as referenced.
type SubstringMatch struct{}

func (SubstringMatch) Name() string { return MatchSubstring }

func (SubstringMatch) Referenced(references, key string) bool {
	return strings.Contains(references, key)
}

// ExactMatch treats a key as referenced only when an occurrence is not
// directly preceded or followed by a file name character, so the key is the
// whole path segment run in a URL or markdown link.
type ExactMatch struct{}

func (ExactMatch) Name() string { return MatchExact }

func (ExactMatch) Referenced(references, key string) bool {
	if key == "" {
		return false
	}

	for offset := 0; offset < len(references); {
		i := strings.Index(references[offset:], key)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(key)

		before := start == 0 || !isNameChar(references[start-1])
		after := end == len(references) || !isNameChar(references[end])
		if before && after {
			return true
		}
		offset = start + 1
	}

	return false
}

func isNameChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '.', b == '_', b == '-':
		return true
	}
	return false
}

// FindOrphans returns the keys the strategy does not find in references,
// preserving input order
func FindOrphans(references string, keys []string, strategy MatchStrategy) []string {
	orphans := []string{}
	for _, key := range keys {
		if !strategy.Referenced(references, key) {
			orphans = append(orphans, key)
		}
	}
	return orphans
}
