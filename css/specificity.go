package css

import (
	"cmp"
	"regexp"
	"strings"
)

var (
	classLikeRx = regexp.MustCompile(`(?i)(?:\.\w+)|(?:\[\w+)|(?::(?:link|visited|active|hover|focus|lang|target|enabled|disabled|checked|` +
		`indeterminate|root|nth-child|nth-last-child|nth-of-type|nth-last-of-type|first-child|last-child|` +
		`first-of-type|last-of-type|only-child|only-of-type|empty|contains))`)
	elementLikeRx = regexp.MustCompile(`(?i)(?:(?:^|[\s+>]+)\w+|:(?:first-line|first-letter|before|after))`)
	// arguments of these pseudo-classes are not selectors ("2n+1", "en")
	pseudoArgsRx = regexp.MustCompile(`(?i)(:(?:nth-child|nth-last-child|nth-of-type|nth-last-of-type|lang|contains))\([^)]*\)`)
)

// Specificity is selector weight as (ids, classes, elements).
type Specificity struct {
	IDs      int
	Classes  int
	Elements int
}

// CalculateSpecificity counts id selectors, class/attribute/pseudo-class
// selectors and element/pseudo-element selectors in selector text. This is
// lexical counting, not a selector parser.
func CalculateSpecificity(selector string) Specificity {
	selector = pseudoArgsRx.ReplaceAllString(selector, "$1")
	return Specificity{
		IDs:      strings.Count(selector, "#"),
		Classes:  len(classLikeRx.FindAllStringIndex(selector, -1)),
		Elements: len(elementLikeRx.FindAllStringIndex(selector, -1)),
	}
}

// Compare returns -1, 0 or +1 comparing s with other.
func (s Specificity) Compare(other Specificity) int {
	if c := cmp.Compare(s.IDs, other.IDs); c != 0 {
		return c
	}
	if c := cmp.Compare(s.Classes, other.Classes); c != 0 {
		return c
	}
	return cmp.Compare(s.Elements, other.Elements)
}

// Score packs specificity into a single integer. Ordering is only exact while
// every count stays below 10.
func (s Specificity) Score() int {
	return s.IDs*100 + s.Classes*10 + s.Elements
}
