package css

import (
	"fmt"
	"strings"
	"unicode"
)

// SplitBoxValues splits value on whitespace that is not nested inside
// parentheses, so "rgb(0, 0, 0) red" yields two components.
func SplitBoxValues(value string) []string {
	var (
		parts []string
		depth int
		start = -1
	)
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case unicode.IsSpace(r) && depth == 0:
			if start >= 0 {
				parts = append(parts, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, value[start:])
	}
	return parts
}

// ExpandBox applies box-model 1/2/3/4 value rule and returns sides in top,
// right, bottom, left order. Empty or blank value has no components and
// fails the same way as too many components.
func ExpandBox(value string) ([4]string, error) {
	var sides [4]string

	parts := SplitBoxValues(value)
	switch len(parts) {
	case 1:
		sides = [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		sides = [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		sides = [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		sides = [4]string{parts[0], parts[1], parts[2], parts[3]}
	default:
		return sides, fmt.Errorf("%w %q: expected 1 to 4 components, got %d", ErrDimensionParse, value, len(parts))
	}
	return sides, nil
}

// ContractBox returns the shortest box-model value describing sides.
func ContractBox(sides [4]string) string {
	top, right, bottom, left := sides[SideTop], sides[SideRight], sides[SideBottom], sides[SideLeft]
	switch {
	case top == right && right == bottom && bottom == left:
		return top
	case left != right:
		return strings.Join([]string{top, right, bottom, left}, " ")
	case top == bottom:
		return top + " " + left
	default:
		return strings.Join([]string{top, left, bottom}, " ")
	}
}
