package css

import "errors"

var (
	// ErrSourceReference is returned when a rule set is given only one half
	// of its source reference (offset without origin or the other way around).
	ErrSourceReference = errors.New("source offset and origin must be provided together")

	// ErrDimensionParse is returned when a box-model shorthand value does not
	// split into 1, 2, 3 or 4 components.
	ErrDimensionParse = errors.New("cannot parse box-model value")

	// ErrFontSizeMissing is returned when font shorthand has no size.
	ErrFontSizeMissing = errors.New("font shorthand requires font-size")

	// ErrLineHeightMissing is returned when font shorthand has "/" without line-height.
	ErrLineHeightMissing = errors.New("font shorthand requires line-height after '/'")
)
