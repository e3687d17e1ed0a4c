package css

// Box side order used by all dimension tables.
const (
	SideTop = iota
	SideRight
	SideBottom
	SideLeft
)

// BoxShorthand maps box-model shorthand to its four longhands in
// top, right, bottom, left order.
type BoxShorthand struct {
	Name  string
	Sides [4]string
}

// Dimensions lists box-model shorthands in the order they are processed.
var Dimensions = [...]BoxShorthand{
	{"margin", [4]string{"margin-top", "margin-right", "margin-bottom", "margin-left"}},
	{"padding", [4]string{"padding-top", "padding-right", "padding-bottom", "padding-left"}},
	{"border-color", [4]string{"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"}},
	{"border-style", [4]string{"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"}},
	{"border-width", [4]string{"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"}},
}

var (
	// BorderSides are shorthands expanded into "-width", "-style" and "-color".
	BorderSides = [...]string{"border", "border-top", "border-right", "border-bottom", "border-left"}

	// BorderStyleProperties are merged back into "border".
	BorderStyleProperties = [...]string{"border-width", "border-style", "border-color"}

	BackgroundProperties = [...]string{
		"background-color",
		"background-image",
		"background-repeat",
		"background-position",
		"background-size",
		"background-attachment",
	}

	ListStyleProperties = [...]string{"list-style-type", "list-style-position", "list-style-image"}

	FontProperties = [...]string{"font-style", "font-variant", "font-weight", "font-size", "line-height", "font-family"}
)

// Font vocabularies, lower case.
var (
	fontStyleKeywords   = keywordSet("normal", "italic", "oblique")
	fontVariantKeywords = keywordSet("normal", "small-caps")
	fontWeightKeywords  = keywordSet("normal", "bold", "bolder", "lighter")
	fontSizeKeywords    = keywordSet(
		"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large",
		"larger", "smaller",
	)
	systemFontKeywords = keywordSet("caption", "icon", "menu", "message-box", "small-caption", "status-bar")
)

type keywords map[string]struct{}

func keywordSet(words ...string) keywords {
	set := make(keywords, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (k keywords) has(word string) bool {
	_, ok := k[word]
	return ok
}

// IsSystemFont reports whether keyword names a system font (lower case expected).
func IsSystemFont(keyword string) bool {
	return systemFontKeywords.has(keyword)
}
