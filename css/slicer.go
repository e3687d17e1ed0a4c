package css

import (
	"regexp"
	"strings"
)

// Matcher extracts one named component from a composite value. Group selects
// the submatch used as component text, 0 means the whole match. The whole
// match is always consumed.
type Matcher struct {
	Name    string
	Pattern *regexp.Regexp
	Group   int
}

// Component is a single extracted shorthand component.
type Component struct {
	Name  string
	Value string
}

// SliceResult holds extracted components in extraction order and
// whatever was left unconsumed.
type SliceResult struct {
	Components []Component
	Rest       string
}

// Get returns component value by name.
func (r SliceResult) Get(name string) (string, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Slice applies matchers in order, each consuming the first match from what
// is left of value. Consumed text is replaced by a single space so
// neighbouring words never join. Matchers for an already extracted component
// are skipped, unmatched components are simply absent from the result.
func Slice(value string, matchers []Matcher) SliceResult {
	var res SliceResult
	rest := value
	for _, m := range matchers {
		if _, done := res.Get(m.Name); done {
			continue
		}
		loc := m.Pattern.FindStringSubmatchIndex(rest)
		if loc == nil || 2*m.Group+1 >= len(loc) || loc[2*m.Group] < 0 {
			continue
		}
		text := strings.TrimSpace(rest[loc[2*m.Group]:loc[2*m.Group+1]])
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
		if len(text) == 0 {
			continue
		}
		res.Components = append(res.Components, Component{Name: m.Name, Value: text})
	}
	res.Rest = strings.TrimSpace(rest)
	return res
}

const (
	numberRx = `-?(?:\d*\.\d+|\d+)`
	lengthRx = numberRx + `(?:em|ex|px|cm|mm|q|pt|pc|in|rem|ch|vw|vh|vmin|vmax|%)`
	// position and size components also accept unitless numbers
	offsetRx   = numberRx + `(?:[a-z]+|%)?`
	positionRx = `(?:` + offsetRx + `|left|center|right|top|bottom)`
	sizeRx     = `(?:` + offsetRx + `|auto)`
)

var namedColors = []string{
	"aliceblue", "antiquewhite", "aquamarine", "aqua", "azure", "beige", "bisque", "black",
	"blanchedalmond", "blueviolet", "blue", "brown", "burlywood", "cadetblue", "chartreuse",
	"chocolate", "coral", "cornflowerblue", "cornsilk", "crimson", "cyan", "darkblue",
	"darkcyan", "darkgoldenrod", "darkgray", "darkgreen", "darkgrey", "darkkhaki",
	"darkmagenta", "darkolivegreen", "darkorange", "darkorchid", "darkred", "darksalmon",
	"darkseagreen", "darkslateblue", "darkslategray", "darkslategrey", "darkturquoise",
	"darkviolet", "deeppink", "deepskyblue", "dimgray", "dimgrey", "dodgerblue", "firebrick",
	"floralwhite", "forestgreen", "fuchsia", "gainsboro", "ghostwhite", "goldenrod", "gold",
	"gray", "greenyellow", "green", "grey", "honeydew", "hotpink", "indianred", "indigo",
	"ivory", "khaki", "lavenderblush", "lavender", "lawngreen", "lemonchiffon", "lightblue",
	"lightcoral", "lightcyan", "lightgoldenrodyellow", "lightgray", "lightgreen", "lightgrey",
	"lightpink", "lightsalmon", "lightseagreen", "lightskyblue", "lightslategray",
	"lightslategrey", "lightsteelblue", "lightyellow", "limegreen", "lime", "linen", "magenta",
	"maroon", "mediumaquamarine", "mediumblue", "mediumorchid", "mediumpurple",
	"mediumseagreen", "mediumslateblue", "mediumspringgreen", "mediumturquoise",
	"mediumvioletred", "midnightblue", "mintcream", "mistyrose", "moccasin", "navajowhite",
	"navy", "oldlace", "olivedrab", "olive", "orangered", "orange", "orchid", "palegoldenrod",
	"palegreen", "paleturquoise", "palevioletred", "papayawhip", "peachpuff", "peru", "pink",
	"plum", "powderblue", "purple", "rebeccapurple", "red", "rosybrown", "royalblue",
	"saddlebrown", "salmon", "sandybrown", "seagreen", "seashell", "sienna", "silver",
	"skyblue", "slateblue", "slategray", "slategrey", "snow", "springgreen", "steelblue",
	"tan", "teal", "thistle", "tomato", "turquoise", "violet", "wheat", "whitesmoke",
	"white", "yellowgreen", "yellow", "transparent", "currentcolor",
}

var (
	colorPattern = regexp.MustCompile(`(?i)(?:#(?:[0-9a-f]{8}|[0-9a-f]{6}|[0-9a-f]{3,4})\b|(?:rgba?|hsla?)\([^)]*\)|\b(?:` +
		strings.Join(namedColors, "|") + `)\b)`)
	urlPattern        = regexp.MustCompile(`(?i)url\(\s*(?:"[^"]*"|'[^']*'|[^)]*)\s*\)`)
	nonePattern       = regexp.MustCompile(`(?i)\bnone\b`)
	repeatPattern     = regexp.MustCompile(`(?i)\b(?:no-repeat|repeat-x|repeat-y|repeat|space|round)\b`)
	attachmentPattern = regexp.MustCompile(`(?i)\b(?:scroll|fixed|local)\b`)
	positionPattern   = regexp.MustCompile(`(?i)(?:^|\s)(` + positionRx + `(?:\s+` + positionRx + `)?)(?:\s|$)`)
	bgSizePattern     = regexp.MustCompile(`(?i)/\s*((?:cover|contain|initial|inherit|` + sizeRx + `(?:\s+` + sizeRx + `)?))`)
	borderWidthRx     = regexp.MustCompile(`(?i)(?:^|\s)(thin|medium|thick|auto|inherit|0|` + lengthRx + `)(?:[\s;]|$)`)
	borderStyleRx     = regexp.MustCompile(`(?i)\b(?:none|hidden|dotted|dashed|solid|double|groove|ridge|inset|outset)\b`)
	listTypePattern   = regexp.MustCompile(`(?i)\b(?:disc|circle|square|decimal-leading-zero|decimal|lower-roman|upper-roman|` +
		`lower-greek|lower-alpha|lower-latin|upper-alpha|upper-latin|hebrew|armenian|georgian|` +
		`cjk-ideographic|hiragana-iroha|hiragana|katakana-iroha|katakana|none)\b`)
	listPositionPattern = regexp.MustCompile(`(?i)\b(?:inside|outside)\b`)
)

// backgroundMatchers extract background components. url() goes first so
// nothing inside it is mistaken for a keyword, "none" image is looked for last.
var backgroundMatchers = []Matcher{
	{Name: "background-image", Pattern: urlPattern},
	{Name: "background-attachment", Pattern: attachmentPattern},
	{Name: "background-repeat", Pattern: repeatPattern},
	{Name: "background-color", Pattern: colorPattern},
	{Name: "background-size", Pattern: bgSizePattern, Group: 1},
	{Name: "background-position", Pattern: positionPattern, Group: 1},
	{Name: "background-image", Pattern: nonePattern},
}

var listStyleMatchers = []Matcher{
	{Name: "list-style-image", Pattern: urlPattern},
	{Name: "list-style-type", Pattern: listTypePattern},
	{Name: "list-style-position", Pattern: listPositionPattern},
	{Name: "list-style-image", Pattern: nonePattern},
}

// borderMatchers returns matchers for border shorthand named prefix. Colour
// is taken first so numbers inside colour functions are not seen as widths.
func borderMatchers(prefix string) []Matcher {
	return []Matcher{
		{Name: prefix + "-color", Pattern: colorPattern},
		{Name: prefix + "-width", Pattern: borderWidthRx, Group: 1},
		{Name: prefix + "-style", Pattern: borderStyleRx},
	}
}
