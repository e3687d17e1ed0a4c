package css

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// contractors run in this order: box-model groups must be merged before
// "border" can pick up the resulting border-width/-style/-color.
var contractors = [...]struct {
	name string
	fn   func(decls *Declarations, log *zap.Logger)
}{
	{"background", createBackgroundShorthand},
	{"dimensions", createDimensionsShorthand},
	{"border", createBorderShorthand},
	{"font", createFontShorthand},
	{"list-style", createListStyleShorthand},
}

// CreateShorthands folds longhand declarations of decls into shorthands
// wherever it can be done without loss. Important longhands never take part.
func CreateShorthands(decls *Declarations, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, c := range contractors {
		c.fn(decls, log)
	}
}

// createShorthandProperties joins values of present non-important
// properties into shorthand. Nothing happens when fewer than two values are
// available.
func createShorthandProperties(decls *Declarations, properties []string, shorthand string, log *zap.Logger) {
	values, merged := collectMergeable(decls, properties)
	if len(values) < 2 {
		return
	}
	value := strings.Join(values, " ")
	log.Debug("Creating shorthand", zap.String("property", shorthand), zap.String("value", value), zap.Strings("from", merged))
	decls.Merge(merged, shorthand, Value{Text: value})
}

func collectMergeable(decls *Declarations, properties []string) (values, names []string) {
	for _, name := range properties {
		v, ok := decls.Get(name)
		if !ok || v.Important {
			continue
		}
		values = append(values, v.Text)
		names = append(names, name)
	}
	return values, names
}

// createBackgroundShorthand handles background-size which may only follow
// position after "/", so position defaults to "0% 0%" when size is present.
func createBackgroundShorthand(decls *Declarations, log *zap.Logger) {
	size, ok := decls.Get("background-size")
	if !ok || size.Important {
		createShorthandProperties(decls, BackgroundProperties[:], "background", log)
		return
	}

	work := decls.Clone()
	work.Set("background-size", Value{Text: "/ " + size.Text})
	if !work.Has("background-position") {
		work.Set("background-position", Value{Text: "0% 0%"})
	}
	values, _ := collectMergeable(work, BackgroundProperties[:])
	if len(values) < 2 {
		return
	}
	createShorthandProperties(work, BackgroundProperties[:], "background", log)
	*decls = *work
}

func createDimensionsShorthand(decls *Declarations, log *zap.Logger) {
	if decls.Len() < len(Dimensions[0].Sides) {
		return
	}
	for _, box := range Dimensions {
		var sides [4]string
		complete := true
		for i, name := range box.Sides {
			v, ok := decls.Get(name)
			if !ok || v.Important {
				complete = false
				break
			}
			sides[i] = v.Text
		}
		if !complete {
			continue
		}
		value := ContractBox(sides)
		log.Debug("Creating shorthand", zap.String("property", box.Name), zap.String("value", value))
		decls.Merge(box.Sides[:], box.Name, Value{Text: value})
	}
}

// createBorderShorthand requires all three of width, style and colour to be
// single valued. Per-side values cannot be expressed by "border".
func createBorderShorthand(decls *Declarations, log *zap.Logger) {
	values := make([]string, 0, len(BorderStyleProperties))
	for _, name := range BorderStyleProperties {
		v, ok := decls.Get(name)
		if !ok || v.Important || len(SplitBoxValues(v.Text)) != 1 {
			return
		}
		values = append(values, v.Text)
	}
	value := strings.Join(values, " ")
	log.Debug("Creating shorthand", zap.String("property", "border"), zap.String("value", value))
	decls.Merge(BorderStyleProperties[:], "border", Value{Text: value})
}

func createFontShorthand(decls *Declarations, log *zap.Logger) {
	font := make(map[string]string, len(FontProperties))
	for _, name := range FontProperties {
		v, ok := decls.Get(name)
		if !ok || v.Important {
			return
		}
		font[name] = v.Text
	}

	var sb strings.Builder
	for _, name := range []string{"font-style", "font-variant", "font-weight"} {
		if font[name] != fontDefault {
			sb.WriteString(font[name])
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(font["font-size"])
	if font["line-height"] != fontDefault {
		sb.WriteByte('/')
		sb.WriteString(font["line-height"])
	}
	sb.WriteByte(' ')
	sb.WriteString(font["font-family"])

	value := whitespaceRun.ReplaceAllString(strings.TrimSpace(sb.String()), " ")
	log.Debug("Creating shorthand", zap.String("property", "font"), zap.String("value", value))
	decls.Merge(FontProperties[:], "font", Value{Text: value})
}

func createListStyleShorthand(decls *Declarations, log *zap.Logger) {
	createShorthandProperties(decls, ListStyleProperties[:], "list-style", log)
}
