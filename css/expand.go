package css

import (
	"strings"

	"go.uber.org/zap"
)

func isInherit(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "inherit")
}

func inheritAll(names ...string) []Declaration {
	out := make([]Declaration, 0, len(names))
	for _, name := range names {
		out = append(out, Declaration{Property: name, Value: Value{Text: "inherit"}})
	}
	return out
}

// ordered returns components in the order of names, absent ones are skipped.
func ordered(res SliceResult, names ...string) []Declaration {
	out := make([]Declaration, 0, len(names))
	for _, name := range names {
		if v, ok := res.Get(name); ok {
			out = append(out, Declaration{Property: name, Value: Value{Text: v}})
		}
	}
	return out
}

// expander rewrites shorthand properties of decls in place.
type expander struct {
	name string
	fn   func(decls *Declarations, log *zap.Logger) error
}

// Border must go before dimensions: "border" produces "border-width" and
// friends which are box-model shorthands themselves.
var expanders = [...]expander{
	{"border", expandBorders},
	{"dimensions", expandDimensions},
	{"font", expandFont},
	{"background", expandBackground},
	{"list-style", expandListStyle},
}

// ExpandShorthands expands all known shorthand properties of decls. Work is
// done on a copy which replaces content of decls only when every step
// succeeded, so failed call leaves decls untouched. Calling it again on
// expanded declarations changes nothing.
func ExpandShorthands(decls *Declarations, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	work := decls.Clone()
	for _, e := range expanders {
		if err := e.fn(work, log); err != nil {
			log.Debug("Shorthand expansion failed", zap.String("step", e.name), zap.Error(err))
			return err
		}
	}
	*decls = *work
	return nil
}

func expandBorders(decls *Declarations, log *zap.Logger) error {
	for _, side := range BorderSides {
		v, ok := decls.Get(side)
		if !ok {
			continue
		}
		names := []string{side + "-width", side + "-style", side + "-color"}

		var repl []Declaration
		if isInherit(v.Text) {
			repl = inheritAll(names...)
		} else {
			repl = ordered(Slice(v.Text, borderMatchers(side)), names...)
		}
		log.Debug("Expanding shorthand", zap.String("property", side), zap.String("value", v.Text), zap.Int("longhands", len(repl)))
		decls.Replace(side, repl, true)
	}
	return nil
}

func expandDimensions(decls *Declarations, log *zap.Logger) error {
	for _, box := range Dimensions {
		v, ok := decls.Get(box.Name)
		if !ok {
			continue
		}
		sides, err := ExpandBox(v.Text)
		if err != nil {
			return err
		}
		repl := make([]Declaration, 0, len(sides))
		for i, name := range box.Sides {
			repl = append(repl, Declaration{Property: name, Value: Value{Text: sides[i]}})
		}
		log.Debug("Expanding shorthand", zap.String("property", box.Name), zap.String("value", v.Text))
		decls.Replace(box.Name, repl, true)
	}
	return nil
}

func expandFont(decls *Declarations, log *zap.Logger) error {
	v, ok := decls.Get("font")
	if !ok {
		return nil
	}
	if isInherit(v.Text) {
		decls.Replace("font", inheritAll(FontProperties[:]...), true)
		return nil
	}
	parts, err := ScanFont(v.Text)
	if err != nil {
		return err
	}
	if len(parts.System) > 0 {
		log.Debug("System font cannot be expanded", zap.String("value", v.Text))
		return nil
	}
	log.Debug("Expanding shorthand", zap.String("property", "font"), zap.String("value", v.Text))
	decls.Replace("font", parts.Declarations(), true)
	return nil
}

func expandBackground(decls *Declarations, log *zap.Logger) error {
	v, ok := decls.Get("background")
	if !ok {
		return nil
	}
	var repl []Declaration
	if isInherit(v.Text) {
		repl = inheritAll(BackgroundProperties[:]...)
	} else {
		res := Slice(v.Text, backgroundMatchers)
		if len(res.Rest) > 0 {
			log.Debug("Unrecognized background components", zap.String("value", v.Text), zap.String("rest", res.Rest))
		}
		repl = ordered(res, BackgroundProperties[:]...)
	}
	log.Debug("Expanding shorthand", zap.String("property", "background"), zap.String("value", v.Text), zap.Int("longhands", len(repl)))
	decls.Replace("background", repl, true)
	return nil
}

func expandListStyle(decls *Declarations, log *zap.Logger) error {
	v, ok := decls.Get("list-style")
	if !ok {
		return nil
	}
	var repl []Declaration
	if isInherit(v.Text) {
		repl = inheritAll(ListStyleProperties[:]...)
	} else {
		repl = ordered(Slice(v.Text, listStyleMatchers), ListStyleProperties[:]...)
	}
	log.Debug("Expanding shorthand", zap.String("property", "list-style"), zap.String("value", v.Text), zap.Int("longhands", len(repl)))
	decls.Replace("list-style", repl, true)
	return nil
}
