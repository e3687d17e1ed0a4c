package css

import (
	"iter"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var importantSuffix = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

// Value is a raw declaration value with its importance flag.
type Value struct {
	Text      string
	Important bool
}

// NewValue builds Value from raw declaration text. Trailing ";" is dropped
// and "!important" annotation is detected and removed from the text.
func NewValue(raw string) Value {
	text := strings.TrimSpace(raw)
	text = strings.TrimSpace(strings.TrimRight(text, ";"))

	var important bool
	if loc := importantSuffix.FindStringIndex(text); loc != nil {
		important = true
		text = strings.TrimSpace(text[:loc[0]])
	}
	return Value{Text: text, Important: important}
}

// String returns value as it appears in a declaration block.
func (v Value) String() string {
	if v.Important {
		return v.Text + " !important"
	}
	return v.Text
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value
}

// Declarations is an ordered property store. One entry per property, later
// writes overwrite value but keep original position.
// NOTE: not safe for concurrent use.
type Declarations struct {
	order  []string
	values map[string]Value
}

// NewDeclarations creates store populated with decls in order.
func NewDeclarations(decls ...Declaration) *Declarations {
	d := &Declarations{values: make(map[string]Value, len(decls))}
	for _, decl := range decls {
		d.Set(decl.Property, decl.Value)
	}
	return d
}

func normalizeProperty(name string) string {
	return strings.TrimSpace(name)
}

// Len returns number of declarations.
func (d *Declarations) Len() int {
	return len(d.order)
}

// Get returns declaration value for property.
func (d *Declarations) Get(property string) (Value, bool) {
	v, ok := d.values[normalizeProperty(property)]
	return v, ok
}

// Has reports whether property is declared.
func (d *Declarations) Has(property string) bool {
	_, ok := d.values[normalizeProperty(property)]
	return ok
}

// Set stores value for property. Empty value text removes the property.
func (d *Declarations) Set(property string, v Value) {
	property = normalizeProperty(property)
	if len(property) == 0 {
		return
	}
	v.Text = strings.TrimSpace(v.Text)
	if len(v.Text) == 0 {
		d.Delete(property)
		return
	}
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, exists := d.values[property]; !exists {
		d.order = append(d.order, property)
	}
	d.values[property] = v
}

// Delete removes property, reporting whether it was present.
func (d *Declarations) Delete(property string) bool {
	property = normalizeProperty(property)
	if _, ok := d.values[property]; !ok {
		return false
	}
	delete(d.values, property)
	d.order = slices.DeleteFunc(d.order, func(name string) bool { return name == property })
	return true
}

// Names returns property names in declaration order.
func (d *Declarations) Names() []string {
	return slices.Clone(d.order)
}

// All iterates over declarations in order.
func (d *Declarations) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range d.order {
			if !yield(name, d.values[name]) {
				return
			}
		}
	}
}

// Clone returns independent copy of the store.
func (d *Declarations) Clone() *Declarations {
	return &Declarations{
		order:  slices.Clone(d.order),
		values: maps.Clone(d.values),
	}
}

// Equal reports whether both stores hold the same declarations in the same order.
func (d *Declarations) Equal(other *Declarations) bool {
	if d.Len() != other.Len() || !slices.Equal(d.order, other.order) {
		return false
	}
	for _, name := range d.order {
		if d.values[name] != other.values[name] {
			return false
		}
	}
	return true
}

// Format renders declarations as "a: 1; b: 2 !important;". When
// forceImportant is set every declaration is rendered as important.
func (d *Declarations) Format(forceImportant bool) string {
	var sb strings.Builder
	for i, name := range d.order {
		v := d.values[name]
		if forceImportant {
			v.Important = true
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(v.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

func (d *Declarations) String() string {
	return d.Format(false)
}

func (d *Declarations) index(property string) int {
	return slices.Index(d.order, property)
}

// Replace substitutes property with replacements, placing them where property
// was. Replacements with empty text are dropped. When preserveImportance is
// set every replacement inherits importance of the replaced property.
//
// Existing declarations of replacement properties are resolved like the
// cascade would: important beats normal, otherwise the one declared later
// wins. Superseded existing entries are removed. Property itself is always
// removed.
func (d *Declarations) Replace(property string, replacements []Declaration, preserveImportance bool) {
	property = normalizeProperty(property)
	replaced, ok := d.values[property]
	if !ok {
		return
	}

	pos := d.index(property)
	keep := make([]Declaration, 0, len(replacements))
	for _, r := range replacements {
		r.Property = normalizeProperty(r.Property)
		r.Text = strings.TrimSpace(r.Text)
		if len(r.Text) == 0 || len(r.Property) == 0 || r.Property == property {
			continue
		}
		if preserveImportance {
			r.Important = replaced.Important
		}

		existing, exists := d.values[r.Property]
		if exists {
			at := d.index(r.Property)
			switch {
			case existing.Important && !r.Important:
				continue
			case r.Important == existing.Important && at > pos:
				// declared after shorthand, takes precedence
				continue
			}
			d.Delete(r.Property)
			if at < pos {
				pos--
			}
		}
		keep = append(keep, r)
	}

	delete(d.values, property)
	d.order = slices.Delete(d.order, pos, pos+1)

	names := make([]string, 0, len(keep))
	for _, r := range keep {
		if _, dup := d.values[r.Property]; !dup {
			names = append(names, r.Property)
		}
		d.values[r.Property] = r.Value
	}
	d.order = slices.Insert(d.order, pos, names...)
}

// Merge removes every present longhand and stores shorthand at the position
// of the first removed one. A previous declaration of shorthand is dropped.
func (d *Declarations) Merge(longhands []string, shorthand string, v Value) {
	shorthand = normalizeProperty(shorthand)
	d.Delete(shorthand)

	pos := -1
	for _, name := range longhands {
		at := d.index(normalizeProperty(name))
		if at < 0 {
			continue
		}
		if pos < 0 || at < pos {
			pos = at
		}
	}
	for _, name := range longhands {
		d.Delete(name)
	}
	if pos < 0 || pos > len(d.order) {
		pos = len(d.order)
	}

	v.Text = strings.TrimSpace(v.Text)
	if len(v.Text) == 0 {
		return
	}
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	d.values[shorthand] = v
	d.order = slices.Insert(d.order, pos, shorthand)
}
