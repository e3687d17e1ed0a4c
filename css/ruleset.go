package css

import (
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"
)

// Offset is a [Start, End) byte range of a rule set in its origin.
type Offset struct {
	Start int
	End   int
}

func (o Offset) String() string {
	return fmt.Sprintf("%d-%d", o.Start, o.End)
}

// RuleSet is a group of selectors sharing one declaration block.
// NOTE: not safe for concurrent modification.
type RuleSet struct {
	selectors   []string
	specificity *int
	offset      *Offset
	origin      string
	decls       *Declarations
	log         *zap.Logger
}

type ruleSetOptions struct {
	block       *string
	decls       *Declarations
	specificity *int
	offset      *Offset
	origin      *string
	log         *zap.Logger
}

// RuleSetOption configures NewRuleSet.
type RuleSetOption func(*ruleSetOptions)

// WithBlock populates declarations by parsing "property: value; ..." text.
func WithBlock(block string) RuleSetOption {
	return func(o *ruleSetOptions) {
		o.block = &block
	}
}

// WithDeclarations populates declarations from a copy of decls.
func WithDeclarations(decls *Declarations) RuleSetOption {
	return func(o *ruleSetOptions) {
		o.decls = decls
	}
}

// WithSpecificity sets precomputed specificity reported for every selector.
func WithSpecificity(specificity int) RuleSetOption {
	return func(o *ruleSetOptions) {
		o.specificity = &specificity
	}
}

// WithOffset sets source range of the rule set, requires WithOrigin.
func WithOffset(offset Offset) RuleSetOption {
	return func(o *ruleSetOptions) {
		o.offset = &offset
	}
}

// WithOrigin names where rule set came from (file name, URL), requires WithOffset.
func WithOrigin(origin string) RuleSetOption {
	return func(o *ruleSetOptions) {
		o.origin = &origin
	}
}

// WithLogger sets logger used when shorthands are expanded or created.
func WithLogger(log *zap.Logger) RuleSetOption {
	return func(o *ruleSetOptions) {
		o.log = log
	}
}

// NewRuleSet creates rule set for comma separated selectors.
// NOTE: commas inside functional pseudo-classes (":is(a, b)") are not
// recognized and split the selector.
func NewRuleSet(selectors string, options ...RuleSetOption) (*RuleSet, error) {
	opts := &ruleSetOptions{}
	for _, setOpt := range options {
		setOpt(opts)
	}
	if (opts.offset == nil) != (opts.origin == nil) {
		return nil, ErrSourceReference
	}

	rs := &RuleSet{
		selectors:   splitSelectors(selectors),
		specificity: opts.specificity,
		offset:      opts.offset,
		log:         opts.log,
	}
	if rs.log == nil {
		rs.log = zap.NewNop()
	}
	if opts.origin != nil {
		rs.origin = *opts.origin
	}

	switch {
	case opts.block != nil:
		rs.decls = NewParser(rs.log).ParseDeclarations(*opts.block)
	case opts.decls != nil:
		rs.decls = opts.decls.Clone()
	default:
		rs.decls = NewDeclarations()
	}
	return rs, nil
}

func splitSelectors(selectors string) []string {
	var out []string
	for s := range strings.SplitSeq(selectors, ",") {
		if s = strings.TrimSpace(s); len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Selectors returns selector list.
func (r *RuleSet) Selectors() []string {
	return append([]string(nil), r.selectors...)
}

// Declarations gives direct access to declaration store.
func (r *RuleSet) Declarations() *Declarations {
	return r.decls
}

// Source returns source range and origin, ok is false when rule set was
// created without them.
func (r *RuleSet) Source() (offset Offset, origin string, ok bool) {
	if r.offset == nil {
		return Offset{}, "", false
	}
	return *r.offset, r.origin, true
}

// GetValue returns "value;" or "value !important;" for property, empty
// string when property is not declared.
func (r *RuleSet) GetValue(property string) string {
	v, ok := r.decls.Get(property)
	if !ok {
		return ""
	}
	return v.String() + ";"
}

// AddDeclaration sets property value. Value may carry its own "!important".
func (r *RuleSet) AddDeclaration(property, value string, important bool) {
	v := NewValue(value)
	v.Important = v.Important || important
	r.decls.Set(property, v)
}

// Delete removes property.
func (r *RuleSet) Delete(property string) {
	r.decls.Delete(property)
}

// EachSelectorOptions controls EachSelector output.
type EachSelectorOptions struct {
	ForceImportant bool
}

// SelectorInfo is what EachSelector yields for every selector.
type SelectorInfo struct {
	Selector     string
	Declarations string
	Specificity  int
}

// EachSelector iterates over selectors with rendered declarations and
// specificity (precomputed one when set, otherwise derived from selector text).
func (r *RuleSet) EachSelector(opts EachSelectorOptions) iter.Seq[SelectorInfo] {
	return func(yield func(SelectorInfo) bool) {
		decls := r.decls.Format(opts.ForceImportant)
		for _, sel := range r.selectors {
			info := SelectorInfo{Selector: sel, Declarations: decls}
			if r.specificity != nil {
				info.Specificity = *r.specificity
			} else {
				info.Specificity = CalculateSpecificity(sel).Score()
			}
			if !yield(info) {
				return
			}
		}
	}
}

// EachDeclaration iterates over declarations in store order.
func (r *RuleSet) EachDeclaration() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		for name, v := range r.decls.All() {
			if !yield(Declaration{Property: name, Value: v}) {
				return
			}
		}
	}
}

// Format renders rule set as "sel1,sel2 { decl1; decl2; }".
func (r *RuleSet) Format(forceImportant bool) string {
	if r.decls.Len() == 0 {
		return strings.Join(r.selectors, ",") + " { }"
	}
	return strings.Join(r.selectors, ",") + " { " + r.decls.Format(forceImportant) + " }"
}

func (r *RuleSet) String() string {
	return r.Format(false)
}

// ExpandShorthand replaces shorthand declarations with longhands. On error
// declarations are left as they were.
func (r *RuleSet) ExpandShorthand() error {
	if err := ExpandShorthands(r.decls, r.log); err != nil {
		return fmt.Errorf("unable to expand shorthands for %q: %w", strings.Join(r.selectors, ","), err)
	}
	return nil
}

// CreateShorthand folds longhand declarations into shorthands.
func (r *RuleSet) CreateShorthand() {
	CreateShorthands(r.decls, r.log)
}
