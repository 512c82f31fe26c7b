package sanitizer

import (
	"slices"

	"github.com/microcosm-cc/bluemonday"
)

// Policy names an allow-list of markup that survives sanitization.
type Policy string

const (
	// RichText keeps a small set of formatting tags and link attributes.
	RichText Policy = "rich_text"
	// PlainText strips every tag and keeps text content only.
	PlainText Policy = "plain_text"
)

type policyRules struct {
	tags    []string
	attrs   []string
	schemes []string
}

// policyTable is the single source of truth for what each policy allows.
var policyTable = map[Policy]policyRules{
	RichText: {
		tags: []string{
			"b", "i", "em", "strong", "p", "br", "ul", "ol", "li",
			"h1", "h2", "h3", "a", "code", "pre",
		},
		attrs:   []string{"href", "target", "rel"},
		schemes: []string{"http", "https", "mailto"},
	},
	PlainText: {},
}

// engines holds the compiled bluemonday policy for every entry of policyTable.
var engines = compileAll(policyTable)

func compileAll(table map[Policy]policyRules) map[Policy]*bluemonday.Policy {
	out := make(map[Policy]*bluemonday.Policy, len(table))
	for name, rules := range table {
		out[name] = compile(rules)
	}
	return out
}

func compile(rules policyRules) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	if len(rules.tags) > 0 {
		p.AllowElements(rules.tags...)
	}
	if len(rules.attrs) > 0 {
		p.AllowAttrs(rules.attrs...).OnElements(rules.tags...)
	}
	if len(rules.schemes) > 0 {
		p.AllowURLSchemes(rules.schemes...)
		p.RequireParseableURLs(true)
		p.AllowRelativeURLs(true)
	}
	// data-* attributes stay rejected: AllowDataAttributes is never called.
	return p
}

// engine returns the compiled policy, falling back to the most restrictive
// one for unknown names.
func engine(p Policy) *bluemonday.Policy {
	if e, ok := engines[p]; ok {
		return e
	}
	return engines[PlainText]
}

// AllowedTags returns a copy of the tags permitted by the policy.
func AllowedTags(p Policy) []string {
	return slices.Clone(policyTable[p].tags)
}

// AllowedAttributes returns a copy of the attributes permitted by the policy.
func AllowedAttributes(p Policy) []string {
	return slices.Clone(policyTable[p].attrs)
}

// Known reports whether p is one of the fixed policies.
func Known(p Policy) bool {
	_, ok := policyTable[p]
	return ok
}
