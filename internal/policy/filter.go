package policy

import (
	"context"
	"strings"

	"streamcap/pkg/cel"
	"streamcap/pkg/fieldpath"
)

// FilterPolicy decides whether an individual status record is emitted.
type FilterPolicy struct {
	languages  map[string]struct{}
	noRetweets bool
	expr       *cel.Filter
}

// NewFilterPolicy builds the emit-eligibility test. An empty language list
// allows all languages; expr is an optional compiled CEL predicate applied
// after the built-in checks.
func NewFilterPolicy(languages []string, noRetweets bool, expr *cel.Filter) *FilterPolicy {
	p := &FilterPolicy{
		noRetweets: noRetweets,
		expr:       expr,
	}
	if len(languages) > 0 {
		p.languages = make(map[string]struct{}, len(languages))
		for _, lang := range languages {
			p.languages[strings.ToLower(lang)] = struct{}{}
		}
	}
	return p
}

// Match reports whether the record passes all configured filters.
func (p *FilterPolicy) Match(ctx context.Context, record map[string]interface{}) (bool, error) {
	if p.noRetweets && IsRetweet(record) {
		return false, nil
	}

	if p.languages != nil {
		lang, _ := fieldpath.ResolveWithDefault(record, "user.lang", "").(string)
		if _, ok := p.languages[strings.ToLower(lang)]; !ok {
			return false, nil
		}
	}

	if p.expr != nil {
		return p.expr.Eval(ctx, record)
	}

	return true, nil
}

// IsRetweet applies the deliberately permissive triple test: a retweet-of
// reference, a leading "RT " token, or " RT " anywhere in the text. The text
// checks can produce false positives; all three are kept on purpose.
func IsRetweet(record map[string]interface{}) bool {
	if _, err := fieldpath.Resolve(record, "retweeted_status"); err == nil {
		return true
	}
	text, _ := fieldpath.ResolveWithDefault(record, "text", "").(string)
	return strings.HasPrefix(text, "RT ") || strings.Contains(text, " RT ")
}
