package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamcap/pkg/cel"
)

func record(fields map[string]interface{}) map[string]interface{} {
	return fields
}

func TestIsRetweet(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]interface{}
		want   bool
	}{
		{
			name:   "retweet-of reference",
			record: record(map[string]interface{}{"retweeted_status": map[string]interface{}{"id_str": "1"}, "text": "plain"}),
			want:   true,
		},
		{
			name:   "leading RT token",
			record: record(map[string]interface{}{"text": "RT @x: hello"}),
			want:   true,
		},
		{
			name:   "embedded RT token",
			record: record(map[string]interface{}{"text": "so true RT @x: hello"}),
			want:   true,
		},
		{
			name:   "plain text",
			record: record(map[string]interface{}{"text": "nothing to see"}),
			want:   false,
		},
		{
			name:   "RT without trailing space",
			record: record(map[string]interface{}{"text": "RTFM"}),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetweet(tt.record))
		})
	}
}

func TestFilterPolicyRetweets(t *testing.T) {
	ctx := context.Background()
	rt := record(map[string]interface{}{"text": "RT @x: hello"})

	excluding := NewFilterPolicy(nil, true, nil)
	ok, err := excluding.Match(ctx, rt)
	require.NoError(t, err)
	assert.False(t, ok)

	including := NewFilterPolicy(nil, false, nil)
	ok, err = including.Match(ctx, rt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFilterPolicyLanguages(t *testing.T) {
	ctx := context.Background()
	enRecord := record(map[string]interface{}{
		"text": "hello",
		"user": map[string]interface{}{"lang": "en"},
	})
	deRecord := record(map[string]interface{}{
		"text": "hallo",
		"user": map[string]interface{}{"lang": "de"},
	})

	p := NewFilterPolicy([]string{"en", "fr"}, false, nil)

	ok, err := p.Match(ctx, enRecord)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Match(ctx, deRecord)
	require.NoError(t, err)
	assert.False(t, ok)

	// Empty allow-set means allow all.
	all := NewFilterPolicy(nil, false, nil)
	ok, err = all.Match(ctx, deRecord)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFilterPolicyMissingUserLang(t *testing.T) {
	p := NewFilterPolicy([]string{"en"}, false, nil)
	ok, err := p.Match(context.Background(), record(map[string]interface{}{"text": "x"}))
	require.NoError(t, err)
	assert.False(t, ok, "records without a user language fail a non-empty allow-set")
}

func TestFilterPolicyExpression(t *testing.T) {
	eval, err := cel.NewEvaluator()
	require.NoError(t, err)
	expr, err := eval.CompileFilter(`record.text.contains("go")`)
	require.NoError(t, err)

	p := NewFilterPolicy(nil, false, expr)
	ctx := context.Background()

	ok, err := p.Match(ctx, record(map[string]interface{}{"text": "golang rocks"}))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Match(ctx, record(map[string]interface{}{"text": "rust rocks"}))
	require.NoError(t, err)
	assert.False(t, ok)
}
