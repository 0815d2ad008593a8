package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nopHandler(context.Context, []byte) Outcome {
	return Continue
}

func testChain() Chain {
	return Chain{
		{Name: "status", Match: Contains(`"in_reply_to_user_id_str":`), Handle: nopHandler},
		{Name: "limit", Match: Contains(`"limit":{`), Handle: nopHandler},
		{Name: "warning", Match: Contains(`"warning":`), Handle: nopHandler},
		{Name: "disconnect", Match: Contains(`"disconnect":`), Handle: nopHandler},
		{Name: "unrecognized", Match: Any(), Handle: nopHandler},
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	chain := testChain()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "status",
			raw:  `{"text":"hi","in_reply_to_user_id_str":null}`,
			want: "status",
		},
		{
			name: "limit notice",
			raw:  `{"limit":{"track":42}}`,
			want: "limit",
		},
		{
			name: "warning",
			raw:  `{"warning":{"code":"FALLING_BEHIND"}}`,
			want: "warning",
		},
		{
			name: "disconnect",
			raw:  `{"disconnect":{"code":7}}`,
			want: "disconnect",
		},
		{
			name: "catch-all",
			raw:  `{"friends":[1,2,3]}`,
			want: "unrecognized",
		},
		{
			name: "higher priority wins when several match",
			raw:  `{"in_reply_to_user_id_str":null,"limit":{"track":1},"warning":"x"}`,
			want: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chain.Classify([]byte(tt.raw))
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestClassifyAlwaysReturnsHandler(t *testing.T) {
	var empty Chain
	r := empty.Classify([]byte("anything"))
	assert.NotNil(t, r.Handle)
	assert.Equal(t, Continue, r.Handle(context.Background(), nil))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "stop", Stop.String())
	assert.Equal(t, "filtered_out", FilteredOut.String())
}
