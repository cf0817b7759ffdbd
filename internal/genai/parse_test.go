package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want CommentSentiment
	}{
		{
			name: "чистый JSON",
			text: `{"positive": 3, "negative": 1, "neutral": 2, "summary": "mostly positive"}`,
			want: CommentSentiment{Positive: 3, Negative: 1, Neutral: 2, Summary: "mostly positive"},
		},
		{
			name: "JSON в markdown-ограждении",
			text: "```json\n{\"positive\": 5, \"negative\": 0, \"neutral\": 1, \"summary\": \"great\"}\n```",
			want: CommentSentiment{Positive: 5, Neutral: 1, Summary: "great"},
		},
		{
			name: "ограждение без языка",
			text: "```\n{\"positive\": 2, \"negative\": 2, \"neutral\": 0, \"summary\": \"split\"}\n```",
			want: CommentSentiment{Positive: 2, Negative: 2, Summary: "split"},
		},
		{
			name: "JSON внутри прозы",
			text: "Here is the analysis you asked for: {\"positive\": 1, \"negative\": 4, \"neutral\": 0, \"summary\": \"harsh\"} Hope this helps!",
			want: CommentSentiment{Positive: 1, Negative: 4, Summary: "harsh"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CommentSentiment
			require.NoError(t, ParseModelJSON(tt.text, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModelJSON_Array(t *testing.T) {
	var got []string
	err := ParseModelJSON("The keywords are: [\"stream\", \"merch\"] as requested", &got)
	require.NoError(t, err)
	assert.Equal(t, []string{"stream", "merch"}, got)
}

func TestParseModelJSON_NoJSON(t *testing.T) {
	var got CommentSentiment
	err := ParseModelJSON("Sorry, I cannot analyze these comments.", &got)
	assert.ErrorIs(t, err, ErrNoJSON)
}
