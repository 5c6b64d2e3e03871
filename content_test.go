package xiangxinai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{
			name: "text content",
			msg:  &Message{Role: RoleUser, Content: Text("hello")},
			want: `{"role":"user","content":"hello"}`,
		},
		{
			name: "nil content becomes empty string",
			msg:  &Message{Role: RoleAssistant},
			want: `{"role":"assistant","content":""}`,
		},
		{
			name: "multimodal content",
			msg: &Message{Role: RoleUser, Content: Parts{
				NewTextPart("what is this"),
				NewImageURLPart("data:image/jpeg;base64,abc"),
			}},
			want: `{"role":"user","content":[{"type":"text","text":"what is this"},{"type":"image_url","image_url":{"url":"data:image/jpeg;base64,abc"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestMessageUnmarshalJSON(t *testing.T) {
	t.Run("string content", func(t *testing.T) {
		var msg Message
		require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":"hello"}`), &msg))
		assert.Equal(t, RoleUser, msg.Role)
		assert.Equal(t, Text("hello"), msg.Content)
	})

	t.Run("array content", func(t *testing.T) {
		raw := `{"role":"user","content":[{"type":"text","text":"x"},{"type":"image_url","image_url":{"url":"https://example.com/a.jpg"}}]}`
		var msg Message
		require.NoError(t, json.Unmarshal([]byte(raw), &msg))

		parts, ok := msg.Content.(Parts)
		require.True(t, ok)
		require.Len(t, parts, 2)
		assert.Equal(t, "x", parts[0].Text)
		assert.Equal(t, "https://example.com/a.jpg", parts[1].ImageURL.URL)
	})

	t.Run("null and missing content", func(t *testing.T) {
		for _, raw := range []string{`{"role":"assistant","content":null}`, `{"role":"assistant"}`} {
			var msg Message
			require.NoError(t, json.Unmarshal([]byte(raw), &msg))
			assert.Equal(t, Text(""), msg.Content)
		}
	})
}

func TestMessageJSONRoundTrip(t *testing.T) {
	messages := []*Message{
		{Role: RoleSystem, Content: Text("be concise")},
		{Role: RoleUser, Content: Parts{
			NewTextPart("look"),
			NewImageURLPart("data:image/jpeg;base64,xyz"),
		}},
	}

	data, err := json.Marshal(&GuardrailRequest{Model: DefaultModel, Messages: messages})
	require.NoError(t, err)

	var decoded GuardrailRequest
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, DefaultModel, decoded.Model)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, messages[0].Content, decoded.Messages[0].Content)
	assert.Equal(t, messages[1].Content, decoded.Messages[1].Content)
}

func TestIsBlankContent(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    bool
	}{
		{"nil", nil, true},
		{"empty text", Text(""), true},
		{"whitespace text", Text("  \n\t"), true},
		{"non-empty text", Text("hello"), false},
		{"empty parts", Parts{}, true},
		{"non-empty parts", Parts{NewTextPart("x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBlankContent(tt.content))
		})
	}
}
