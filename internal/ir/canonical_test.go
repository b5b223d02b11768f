package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Leaves(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"text", Text("Heading"), `"Heading"`},
		{"go string", "Body", `"Body"`},
		{"int", Int(-240), `-240`},
		{"go int", 12, `12`},
		{"int64", int64(1 << 40), `1099511627776`},
		{"bool", Bool(true), `true`},
		{"go bool", false, `false`},
		{"empty list", List{}, `[]`},
		{"empty object", Object{}, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_ElementObject(t *testing.T) {
	el := Object{
		"y":       Int(40),
		"x":       Int(100),
		"id":      Text("el-1"),
		"content": Text("Title"),
		"style": Object{
			"fontWeight": Text("bold"),
			"fill":       Object{"enabled": Bool(true), "color": Text("#eee")},
		},
	}
	got, err := MarshalCanonical(el)
	require.NoError(t, err)
	assert.Equal(t,
		`{"content":"Title","id":"el-1","style":{"fill":{"color":"#eee","enabled":true},"fontWeight":"bold"},"x":100,"y":40}`,
		string(got))
}

func TestMarshalCanonical_ListOrderKept(t *testing.T) {
	got, err := MarshalCanonical(List{Text("b"), Text("a"), Int(3)})
	require.NoError(t, err)
	assert.Equal(t, `["b","a",3]`, string(got))
}

func TestMarshalCanonical_GoMaps(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"trace":         []any{map[string]any{"seq": 1, "op": "save"}},
		"scenario_name": "drag",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"drag","trace":[{"op":"save","seq":1}]}`, string(got))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		errPart string
	}{
		{"float64", 1.5, "float"},
		{"float32", float32(2), "float"},
		{"nil", nil, "null"},
		{"struct", struct{}{}, "unsupported type"},
		{"nested float", Object{"x": List{Int(1), nil}}, "x: [1]"},
		{"float in go map", map[string]any{"width": 120.5}, "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestMarshalCanonical_ContentEscaping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html stays literal", "<b>Q&A</b>", `"<b>Q&A</b>"`},
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `C:\docs`, `"C:\\docs"`},
		{"newline and tab", "line1\nline2\tend", `"line1\nline2\tend"`},
		{"control char", "a\x01b", `"a\u0001b"`},
		{"line separator literal", "a\u2028b\u2029c", "\"a\u2028b\u2029c\""},
		{"escaped backslash before u2028 text", `\u2028`, `"\\u2028"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(Text(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_NFC(t *testing.T) {
	composed := "Caf\u00e9"
	decomposed := "Cafe\u0301"

	a, err := MarshalCanonical(Object{"content": Text(composed)})
	require.NoError(t, err)
	b, err := MarshalCanonical(Object{"content": Text(decomposed)})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	k1, err := MarshalCanonical(Object{composed: Int(1)})
	require.NoError(t, err)
	k2, err := MarshalCanonical(Object{decomposed: Int(1)})
	require.NoError(t, err)
	assert.Equal(t, string(k1), string(k2))
}

func TestRestoreSeparators(t *testing.T) {
	assert.Equal(t, `"plain"`, string(restoreSeparators([]byte(`"plain"`))))
	assert.Equal(t, "\"\u2028\"", string(restoreSeparators([]byte(`"\u2028"`))))
	assert.Equal(t, `"\\u2029"`, string(restoreSeparators([]byte(`"\\u2029"`))))
	assert.Equal(t, "\"\\\\\u2029\"", string(restoreSeparators([]byte(`"\\\u2029"`))))
}
