package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeys_StyleFields(t *testing.T) {
	obj := Object{
		"textAlign":       Text("left"),
		"backgroundColor": Text("#fff"),
		"fontSize":        Text("14"),
		"color":           Text("#000"),
		"borderWidth":     Text("1"),
	}
	assert.Equal(t, []string{"backgroundColor", "borderWidth", "color", "fontSize", "textAlign"}, obj.Keys())
}

func TestObjectKeys_UppercaseFirst(t *testing.T) {
	obj := Object{"rowSpan": Int(1), "ID": Text("x"), "id": Text("y"), "RowSpan": Int(2)}
	assert.Equal(t, []string{"ID", "RowSpan", "id", "rowSpan"}, obj.Keys())
}

func TestObjectKeys_Empty(t *testing.T) {
	assert.Empty(t, Object{}.Keys())
}

func TestCompareUTF16(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "width", "width", 0},
		{"prefix first", "fill", "fillColor", -1},
		{"byte order", "x", "y", -1},
		// U+FF5E is above the high surrogate range in UTF-16 but below
		// U+1F600 in UTF-8 byte order.
		{"surrogate pair sorts before BMP tail", "\U0001F600", "\uFF5E", -1},
		{"reverse", "\uFF5E", "\U0001F600", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareUTF16(tt.a, tt.b))
		})
	}
}

func TestValueKinds(t *testing.T) {
	vals := []Value{Text(""), Int(0), Bool(false), List{}, Object{}}
	assert.Len(t, vals, 5)
}
