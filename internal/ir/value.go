package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a node of the tree a snapshot is lowered to before hashing.
// The set of kinds is closed: Text, Int, Bool, List and Object.
// Pixel geometry is lowered to Int or Text, never to a float.
type Value interface {
	canonValue()
}

// Text is a string leaf. It is NFC-normalized when encoded.
type Text string

// Int is an integer leaf.
type Int int64

// Bool is a boolean leaf.
type Bool bool

// List is an ordered sequence. Element order is part of the fingerprint.
type List []Value

// Object is a keyed record. Keys are emitted in UTF-16 order.
type Object map[string]Value

func (Text) canonValue()   {}
func (Int) canonValue()    {}
func (Bool) canonValue()   {}
func (List) canonValue()   {}
func (Object) canonValue() {}

// Keys returns the object's keys in canonical order.
func (o Object) Keys() []string {
	return sortedKeys(o)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

// compareUTF16 orders strings by UTF-16 code unit, as RFC 8785 requires.
// Byte order differs for characters above the BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
