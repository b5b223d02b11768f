package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical encodes v as RFC 8785 canonical JSON.
//
// v may be a Value tree or plain Go data built from string, int, int64,
// bool, []any and map[string]any. Keys are sorted by UTF-16 code unit,
// strings are NFC-normalized and HTML characters stay literal.
// Floats and nil are rejected.
func MarshalCanonical(v any) ([]byte, error) {
	var w canonWriter
	if err := w.value(v); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

type canonWriter struct {
	buf bytes.Buffer
}

func (w *canonWriter) value(v any) error {
	switch val := v.(type) {
	case Text:
		return w.text(string(val))
	case string:
		return w.text(val)
	case Int:
		w.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		w.buf.WriteString(strconv.FormatInt(val, 10))
	case int:
		w.buf.WriteString(strconv.Itoa(val))
	case Bool:
		w.buf.WriteString(strconv.FormatBool(bool(val)))
	case bool:
		w.buf.WriteString(strconv.FormatBool(val))
	case List:
		return writeSeq(w, val)
	case []any:
		return writeSeq(w, val)
	case Object:
		return writeMap(w, val)
	case map[string]any:
		return writeMap(w, val)
	case nil:
		return fmt.Errorf("canonical json: null is not allowed")
	case float32, float64:
		return fmt.Errorf("canonical json: float %v is not allowed", val)
	default:
		return fmt.Errorf("canonical json: unsupported type %T", v)
	}
	return nil
}

func writeSeq[E any](w *canonWriter, items []E) error {
	w.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if err := w.value(item); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	w.buf.WriteByte(']')
	return nil
}

func writeMap[V any](w *canonWriter, m map[string]V) error {
	w.buf.WriteByte('{')
	for i, k := range sortedKeys(m) {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if err := w.text(k); err != nil {
			return err
		}
		w.buf.WriteByte(':')
		if err := w.value(m[k]); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	w.buf.WriteByte('}')
	return nil
}

// text writes a NFC-normalized JSON string. Only the quote, the backslash
// and control characters are escaped.
func (w *canonWriter) text(s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	w.buf.Write(restoreSeparators(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})))
	return nil
}

// restoreSeparators undoes the \u2028 and \u2029 escapes encoding/json adds.
// A sequence whose backslash is itself escaped is user text and is kept.
func restoreSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\\' && !escaped && i+5 < len(data) && string(data[i+1:i+5]) == "u202" {
			switch data[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		escaped = c == '\\' && !escaped
		out = append(out, c)
	}
	return out
}
