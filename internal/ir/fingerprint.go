package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// DomainSnapshot separates snapshot fingerprints from any other hash in the system.
// The version suffix changes whenever the fingerprinted field set changes.
const DomainSnapshot = "folio/snapshot/v" + SnapshotVersion

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotFingerprint computes the dedup signature of a snapshot.
//
// Only fields that denote a meaningful edit take part: id, geometry rounded to
// whole pixels (absorbs sub-pixel drag jitter), content, style, and table data.
// ComponentID, ElementType, ZIndex and Visible are ignored.
//
// Element order is significant: a reordered snapshot has a different fingerprint.
func SnapshotFingerprint(s Snapshot) (string, error) {
	arr := make(List, len(s))
	for i, el := range s {
		arr[i] = elementValue(el)
	}

	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("SnapshotFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// Fingerprint is like SnapshotFingerprint but panics on error.
// Every field is mapped to a non-float IR value, so an error is a programming bug.
func Fingerprint(s Snapshot) string {
	fp, err := SnapshotFingerprint(s)
	if err != nil {
		panic(err)
	}
	return fp
}

func elementValue(el Element) Object {
	obj := Object{
		"id":      Text(el.ID),
		"x":       pixelValue(el.X),
		"y":       pixelValue(el.Y),
		"width":   pixelValue(el.Width),
		"height":  pixelValue(el.Height),
		"content": Text(el.Content),
		"style":   styleValue(el.Style),
	}
	if el.TableData != nil {
		obj["table"] = tableValue(el.TableData)
	}
	return obj
}

// pixelValue rounds to the nearest whole pixel.
// NaN and infinities have no integer form and are kept as their string spelling;
// whole values outside the int64 range are spelled out in decimal.
func pixelValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(strconv.FormatFloat(f, 'g', -1, 64))
	}
	r := math.Round(f)
	if math.Abs(r) >= 1<<63 {
		return Text(strconv.FormatFloat(r, 'f', 0, 64))
	}
	return Int(int64(r))
}

// decimalValue encodes a style number as its shortest exact decimal string.
func decimalValue(f float64) Text {
	return Text(strconv.FormatFloat(f, 'g', -1, 64))
}

func styleValue(s Style) Object {
	return Object{
		"fontSize":        decimalValue(s.FontSize),
		"fontFamily":      Text(s.FontFamily),
		"fontWeight":      Text(s.FontWeight),
		"fontStyle":       Text(s.FontStyle),
		"color":           Text(s.Color),
		"backgroundColor": Text(s.BackgroundColor),
		"textAlign":       Text(s.TextAlign),
		"padding":         decimalValue(s.Padding),
		"borderRadius":    decimalValue(s.BorderRadius),
		"borderWidth":     decimalValue(s.BorderWidth),
		"borderColor":     Text(s.BorderColor),
		"fill": Object{
			"color":   Text(s.Fill.Color),
			"opacity": decimalValue(s.Fill.Opacity),
			"enabled": Bool(s.Fill.Enabled),
		},
		"stroke": Object{
			"color":    Text(s.Stroke.Color),
			"opacity":  decimalValue(s.Stroke.Opacity),
			"width":    decimalValue(s.Stroke.Width),
			"position": Text(s.Stroke.Position),
			"style":    Text(s.Stroke.Style),
			"enabled":  Bool(s.Stroke.Enabled),
		},
	}
}

func tableValue(t *TableData) Object {
	rows := make(List, len(t.Rows))
	for i, row := range t.Rows {
		cells := make(List, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = Object{
				"id":      Text(cell.ID),
				"content": Text(cell.Content),
				"rowSpan": Int(cell.RowSpan),
				"colSpan": Int(cell.ColSpan),
				"style":   styleValue(cell.Style),
			}
		}
		rows[i] = Object{
			"id":     Text(row.ID),
			"height": pixelValue(row.Height),
			"cells":  cells,
		}
	}

	widths := make(List, len(t.ColumnWidths))
	for i, w := range t.ColumnWidths {
		widths[i] = pixelValue(w)
	}

	return Object{
		"rows":           rows,
		"columns":        Int(t.Columns),
		"headerRows":     Int(t.HeaderRows),
		"footerRows":     Int(t.FooterRows),
		"columnWidths":   widths,
		"borderCollapse": Bool(t.BorderCollapse),
		"tableStyle":     styleValue(t.TableStyle),
	}
}
