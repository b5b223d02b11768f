package ir

// Element is a single placed item on a page: text, shape, image, table, form field.
//
// The history engine treats elements as opaque values. It only needs to clone
// them and reduce them to a fingerprint (see Fingerprint).
type Element struct {
	ID          string     `json:"id" yaml:"id"`
	ComponentID string     `json:"componentId,omitempty" yaml:"componentId,omitempty"`
	ElementType string     `json:"elementType,omitempty" yaml:"elementType,omitempty"`
	X           float64    `json:"x" yaml:"x"`
	Y           float64    `json:"y" yaml:"y"`
	Width       float64    `json:"width" yaml:"width"`
	Height      float64    `json:"height" yaml:"height"`
	ZIndex      int        `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
	Visible     bool       `json:"visible,omitempty" yaml:"visible,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
	Style       Style      `json:"style" yaml:"style,omitempty"`
	TableData   *TableData `json:"tableData,omitempty" yaml:"tableData,omitempty"`
}

// Style is the visual property record of an element.
type Style struct {
	FontSize        float64     `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontFamily      string      `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontWeight      string      `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"` // "normal" | "bold"
	FontStyle       string      `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty"`   // "normal" | "italic"
	Color           string      `json:"color,omitempty" yaml:"color,omitempty"`
	BackgroundColor string      `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	TextAlign       string      `json:"textAlign,omitempty" yaml:"textAlign,omitempty"` // "left" | "center" | "right"
	Padding         float64     `json:"padding,omitempty" yaml:"padding,omitempty"`
	BorderRadius    float64     `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	BorderWidth     float64     `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
	BorderColor     string      `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	Fill            FillStyle   `json:"fill" yaml:"fill,omitempty"`
	Stroke          StrokeStyle `json:"stroke" yaml:"stroke,omitempty"`
}

// FillStyle is the interior paint of a shape element.
type FillStyle struct {
	Color   string  `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"` // 0.0 to 1.0
	Enabled bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// StrokeStyle is the outline paint of a shape element.
type StrokeStyle struct {
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity  float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Position string  `json:"position,omitempty" yaml:"position,omitempty"` // "center" | "inside" | "outside"
	Style    string  `json:"style,omitempty" yaml:"style,omitempty"`       // "solid" | "dashed" | "dotted"
	Enabled  bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// TableData is the grid model of a table element.
type TableData struct {
	Rows           []TableRow `json:"rows" yaml:"rows"`
	Columns        int        `json:"columns" yaml:"columns"`
	HeaderRows     int        `json:"headerRows,omitempty" yaml:"headerRows,omitempty"`
	FooterRows     int        `json:"footerRows,omitempty" yaml:"footerRows,omitempty"`
	ColumnWidths   []float64  `json:"columnWidths,omitempty" yaml:"columnWidths,omitempty"`
	BorderCollapse bool       `json:"borderCollapse,omitempty" yaml:"borderCollapse,omitempty"`
	TableStyle     Style      `json:"tableStyle" yaml:"tableStyle,omitempty"`
}

// TableRow is one row of a table.
type TableRow struct {
	ID     string      `json:"id" yaml:"id"`
	Cells  []TableCell `json:"cells" yaml:"cells"`
	Height float64     `json:"height,omitempty" yaml:"height,omitempty"`
}

// TableCell is one cell of a table row. RowSpan/ColSpan > 1 marks a merged area.
type TableCell struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	RowSpan int    `json:"rowSpan,omitempty" yaml:"rowSpan,omitempty"`
	ColSpan int    `json:"colSpan,omitempty" yaml:"colSpan,omitempty"`
	Style   Style  `json:"style" yaml:"style,omitempty"`
}

// Snapshot is the ordered element sequence of a document at one point in time.
type Snapshot []Element
