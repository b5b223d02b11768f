package history

// ActionTag names the kind of user action that produced a snapshot.
// The set is open; hosts may record tags not listed here.
type ActionTag string

// Known action tags.
const (
	ActionCreateElement     ActionTag = "create_element"
	ActionDeleteElement     ActionTag = "delete_element"
	ActionDragElement       ActionTag = "drag_element"
	ActionResizeElement     ActionTag = "resize_element"
	ActionUpdateContent     ActionTag = "update_content"
	ActionUpdateStyle       ActionTag = "update_style"
	ActionMergeCells        ActionTag = "merge_cells"
	ActionSplitCells        ActionTag = "split_cells"
	ActionAddTableRow       ActionTag = "add_table_row"
	ActionRemoveTableRow    ActionTag = "remove_table_row"
	ActionAddTableColumn    ActionTag = "add_table_column"
	ActionRemoveTableColumn ActionTag = "remove_table_column"

	// ActionElementsChanged is the bulk "document changed" notification from
	// the renderer. It streams during drags and typing, so it is throttled by default.
	ActionElementsChanged ActionTag = "elements_changed"
)

// DefaultContinuousActions are the tags subject to the throttle window
// unless WithContinuousActions overrides them.
var DefaultContinuousActions = []ActionTag{ActionElementsChanged}
