// Package service defines the backend-agnostic interface for todo operations.
package service

// Item represents a single todo.
type Item struct {
	ID        int64  `json:"id"`
	Text      string `json:"todo"`
	Completed bool   `json:"completed"`
	OwnerID   int64  `json:"userId"`
}

// Draft is the payload for creating a todo. The server assigns the ID.
type Draft struct {
	Text      string `json:"todo"`
	Completed bool   `json:"completed"`
	OwnerID   int64  `json:"userId"`
}

// Fields is a partial update. Only non-nil fields are sent and applied.
type Fields struct {
	Text      *string `json:"todo,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply returns item with the non-nil fields overlaid.
func (f Fields) Apply(item Item) Item {
	if f.Text != nil {
		item.Text = *f.Text
	}
	if f.Completed != nil {
		item.Completed = *f.Completed
	}
	return item
}

// Empty reports whether no field is set.
func (f Fields) Empty() bool {
	return f.Text == nil && f.Completed == nil
}

// Page is the result of fetching the whole collection.
type Page struct {
	Items []Item `json:"todos"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// TextField returns a Fields that sets only the text.
func TextField(text string) Fields {
	return Fields{Text: &text}
}

// CompletedField returns a Fields that sets only the completed flag.
func CompletedField(completed bool) Fields {
	return Fields{Completed: &completed}
}
