package models

import "time"

// WorkflowState is the serializable multi-step submission position. Nil means
// the student is not in a workflow.
type WorkflowState struct {
	SelectedForms []string `json:"selected_forms"`
	CurrentIndex  int      `json:"current_index"`
	Verified      bool     `json:"verified"`
}

// Done reports whether every selected form has been submitted.
func (w *WorkflowState) Done() bool {
	return w == nil || w.CurrentIndex >= len(w.SelectedForms)
}

// CurrentForm returns the form key at the workflow index.
func (w *WorkflowState) CurrentForm() (string, bool) {
	if w == nil || w.CurrentIndex < 0 || w.CurrentIndex >= len(w.SelectedForms) {
		return "", false
	}
	return w.SelectedForms[w.CurrentIndex], true
}

// Session is the server-side session record stored in Redis, keyed by the
// opaque cookie value.
type Session struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	AuthProvider AuthProvider   `json:"auth_provider"`
	Role         Role           `json:"role"`
	Workflow     *WorkflowState `json:"workflow,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
