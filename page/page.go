// Package page holds the text controls a submission reads from and writes to.
package page

import "sync"

// Element identifiers used by the page.
const (
	PromptID   = "prompt"
	ResponseID = "response"
	ErrorID    = "error"
)

// TextInput is a text control with a value, like an <input>.
type TextInput struct {
	id    string
	mu    sync.RWMutex
	value string
}

// NewTextInput creates an input with the given id and initial value.
func NewTextInput(id, value string) *TextInput {
	return &TextInput{id: id, value: value}
}

// ID returns the element identifier.
func (i *TextInput) ID() string { return i.id }

// Value returns the current text.
func (i *TextInput) Value() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.value
}

// SetValue replaces the current text.
func (i *TextInput) SetValue(v string) {
	i.mu.Lock()
	i.value = v
	i.mu.Unlock()
}

// TextElement is an element whose displayed text can be replaced.
type TextElement struct {
	id     string
	mu     sync.RWMutex
	text   string
	writes int
}

// NewTextElement creates an empty element with the given id.
func NewTextElement(id string) *TextElement {
	return &TextElement{id: id}
}

// ID returns the element identifier.
func (e *TextElement) ID() string { return e.id }

// Text returns the displayed text.
func (e *TextElement) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

// SetText replaces the displayed text.
func (e *TextElement) SetText(s string) {
	e.mu.Lock()
	e.text = s
	e.writes++
	e.mu.Unlock()
}

// Writes counts SetText calls.
func (e *TextElement) Writes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.writes
}

// Document is the set of controls on the prompt page.
type Document struct {
	Prompt   *TextInput
	Response *TextElement
	Error    *TextElement
}

// NewDocument creates the prompt, response and error controls, all empty.
func NewDocument() *Document {
	return &Document{
		Prompt:   NewTextInput(PromptID, ""),
		Response: NewTextElement(ResponseID),
		Error:    NewTextElement(ErrorID),
	}
}
