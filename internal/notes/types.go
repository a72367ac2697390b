package notes

import "time"

// Note is a single journal entry. CreatedAt is always assigned server-side
// at creation time; the calendar day derived from it is the note's day
// bucket for retrieval and calendar marking.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	// TextHTML is the sanitized markdown rendering of Text. Derived on
	// read, never persisted.
	TextHTML string `json:"textHtml,omitempty"`
}

// CreateNoteParams holds the client-supplied fields for a new note.
// A "date" field is accepted in request bodies for compatibility with the
// browser client but is ignored: the server's clock is authoritative.
type CreateNoteParams struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Date  string `json:"date,omitempty"`
}

// DeleteResult is returned by Delete. The removed note's data is echoed
// back so the caller can confirm what was removed.
type DeleteResult struct {
	Message     string `json:"message"`
	DeletedNote Note   `json:"deletedNote"`
}
