package lists

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sidepad/internal/service"
	"sidepad/internal/store"
)

// NoteList manages the note sequence stored under store.NotesKey.
type NoteList struct {
	kv    store.KV
	log   *zap.Logger
	items []service.NoteItem
}

// NewNoteList loads the persisted notes. See NewTodoList for read errors.
func NewNoteList(kv store.KV, log *zap.Logger) (*NoteList, error) {
	if log == nil {
		log = zap.NewNop()
	}
	items, err := store.LoadList[service.NoteItem](kv, store.NotesKey)
	if err != nil {
		log.Warn("notes unreadable, starting empty", zap.Error(err))
	}
	return &NoteList{kv: kv, log: log, items: items}, err
}

// Items returns a copy of the current sequence.
func (l *NoteList) Items() []service.NoteItem {
	out := make([]service.NoteItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of notes.
func (l *NoteList) Len() int { return len(l.items) }

// Add appends a note and returns the updated sequence.
// Both title and content must be non-blank.
func (l *NoteList) Add(title, content string) ([]service.NoteItem, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return l.Items(), fmt.Errorf("%w: title and content cannot be empty", service.ErrValidation)
	}

	next := append(l.Items(), service.NoteItem{Title: title, Content: content})
	if err := store.SaveList(l.kv, store.NotesKey, next); err != nil {
		l.log.Error("failed to persist notes", zap.Error(err))
		return l.Items(), err
	}
	l.items = next
	l.log.Debug("note added", zap.Int("count", len(next)))
	return l.Items(), nil
}

// Remove deletes the note at index i.
func (l *NoteList) Remove(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d", service.ErrIndexOutOfRange, i)
	}

	next := make([]service.NoteItem, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	if err := store.SaveList(l.kv, store.NotesKey, next); err != nil {
		l.log.Error("failed to persist notes", zap.Error(err))
		return err
	}
	l.items = next
	l.log.Debug("note removed", zap.Int("index", i))
	return nil
}
