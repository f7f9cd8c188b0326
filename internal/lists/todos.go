// Package lists implements the todo and note list managers. Each manager
// owns an ordered in-memory sequence and writes the whole sequence through
// to the store on every mutation.
package lists

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sidepad/internal/service"
	"sidepad/internal/store"
)

// TodoList manages the todo sequence stored under store.TodosKey.
type TodoList struct {
	kv    store.KV
	log   *zap.Logger
	items []service.TodoItem
}

// NewTodoList loads the persisted todos.
// If the stored data is unreadable the returned list is empty but usable,
// and the error wraps service.ErrStorageRead.
func NewTodoList(kv store.KV, log *zap.Logger) (*TodoList, error) {
	if log == nil {
		log = zap.NewNop()
	}
	items, err := store.LoadList[service.TodoItem](kv, store.TodosKey)
	if err != nil {
		log.Warn("todos unreadable, starting empty", zap.Error(err))
	}
	return &TodoList{kv: kv, log: log, items: items}, err
}

// Items returns a copy of the current sequence.
func (l *TodoList) Items() []service.TodoItem {
	out := make([]service.TodoItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of todos.
func (l *TodoList) Len() int { return len(l.items) }

// Add appends a new uncompleted todo and returns the updated sequence.
func (l *TodoList) Add(title string) ([]service.TodoItem, error) {
	if strings.TrimSpace(title) == "" {
		return l.Items(), fmt.Errorf("%w: title required", service.ErrValidation)
	}

	next := append(l.Items(), service.TodoItem{Title: title})
	if err := l.commit(next); err != nil {
		return l.Items(), err
	}
	l.log.Debug("todo added", zap.Int("count", len(next)))
	return l.Items(), nil
}

// Remove deletes the todo at index i. Survivors keep their order.
func (l *TodoList) Remove(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d", service.ErrIndexOutOfRange, i)
	}

	next := make([]service.TodoItem, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	if err := l.commit(next); err != nil {
		return err
	}
	l.log.Debug("todo removed", zap.Int("index", i))
	return nil
}

// Complete marks the todo at index i completed.
// Completing an already completed todo is a no-op.
func (l *TodoList) Complete(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: %d", service.ErrIndexOutOfRange, i)
	}
	if l.items[i].Completed {
		return nil
	}

	next := l.Items()
	next[i].Completed = true
	if err := l.commit(next); err != nil {
		return err
	}
	l.log.Debug("todo completed", zap.Int("index", i))
	return nil
}

// commit persists next and only then makes it the in-memory sequence.
func (l *TodoList) commit(next []service.TodoItem) error {
	if err := store.SaveList(l.kv, store.TodosKey, next); err != nil {
		l.log.Error("failed to persist todos", zap.Error(err))
		return err
	}
	l.items = next
	return nil
}
