package lists_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidepad/internal/lists"
	"sidepad/internal/service"
	"sidepad/internal/store"
)

// countingKV wraps a MemoryStore and counts writes.
type countingKV struct {
	*store.MemoryStore
	puts   int
	putErr error
}

func newCountingKV() *countingKV {
	return &countingKV{MemoryStore: store.NewMemory()}
}

func (c *countingKV) Put(key string, value []byte) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.puts++
	return c.MemoryStore.Put(key, value)
}

func persistedTodos(t *testing.T, kv store.KV) []service.TodoItem {
	t.Helper()
	items, err := store.LoadList[service.TodoItem](kv, store.TodosKey)
	require.NoError(t, err)
	return items
}

func persistedNotes(t *testing.T, kv store.KV) []service.NoteItem {
	t.Helper()
	items, err := store.LoadList[service.NoteItem](kv, store.NotesKey)
	require.NoError(t, err)
	return items
}

func TestTodoList_Scenario(t *testing.T) {
	kv := newCountingKV()
	todos, err := lists.NewTodoList(kv, nil)
	require.NoError(t, err)

	got, err := todos.Add("Buy milk")
	require.NoError(t, err)
	assert.Equal(t, []service.TodoItem{{Title: "Buy milk"}}, got)
	assert.Equal(t, got, persistedTodos(t, kv))

	require.NoError(t, todos.Complete(0))
	assert.Equal(t, []service.TodoItem{{Title: "Buy milk", Completed: true}}, persistedTodos(t, kv))

	require.NoError(t, todos.Remove(0))
	assert.Empty(t, todos.Items())
	assert.Equal(t, []service.TodoItem{}, persistedTodos(t, kv))

	raw, _, _ := kv.Get(store.TodosKey)
	assert.Equal(t, `[]`, string(raw))
}

func TestTodoList_AddRoundTrip(t *testing.T) {
	titles := []string{"a", "Buy milk", "  padded  ", "ünïcödé", "line\nbreak"}

	kv := newCountingKV()
	todos, err := lists.NewTodoList(kv, nil)
	require.NoError(t, err)

	for i, title := range titles {
		before := todos.Len()
		got, err := todos.Add(title)
		require.NoError(t, err)
		assert.Len(t, got, before+1)
		assert.Equal(t, title, got[i].Title)
		assert.False(t, got[i].Completed)

		reloaded, err := lists.NewTodoList(kv, nil)
		require.NoError(t, err)
		assert.Equal(t, got, reloaded.Items())
	}
}

func TestTodoList_AddBlankIsNoop(t *testing.T) {
	for _, title := range []string{"", " ", "\t\n"} {
		kv := newCountingKV()
		todos, _ := lists.NewTodoList(kv, nil)

		got, err := todos.Add(title)
		require.ErrorIs(t, err, service.ErrValidation)
		assert.Empty(t, got)
		assert.Equal(t, 0, kv.puts)
	}
}

func TestTodoList_RemovePreservesOrder(t *testing.T) {
	for i := 0; i < 4; i++ {
		kv := newCountingKV()
		todos, _ := lists.NewTodoList(kv, nil)
		for _, title := range []string{"a", "b", "c", "d"} {
			_, err := todos.Add(title)
			require.NoError(t, err)
		}
		before := todos.Items()

		require.NoError(t, todos.Remove(i))
		after := todos.Items()

		require.Len(t, after, len(before)-1)
		assert.Equal(t, before[:i], after[:i])
		assert.Equal(t, before[i+1:], after[i:])
		assert.NotContains(t, after, before[i])
		assert.Equal(t, after, persistedTodos(t, kv))
	}
}

func TestTodoList_OutOfRange(t *testing.T) {
	kv := newCountingKV()
	todos, _ := lists.NewTodoList(kv, nil)
	_, err := todos.Add("a")
	require.NoError(t, err)
	puts := kv.puts

	for _, i := range []int{-1, 1, 5} {
		assert.ErrorIs(t, todos.Remove(i), service.ErrIndexOutOfRange)
		assert.ErrorIs(t, todos.Complete(i), service.ErrIndexOutOfRange)
	}
	assert.Equal(t, puts, kv.puts)
	assert.Equal(t, 1, todos.Len())
}

func TestTodoList_CompleteIdempotent(t *testing.T) {
	kv := newCountingKV()
	todos, _ := lists.NewTodoList(kv, nil)
	_, _ = todos.Add("a")
	_, _ = todos.Add("b")

	require.NoError(t, todos.Complete(1))
	once := todos.Items()
	puts := kv.puts

	require.NoError(t, todos.Complete(1))
	assert.Equal(t, once, todos.Items())
	assert.Equal(t, puts, kv.puts)
	assert.Equal(t, []service.TodoItem{{Title: "a"}, {Title: "b", Completed: true}}, persistedTodos(t, kv))
}

func TestTodoList_FailedSaveKeepsState(t *testing.T) {
	kv := newCountingKV()
	todos, _ := lists.NewTodoList(kv, nil)
	_, _ = todos.Add("a")

	kv.putErr = errors.New("disk full")
	_, err := todos.Add("b")
	require.Error(t, err)
	require.Error(t, todos.Complete(0))
	require.Error(t, todos.Remove(0))

	assert.Equal(t, []service.TodoItem{{Title: "a"}}, todos.Items())
}

func TestTodoList_MalformedStorage(t *testing.T) {
	kv := newCountingKV()
	require.NoError(t, kv.MemoryStore.Put(store.TodosKey, []byte(`{broken`)))

	todos, err := lists.NewTodoList(kv, nil)
	require.ErrorIs(t, err, service.ErrStorageRead)
	require.NotNil(t, todos)
	assert.Equal(t, 0, todos.Len())

	_, err = todos.Add("fresh start")
	require.NoError(t, err)
	assert.Equal(t, []service.TodoItem{{Title: "fresh start"}}, persistedTodos(t, kv))
}

func TestNoteList_AddRoundTrip(t *testing.T) {
	kv := newCountingKV()
	notes, err := lists.NewNoteList(kv, nil)
	require.NoError(t, err)

	got, err := notes.Add("Trip", "Pack sunscreen")
	require.NoError(t, err)
	assert.Equal(t, []service.NoteItem{{Title: "Trip", Content: "Pack sunscreen"}}, got)
	assert.Equal(t, got, persistedNotes(t, kv))

	got, err = notes.Add("Work", "Call Bob\nSend report")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	reloaded, err := lists.NewNoteList(kv, nil)
	require.NoError(t, err)
	assert.Equal(t, got, reloaded.Items())
}

func TestNoteList_AddBlankIsNoop(t *testing.T) {
	tests := []struct {
		title, content string
	}{
		{"", "content"},
		{"title", ""},
		{"  ", "content"},
		{"title", "\n\t"},
		{"", ""},
	}
	for _, tt := range tests {
		kv := newCountingKV()
		notes, _ := lists.NewNoteList(kv, nil)

		got, err := notes.Add(tt.title, tt.content)
		require.ErrorIs(t, err, service.ErrValidation)
		assert.Empty(t, got)
		assert.Equal(t, 0, kv.puts)
	}
}

func TestNoteList_Remove(t *testing.T) {
	kv := newCountingKV()
	notes, _ := lists.NewNoteList(kv, nil)
	_, _ = notes.Add("1", "one")
	_, _ = notes.Add("2", "two")
	_, _ = notes.Add("3", "three")

	require.NoError(t, notes.Remove(1))
	want := []service.NoteItem{{Title: "1", Content: "one"}, {Title: "3", Content: "three"}}
	assert.Equal(t, want, notes.Items())
	assert.Equal(t, want, persistedNotes(t, kv))

	assert.ErrorIs(t, notes.Remove(2), service.ErrIndexOutOfRange)
	assert.ErrorIs(t, notes.Remove(-1), service.ErrIndexOutOfRange)
	assert.Equal(t, 2, notes.Len())
}

func TestNoteList_MalformedStorage(t *testing.T) {
	kv := newCountingKV()
	require.NoError(t, kv.MemoryStore.Put(store.NotesKey, []byte(`[{"title":`)))

	notes, err := lists.NewNoteList(kv, nil)
	require.ErrorIs(t, err, service.ErrStorageRead)
	assert.Equal(t, 0, notes.Len())
}
