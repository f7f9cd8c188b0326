package commands

import (
	"errors"
	"testing"
)

func TestParseItemNumber(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr string
	}{
		{[]string{"1"}, 0, ""},
		{[]string{"12", "extra"}, 11, ""},
		{[]string{"007"}, 6, ""},
		{nil, 0, "item number required"},
		{[]string{"0"}, 0, "invalid item number: 0"},
		{[]string{"-1"}, 0, "invalid item number: -1"},
		{[]string{"a1"}, 0, "invalid item number: a1"},
		{[]string{"99999999999999999999999"}, 0, "invalid item number: 99999999999999999999999"},
	}
	for _, tt := range tests {
		got, err := ParseItemNumber(tt.args)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ParseItemNumber(%v) error = %v, want %q", tt.args, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseItemNumber(%v) unexpected error: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseItemNumber(%v) = %d, want %d", tt.args, got, tt.want)
		}
	}

	if _, err := ParseItemNumber(nil); !errors.Is(err, ErrItemNumberRequired) {
		t.Errorf("expected ErrItemNumberRequired, got %v", err)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&ListCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&ListCmd{}); err == nil {
		t.Error("expected duplicate registration error")
	}

	cmd, ok := r.Find("todos")
	if !ok || cmd.Name() != "list" {
		t.Errorf("expected alias lookup to find list, got %v", cmd)
	}
	if all := r.All(); len(all) != 1 {
		t.Errorf("expected 1 unique command, got %d", len(all))
	}
}
