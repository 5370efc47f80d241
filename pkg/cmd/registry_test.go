package cmd

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type stubCommand struct {
	name string
	ran  *int
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return s.name + " command" }
func (s *stubCommand) Run(ctx context.Context, inv *Invocation) error {
	if s.ran != nil {
		*s.ran++
	}
	return nil
}

func TestRegistryDuplicatePolicy(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		r := NewRegistry(DuplicateReject)
		if err := r.Register(&stubCommand{name: "ping"}); err != nil {
			t.Fatalf("first register: %v", err)
		}
		err := r.Register(&stubCommand{name: "ping"})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		if r.Len() != 1 {
			t.Errorf("expected 1 command, got %d", r.Len())
		}
	})

	t.Run("override keeps last and original position", func(t *testing.T) {
		r := NewRegistry(DuplicateOverride)
		first := &stubCommand{name: "stats"}
		last := &stubCommand{name: "stats"}
		_ = r.Register(first)
		_ = r.Register(&stubCommand{name: "help"})
		if err := r.Register(last); err != nil {
			t.Fatalf("override register: %v", err)
		}

		got, ok := r.Get("stats")
		if !ok || got != last {
			t.Fatalf("expected last registered command to win")
		}
		order := r.InOrder()
		if order[0] != last || order[1].Name() != "help" {
			t.Errorf("unexpected order: %v, %v", order[0].Name(), order[1].Name())
		}
	})
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry(DuplicateReject)
	for _, n := range []string{"teams", "cleaner", "ping"} {
		_ = r.Register(&stubCommand{name: n})
	}
	want := []string{"cleaner", "ping", "teams"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	all := r.GetAll()
	for i, c := range all {
		if c.Name() != want[i] {
			t.Errorf("GetAll()[%d] = %s, want %s", i, c.Name(), want[i])
		}
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", DuplicateReject, false},
		{"reject", DuplicateReject, false},
		{"override", DuplicateOverride, false},
		{"merge", DuplicateReject, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapAndRoot(t *testing.T) {
	runs := 0
	inner := &stubCommand{name: "ping", ran: &runs}
	var order []string

	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	wrapped := Apply(inner, mw("inner"), mw("outer"))
	if wrapped.Name() != "ping" {
		t.Errorf("wrapped name = %q", wrapped.Name())
	}
	if err := wrapped.Run(context.Background(), &Invocation{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if runs != 1 {
		t.Errorf("inner ran %d times", runs)
	}
	if !reflect.DeepEqual(order, []string{"outer", "inner"}) {
		t.Errorf("middleware order = %v", order)
	}
	if Root(wrapped) != inner {
		t.Errorf("Root did not return the inner command")
	}
}
