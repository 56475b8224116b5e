package fsm

import (
	"context"
	"errors"
	"testing"
)

func TestActionRefResolution(t *testing.T) {
	t.Parallel()

	executed := false
	registry := map[string]ActionFunc{
		"known": func(context.Context, Event) error {
			executed = true

			return nil
		},
	}

	fn, err := Named("known").resolve(registry)
	if err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	if err := fn(context.Background(), Event{}); err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	if !executed {
		t.Error("resolved function was not the registry entry")
	}

	if _, err := Named("missing").resolve(registry); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}

	// Direct references bypass the registry entirely.
	direct := Do(func(context.Context, Event) error { return nil })
	if _, err := direct.resolve(nil); err != nil {
		t.Errorf("direct references must resolve without a registry: %v", err)
	}
}

func TestActionRefNames(t *testing.T) {
	t.Parallel()

	if got := Named("log").Name(); got != "log" {
		t.Errorf("expected log, got %s", got)
	}

	if got := Do(nil).Name(); got != "inline" {
		t.Errorf("expected inline, got %s", got)
	}

	if got := DoNamed("audit", nil).Name(); got != "audit" {
		t.Errorf("expected audit, got %s", got)
	}

	if !Named("log").IsNamed() {
		t.Error("Named must report IsNamed")
	}

	if DoNamed("audit", func(context.Context, Event) error { return nil }).IsNamed() {
		t.Error("direct references must not report IsNamed")
	}
}

func TestActionsShape(t *testing.T) {
	t.Parallel()

	var empty Actions
	if !empty.IsZero() {
		t.Error("zero Actions must report IsZero")
	}

	single := SingleAction(Named("a"))
	if single.IsZero() || single.IsList() || single.Len() != 1 {
		t.Errorf("unexpected scalar shape: %+v", single)
	}

	list := ActionList(Named("a"), Named("b"))
	if !list.IsList() || list.Len() != 2 {
		t.Errorf("unexpected list shape: %+v", list)
	}

	// A one-element list is still a list.
	short := ActionList(Named("a"))
	if !short.IsList() || short.Len() != 1 {
		t.Errorf("one-element list must stay a list: %+v", short)
	}

	refs := list.Refs()
	if len(refs) != 2 || refs[0].Name() != "a" || refs[1].Name() != "b" {
		t.Errorf("Refs must preserve declaration order, got %v", refs)
	}
}

func TestActionsRefsIsACopy(t *testing.T) {
	t.Parallel()

	list := ActionList(Named("a"), Named("b"))

	refs := list.Refs()
	refs[0] = Named("mutated")

	if list.Refs()[0].Name() != "a" {
		t.Error("mutating the returned slice must not affect the Actions value")
	}
}
