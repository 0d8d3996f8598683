package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkarlik/retention/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	src, err := New(config.SourceConfig{Provider: "builtin"})
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	if _, ok := src.(*Builtin); !ok {
		t.Errorf("builtin provider gave %T", src)
	}

	src, err = New(config.SourceConfig{Provider: ""})
	if err != nil {
		t.Fatalf("empty provider: %v", err)
	}
	if _, ok := src.(*Builtin); !ok {
		t.Errorf("empty provider gave %T", src)
	}

	src, err = New(config.SourceConfig{Provider: "exec", Command: "/usr/bin/backend", Timeout: 10})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if _, ok := src.(*Exec); !ok {
		t.Errorf("exec provider gave %T", src)
	}

	if _, err := New(config.SourceConfig{Provider: "exec"}); err == nil {
		t.Error("exec without command should fail")
	}
	if _, err := New(config.SourceConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestBuiltinConcepts(t *testing.T) {
	b := NewBuiltin()

	records, err := b.Concepts(context.Background())
	if err != nil {
		t.Fatalf("Concepts: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("got %d records, want 8", len(records))
	}
	for _, r := range records {
		if r.ID == "" || r.Name == "" {
			t.Errorf("incomplete record: %+v", r)
		}
		if r.MemoryStrength != r.InitialWeight {
			t.Errorf("%s: initial %v != strength %v", r.ID, r.InitialWeight, r.MemoryStrength)
		}
	}

	// Callers get a copy, not the shared slice.
	records[0].ID = "mutated"
	again, _ := b.Concepts(context.Background())
	if again[0].ID == "mutated" {
		t.Error("Concepts returned shared backing slice")
	}

	if err := b.PushDecayRate(context.Background(), 0.3); err != nil {
		t.Errorf("PushDecayRate: %v", err)
	}
}

func TestParseConcepts(t *testing.T) {
	records, err := parseConcepts([]byte(`
		[{"id":"a","name":"A","category":"X","memory_strength":0.4,"initial_weight":0.85,"prerequisites":["b"]},
		 {"id":"b","name":"B","memory_strength":0.9}]
	`))
	if err != nil {
		t.Fatalf("parseConcepts: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "a" || records[0].InitialWeight != 0.85 || records[0].Prerequisites[0] != "b" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].InitialWeight != 0 {
		t.Errorf("missing initial_weight should be zero, got %v", records[1].InitialWeight)
	}
}

func TestParseConceptsBadJSON(t *testing.T) {
	for _, bad := range []string{"", "not json", `{"id":"a"}`} {
		if _, err := parseConcepts([]byte(bad)); err == nil {
			t.Errorf("parseConcepts(%q) succeeded", bad)
		}
	}
}

func TestExecMissingBinary(t *testing.T) {
	e := NewExec("/nonexistent/retention-backend", 1)

	if _, err := e.Concepts(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Concepts error = %v, want ErrUnavailable", err)
	}
	if err := e.PushDecayRate(context.Background(), 0.2); !errors.Is(err, ErrUnavailable) {
		t.Errorf("PushDecayRate error = %v, want ErrUnavailable", err)
	}
}

func TestExecDefaultTimeout(t *testing.T) {
	e := NewExec("backend", 0)
	if e.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", e.timeout)
	}
	e = NewExec("backend", 30)
	if e.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", e.timeout)
	}
}
