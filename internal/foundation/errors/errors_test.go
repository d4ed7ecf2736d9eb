package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "include cycle").
			WithSeverity(SeverityFatal).
			WithContext("path", "sub/mkdocs.yml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "include cycle" {
			t.Errorf("expected message 'include cycle', got %s", err.Message())
		}

		path, exists := err.Context().GetString("path")
		if !exists || path != "sub/mkdocs.yml" {
			t.Errorf("expected context path=sub/mkdocs.yml, got %v", path)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("missing nav").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Per-item errors are not fatal", func(t *testing.T) {
		if FileSystemError("unreadable").Build().IsFatal() {
			t.Error("filesystem errors must not abort the run")
		}
		if TableError("bad macro").Build().IsFatal() {
			t.Error("table errors must not abort the run")
		}
	})
}

func TestErrorBuilder_WrapsCause(t *testing.T) {
	sentinel := errors.New("include cycle")
	err := WrapError(sentinel, CategoryConfig, "cannot merge navigation").
		Fatal().
		WithContext("path", "a/mkdocs.yml").
		Build()

	if !errors.Is(err, sentinel) {
		t.Error("expected error to wrap sentinel")
	}
	if err.Cause() != sentinel {
		t.Errorf("unexpected cause %v", err.Cause())
	}
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := TableError("unresolved macro").Build()
	outer := fmt.Errorf("entry 3: %w", inner)

	got, ok := AsClassified(outer)
	if !ok {
		t.Fatal("expected classified error in chain")
	}
	if got.Category() != CategoryTable {
		t.Errorf("expected table category, got %s", got.Category())
	}
	if GetCategory(errors.New("plain")) != CategoryInternal {
		t.Error("unclassified errors should report internal category")
	}
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"path": "a", "line": 1}
	b := ErrorContext{"path": "b"}

	merged := a.Merge(b)
	if v, _ := merged.GetString("path"); v != "b" {
		t.Errorf("expected other to take precedence, got %v", v)
	}
	if _, ok := merged.Get("line"); !ok {
		t.Error("expected line to be retained")
	}
	if v, _ := a.GetString("path"); v != "a" {
		t.Error("merge must not mutate receiver")
	}
}
