package errors

import (
	"errors"
	"strings"
	"testing"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindInvalidTypeLocation,
				Path:   []string{"exports", "0", "function", "arguments", "1"},
				Type:   "Counter",
				Detail: "no rule",
			},
			contains: []string{"[encode]", "invalid_type_location", "exports.0.function.arguments.1", "type Counter", "no rule"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[decode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseEmbed,
				Kind:   KindSink,
				Detail: "disk full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[embed]", "sink", "disk full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through the chain")
	}
}

func TestError_Is(t *testing.T) {
	err := UnsafeString(PhaseEncode, nil, "a\"b", 1)

	if !errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindUnsafeString}) {
		t.Error("expected match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseValidate, Kind: KindUnsafeString}) {
		t.Error("phase mismatch should not match")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindInvalidSetter}) {
		t.Error("kind mismatch should not match")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseValidate, KindFieldMissing).
		Path("imports", "2").
		Type("u32").
		Value(7).
		Detail("missing %s", "shim").
		Cause(errors.New("inner")).
		Build()

	if err.Phase != PhaseValidate || err.Kind != KindFieldMissing {
		t.Errorf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if strings.Join(err.Path, ".") != "imports.2" {
		t.Errorf("path = %v", err.Path)
	}
	if err.Type != "u32" {
		t.Errorf("type = %q", err.Type)
	}
	if err.Value != 7 {
		t.Errorf("value = %v", err.Value)
	}
	if err.Detail != "missing shim" {
		t.Errorf("detail = %q", err.Detail)
	}
	if err.Cause == nil || err.Cause.Error() != "inner" {
		t.Errorf("cause = %v", err.Cause)
	}

	plain := New(PhaseEncode, KindSink).Detail("100%").Build()
	if plain.Detail != "100%" {
		t.Errorf("detail without args should be verbatim, got %q", plain.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidTypeLocation", func(t *testing.T) {
		err := InvalidTypeLocation(PhaseEncode, []string{"x"}, "Foo", stringer("by_ref"), stringer("invalid"))
		if err.Kind != KindInvalidTypeLocation {
			t.Errorf("kind = %s", err.Kind)
		}
		if !strings.Contains(err.Detail, "by_ref") || !strings.Contains(err.Detail, "invalid") {
			t.Errorf("detail = %q", err.Detail)
		}
	})

	t.Run("UnsafeString", func(t *testing.T) {
		err := UnsafeString(PhaseEncode, nil, "ab\ncd", 2)
		if !strings.Contains(err.Detail, "0x0a") || !strings.Contains(err.Detail, "offset 2") {
			t.Errorf("detail = %q", err.Detail)
		}
	})

	t.Run("UnsafeString long preview", func(t *testing.T) {
		long := strings.Repeat("a", 40) + "\""
		err := UnsafeString(PhaseEncode, nil, long, 40)
		if strings.Contains(err.Detail, long) {
			t.Error("preview should be truncated")
		}
	})

	t.Run("DescriptorRange", func(t *testing.T) {
		err := DescriptorRange(12345, 10000)
		if err.Value != uint32(12345) || !strings.Contains(err.Detail, "10000") {
			t.Errorf("unexpected error %+v", err)
		}
	})

	t.Run("InvalidSetter", func(t *testing.T) {
		err := InvalidSetter(PhaseValidate, nil, "width")
		if !strings.Contains(err.Detail, "set_") || !strings.Contains(err.Detail, "width") {
			t.Errorf("detail = %q", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseEmbed, "custom section", "foo")
		if !strings.Contains(err.Error(), `custom section "foo" not found`) {
			t.Errorf("error = %q", err.Error())
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		err := ParseFailed("module", errors.New("eof"))
		if err.Phase != PhaseParse || !strings.Contains(err.Error(), "parse module") {
			t.Errorf("error = %q", err.Error())
		}
	})
}

func TestRecover(t *testing.T) {
	run := func(v any) (err error) {
		defer Recover(&err)
		if v != nil {
			panic(v)
		}
		return nil
	}

	if err := run(nil); err != nil {
		t.Errorf("no panic should yield nil, got %v", err)
	}

	violation := InvalidSetter(PhaseEncode, nil, "x")
	err := run(violation)
	var e *Error
	if !errors.As(err, &e) || e != violation {
		t.Errorf("expected recovered violation, got %v", err)
	}

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("foreign panic should be re-raised, got %v", r)
		}
	}()
	_ = run("boom")
}
