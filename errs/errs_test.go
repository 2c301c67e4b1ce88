package errs

import (
	"errors"
	"os"
	"testing"
)

func TestKindsMatchWithErrorsIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"schema", Schema("There is no key column"), ErrSchema},
		{"structure", Structure("expected %d table", 1), ErrDocumentStructure},
		{"validation", Validation("empty key"), ErrValidation},
		{"format", Format("bad json"), ErrFormat},
		{"io", IO(os.ErrNotExist, "/tmp/x"), ErrIO},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.kind) {
				t.Fatalf("errors.Is(%v, %v) = false", tc.err, tc.kind)
			}
		})
	}
}

func TestIOKeepsCause(t *testing.T) {
	err := IO(os.ErrNotExist, "/tmp/missing.xcstrings")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("IO error lost its cause: %v", err)
	}
	if got, want := err.Error(), "/tmp/missing.xcstrings: file does not exist"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(ErrIO, nil, "ctx") != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(Validation("line one\nline two"))
	if want := "Error occurred: line one line two"; got != want {
		t.Fatalf("Flatten() = %q, want %q", got, want)
	}
	if Flatten(nil) != "" {
		t.Fatal("Flatten(nil) should be empty")
	}
}
