package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := NotFound("section", 7)
	if !stderrors.Is(err, New(CodeNotFound, "other message")) {
		t.Fatal("expected errors.Is to match on code")
	}
	if stderrors.Is(err, New(CodeOutOfRange, "")) {
		t.Fatal("expected different codes not to match")
	}
	if err.Metadata["id"] != "7" {
		t.Errorf("expected id metadata 7, got %q", err.Metadata["id"])
	}
}

func TestGetCodeThroughWrapping(t *testing.T) {
	base := New(CodeInvalidSearchType, "bad field")
	wrapped := fmt.Errorf("search: %w", base)

	if got := GetCode(wrapped); got != CodeInvalidSearchType {
		t.Errorf("expected %s, got %s", CodeInvalidSearchType, got)
	}
	if !IsCode(wrapped, CodeInvalidSearchType) {
		t.Error("expected IsCode true")
	}
	if IsCode(nil, CodeInvalidSearchType) {
		t.Error("expected IsCode false for nil")
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Errorf("expected UNKNOWN, got %s", got)
	}
}

func TestWrapMessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeStorage, "save adventure", cause)
	if err.Error() != "save adventure: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
}
