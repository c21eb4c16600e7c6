package errors

import (
	"strconv"
	"testing"
)

func TestErrorsError(t *testing.T) {
	if s := (Errors{}).Error(); s != "no errors" {
		t.Errorf("unexpected message %q", s)
	}
	if s := (Errors{New("a")}).Error(); s != "a" {
		t.Errorf("unexpected message %q", s)
	}
	if s := (Errors{New("a"), New("b\nc")}).Error(); s != "multiple errors:\n\ta\n\tb\n\tc" {
		t.Errorf("unexpected message %q", s)
	}
}

func TestUnion(t *testing.T) {
	if err := Union(nil, Errors{}, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	a, b := New("a"), New("b")
	err := Union(a, Errors{nil, b}, nil)
	errs, ok := err.(Errors)
	if !ok || len(errs) != 2 || errs[0] != a || errs[1] != b {
		t.Errorf("unexpected union %#v", err)
	}
}

func TestErrorsIs(t *testing.T) {
	err := Union(New("other"), DataError{Offset: 4, Cause: ErrUnexpectedEOF})
	if !Is(err, ErrUnexpectedEOF) {
		t.Error("expected list to match wrapped ErrUnexpectedEOF")
	}
	var count CountError
	if As(err, &count) {
		t.Error("unexpected CountError match")
	}
}

func TestFieldErrorUnwrap(t *testing.T) {
	_, cause := strconv.ParseFloat("x", 32)
	err := DataError{Offset: 10, Cause: FieldError{Field: "position", Cause: cause}}
	var num *strconv.NumError
	if !As(err, &num) {
		t.Fatal("expected *strconv.NumError")
	}
	if s := err.Error(); s != `data error at 10: position: strconv.ParseFloat: parsing "x": invalid syntax` {
		t.Errorf("unexpected message %q", s)
	}
}

func TestBadMagicError(t *testing.T) {
	err := BadMagicError{Offset: 14, Expected: [][]byte{{40}, {36}}, Got: []byte{12}}
	if s := err.Error(); s != `bad magic at 14: got "\f", expected "(" or "$"` {
		t.Errorf("unexpected message %q", s)
	}
}
