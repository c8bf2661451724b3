package interp

import (
	"testing"

	"github.com/adrian-randa/otr/value"
)

func TestScopePushLookupPop(t *testing.T) {
	s := NewScope()
	if err := s.Push("x"); err != nil {
		t.Fatalf("push: %v", err)
	}
	slot, err := s.Lookup("x")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	*slot = value.Integer(42)

	got, err := s.Lookup("x")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !got.Equal(value.Integer(42)) {
		t.Errorf("x = %v, want 42", got)
	}

	if err := s.Pop("x"); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, err := s.Lookup("x"); err == nil {
		t.Errorf("expected lookup to fail after pop")
	}
}

func TestScopePushDuplicateInSameFrameFails(t *testing.T) {
	s := NewScope()
	if err := s.Push("x"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.Push("x"); err == nil {
		t.Errorf("expected duplicate push in the same frame to fail")
	}
}

func TestScopePopAbsentFails(t *testing.T) {
	s := NewScope()
	if err := s.Pop("x"); err == nil {
		t.Errorf("expected pop of an absent variable to fail")
	}
}

func TestScopeGrowShadowsOuterFrame(t *testing.T) {
	s := NewScope()
	if err := s.Push("x"); err != nil {
		t.Fatalf("push: %v", err)
	}
	slot, _ := s.Lookup("x")
	*slot = value.Integer(1)

	s.Grow()
	if err := s.Push("x"); err != nil {
		t.Fatalf("push in inner frame: %v", err)
	}
	inner, _ := s.Lookup("x")
	*inner = value.Integer(2)

	got, _ := s.Lookup("x")
	if !got.Equal(value.Integer(2)) {
		t.Errorf("inner x = %v, want 2 (shadowing outer)", got)
	}

	s.Shrink()
	got, _ = s.Lookup("x")
	if !got.Equal(value.Integer(1)) {
		t.Errorf("outer x after shrink = %v, want 1", got)
	}
}

func TestScopeLookupWalksUpFromInnerFrame(t *testing.T) {
	s := NewScope()
	s.Bind("y", value.Integer(7))
	s.Grow()
	got, err := s.Lookup("y")
	if err != nil {
		t.Fatalf("lookup across frames: %v", err)
	}
	if !got.Equal(value.Integer(7)) {
		t.Errorf("y = %v, want 7", got)
	}
}

func TestScopeShrinkBaseFramePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected shrinking the base frame to panic")
		}
	}()
	NewScope().Shrink()
}
