package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK(42)
	if r.ID() != 42 {
		t.Errorf("ID() = %d", r.ID())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewDropped(t *testing.T) {
	err := errors.New("embedding failed")
	r := NewDropped(7, err)
	if r.ID() != 7 {
		t.Errorf("ID() = %d", r.ID())
	}
	if r.Status() != StatusDropped {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusDropped)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusOK != "ok" {
		t.Errorf("StatusOK = %q", StatusOK)
	}
	if StatusDropped != "dropped" {
		t.Errorf("StatusDropped = %q", StatusDropped)
	}
}
