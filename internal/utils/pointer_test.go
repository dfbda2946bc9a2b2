package utils

import "testing"

func TestPtr(t *testing.T) {
	intPtr := Ptr(42)
	if intPtr == nil || *intPtr != 42 {
		t.Errorf("Ptr(42) = %v", intPtr)
	}

	stringPtr := Ptr("hello")
	if stringPtr == nil || *stringPtr != "hello" {
		t.Errorf("Ptr(\"hello\") = %v", stringPtr)
	}

	// Each call returns a distinct allocation.
	a, b := Ptr(1), Ptr(1)
	if a == b {
		t.Error("expected distinct pointers from separate calls")
	}
}
