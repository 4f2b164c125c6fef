package main

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	if got := splitList("  "); got != nil {
		t.Fatalf("expected nil for empty flag, got %v", got)
	}
	got := splitList("data scien, rse ,,tutor")
	want := []string{"data scien", "rse", "tutor"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitList=%v, want %v", got, want)
	}
}
