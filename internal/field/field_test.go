package field

import "testing"

func TestFound_BlankIsMissing(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		if v := Found(in); !v.IsMissing() {
			t.Fatalf("Found(%q) should be missing", in)
		}
	}
	v := Found("x")
	if got, ok := v.Get(); !ok || got != "x" {
		t.Fatalf("Found(x).Get() = %q,%v", got, ok)
	}
}

func TestValue_OrDistinguishesMissing(t *testing.T) {
	if got := Missing().Or("NA"); got != "NA" {
		t.Fatalf("Missing().Or = %q, want NA", got)
	}
	if got := Found("oxford").Or("NA"); got != "oxford" {
		t.Fatalf("Found.Or = %q, want oxford", got)
	}
}

func TestValue_MapToEmptyBecomesMissing(t *testing.T) {
	v := Found("---").Map(func(s string) string { return "" })
	if !v.IsMissing() {
		t.Fatalf("expected missing after empty map")
	}
	if !Missing().Map(Normalize).IsMissing() {
		t.Fatalf("map over missing must stay missing")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"\n  Research Software\nEngineer \n": "research software engineer",
		"University of  LEEDS":          "university of leeds",
		"ÉCOLE":                              "école",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
