package value

import (
	"math"
	"testing"
)

func TestIsFalsey(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil(), true},
		{"false", MakeBool(false), true},
		{"true", MakeBool(true), false},
		{"zero", MakeNumber(0), false},
		{"number", MakeNumber(3.5), false},
		{"object", MakeObject(KindString, 7), false},
	}
	for _, tc := range cases {
		if got := tc.v.IsFalsey(); got != tc.want {
			t.Errorf("%s: IsFalsey() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil nil", Nil(), Nil(), true},
		{"nil false", Nil(), MakeBool(false), false},
		{"bools", MakeBool(true), MakeBool(true), true},
		{"numbers", MakeNumber(2), MakeNumber(2), true},
		{"numbers differ", MakeNumber(2), MakeNumber(3), false},
		{"nan", MakeNumber(math.NaN()), MakeNumber(math.NaN()), false},
		{"same handle", MakeObject(KindString, 4), MakeObject(KindString, 4), true},
		{"different handle", MakeObject(KindString, 4), MakeObject(KindString, 5), false},
		{"kind mismatch", MakeObject(KindString, 4), MakeObject(KindClass, 4), false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Equal = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{55, "55"},
		{-2, "-2"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValueString(t *testing.T) {
	if got := MakeNumber(1.5).String(); got != "1.5" {
		t.Fatalf("number String() = %q", got)
	}
	if got := Nil().String(); got != "nil" {
		t.Fatalf("nil String() = %q", got)
	}
	if got := MakeBool(true).String(); got != "true" {
		t.Fatalf("bool String() = %q", got)
	}
}
