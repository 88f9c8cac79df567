package superjson

import (
	"math"
	"math/big"
	"testing"
	"time"
)

// ============================================================
// Constructors
// ============================================================

// Number must never hold a non-finite double or negative zero; those
// route to their dedicated kinds.
func TestNumberRouting(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected Kind
	}{
		{"finite", 42.5, KindNumber},
		{"zero", 0, KindNumber},
		{"negative", -100, KindNumber},
		{"NaN", math.NaN(), KindNaN},
		{"+Inf", math.Inf(1), KindPosInfinity},
		{"-Inf", math.Inf(-1), KindNegInfinity},
		{"-0", math.Copysign(0, -1), KindNegZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.input).Kind(); got != tt.expected {
				t.Errorf("Number(%v).Kind() = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	obj := Object(Field("a", Number(1)), Field("b", String("two")))
	if got := obj.Get("b"); got == nil || got.strVal != "two" {
		t.Errorf("Get(b) = %v", got)
	}
	if got := obj.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
	if obj.Len() != 2 {
		t.Errorf("Len = %d, want 2", obj.Len())
	}

	if _, err := obj.AsArray(); err == nil {
		t.Error("AsArray on object should fail")
	}
	if _, err := String("x").AsNumber(); err == nil {
		t.Error("AsNumber on string should fail")
	}

	re, err := RegExp(`\d+`, "gi").AsRegExp()
	if err != nil {
		t.Fatalf("AsRegExp: %v", err)
	}
	if re.Source != `\d+` || re.Flags != "gi" {
		t.Errorf("AsRegExp = %+v", re)
	}
}

// ============================================================
// Equality
// ============================================================

func TestEqual(t *testing.T) {
	epoch := Date(time.UnixMilli(0).UTC())
	tests := []struct {
		name  string
		a, b  *Value
		equal bool
	}{
		{"null", Null(), Null(), true},
		{"null vs undefined", Null(), Undefined(), false},
		{"bool", Bool(true), Bool(true), true},
		{"number", Number(1.5), Number(1.5), true},
		{"number mismatch", Number(1), Number(2), false},
		{"zero vs neg zero", Number(0), NegZero(), false},
		{"nan", NaN(), NaN(), true},
		{"string vs url", String("https://x/"), URL("https://x/"), false},
		{"date", epoch, Date(time.UnixMilli(0)), true},
		{"bigint", BigInt(big.NewInt(42)), BigInt(big.NewInt(42)), true},
		{"array order", Array(Number(1), Number(2)), Array(Number(2), Number(1)), false},
		{"set", Set(Number(1)), Set(Number(1)), true},
		{"set vs array", Set(Number(1)), Array(Number(1)), false},
		{
			"object order sensitive",
			Object(Field("a", Number(1)), Field("b", Number(2))),
			Object(Field("b", Number(2)), Field("a", Number(1))),
			false,
		},
		{
			"map",
			Map(Entry(NaN(), Null())),
			Map(Entry(NaN(), Null())),
			true,
		},
		{"regexp", RegExp("a", "g"), RegExp("a", "g"), true},
		{"regexp flags", RegExp("a", "g"), RegExp("a", "i"), false},
		{
			"error with cause",
			Err("Error", "fail", String("why")),
			Err("Error", "fail", String("why")),
			true,
		},
		{
			"error cause mismatch",
			Err("Error", "fail", String("why")),
			Err("Error", "fail", nil),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

// ============================================================
// Display
// ============================================================

func TestValueString(t *testing.T) {
	tests := []struct {
		value    *Value
		expected string
	}{
		{Null(), "null"},
		{Undefined(), "undefined"},
		{BigInt(big.NewInt(123)), "123n"},
		{Set(Number(1), Number(2)), "Set {1, 2}"},
		{Map(Entry(String("a"), Number(1))), `Map {"a" => 1}`},
		{RegExp(`\d+`, "gi"), `/\d+/gi`},
		{URL("https://example.com/"), "URL(https://example.com/)"},
		{NegZero(), "-0"},
		{Err("TypeError", "bad", nil), "TypeError: bad"},
		{Date(time.UnixMilli(0).UTC()), "Date(1970-01-01T00:00:00.000Z)"},
	}

	for _, tt := range tests {
		if got := tt.value.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
