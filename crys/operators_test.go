package crys

import (
	"math"
	"testing"
)

func TestOperatorSemantics(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`1 + 2 * 3`, "7"},
		{`(1 + 2) * 3`, "9"},
		{`7 / 2`, "3.5"},
		{`6 / 3`, "2"},
		{`7 % 3`, "1"},
		{`2 ** 10`, "1024"},
		{`2 ** 3 ** 2`, "512"},
		{`2 ** -1`, "0.5"},
		{`1 + 2.5`, "3.5"},
		{`0.1 + 0.2`, "0.30000000000000004"},
		{`"a" + 1`, `"a1"`},
		{`1 + "a"`, `"1a"`},
		{`"n: " + nil`, `"n: null"`},
		{`"3" * 2`, "6"},
		{`1 == "1"`, "true"},
		{`1 == 1.0`, "true"},
		{`nil == false`, "false"},
		{`true == 1`, "true"},
		{`[1, 2] == [1, 2]`, "true"},
		{`1 != 2`, "true"},
		{`"b" > "a"`, "true"},
		{`2 >= 2`, "true"},
		{`1 < nil`, "false"},
		{`3 <=> 5`, "-1"},
		{`5 <=> 5`, "0"},
		{`"b" <=> "a"`, "1"},
		{`5 & 3`, "1"},
		{`5 | 3`, "7"},
		{`5 ^ 3`, "6"},
		{`1 << 4`, "16"},
		{`-16 >> 2`, "-4"},
		{`~5`, "-6"},
		{`-(2 + 3)`, "-5"},
		{`!nil`, "true"},
		{`!0`, "false"},
		{`not true`, "false"},
		{`nil || "x"`, `"x"`},
		{`0 && "y"`, `"y"`},
		{`false && undefined_name`, "false"},
		{`true or undefined_name`, "true"},
		{`1 / 0`, "Infinity"},
		{`-1 / 0`, "-Infinity"},
		{`9223372036854775807 + 1 > 0`, "true"},
		{`-9223372036854775807 - 10 < 0`, "true"},
		{`9223372036854775807 * 2 > 9223372036854775807`, "true"},
		{`4611686018427387904 * -4 < 0`, "true"},
		{`-(-9223372036854775807 - 1) > 0`, "true"},
		{`(-9223372036854775807 - 1) / -1 > 0`, "true"},
		{`9223372036854775806 + 1`, "9223372036854775807"},
		{`1e30`, "1e+30"},
		{`2.5e-3 * 2`, "0.005"},
		{`1e3 == 1000`, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			val, _ := runScript(t, tt.source)
			if got := val.Inspect(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModuloByZeroIsNaN(t *testing.T) {
	val, _ := runScript(t, `5 % 0`)
	if val.Kind() != KindFloat || !math.IsNaN(val.Float()) {
		t.Fatalf("expected NaN, got %s", val.Inspect())
	}
}

func TestOperatorTypeErrors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`[1] - 1`, "unsupported operand types for -: array and int"},
		{`-[1]`, "unsupported operand type for -: array"},
		{`~[1]`, "unsupported operand type for ~: array"},
		{`[1] & 1`, "unsupported operand types for &: array and int"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			err := runError(t, Config{}, tt.source)
			re, ok := err.(*RuntimeError)
			if !ok || re.Message != tt.want {
				t.Fatalf("got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{NewNil(), NewUndefined(), true},
		{NewNil(), NewInt(0), false},
		{NewString(""), NewInt(0), true},
		{NewString(" 42 "), NewInt(42), true},
		{NewBool(false), NewString("0"), true},
		{NewFloat(math.NaN()), NewFloat(math.NaN()), false},
		{NewString("a"), NewString("a"), true},
	}
	for _, tt := range tests {
		if got := looseEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("looseEqual(%s, %s) = %v, want %v", tt.a.Inspect(), tt.b.Inspect(), got, tt.want)
		}
	}
}

func TestToInt32(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{3.9, 3},
		{-3.9, -3},
		{4294967296, 0},
		{2147483648, -2147483648},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := toInt32(tt.in); got != tt.want {
			t.Errorf("toInt32(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{2, "2"},
		{-0.25, "-0.25"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{123456789012, "123456789012"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
