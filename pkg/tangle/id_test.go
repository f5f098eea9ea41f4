package tangle

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/tangle/pkg/errors"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{"string", "alice", "alice", false},
		{"int", 42, "42", false},
		{"int64", int64(-7), "-7", false},
		{"uint8", uint8(3), "3", false},
		{"integral float", 9.0, "9", false},
		{"fraction", 1.5, "1.5", false},
		{"json number", json.Number("10"), "10", false},
		{"json fraction", json.Number("2.50"), "2.5", false},
		{"large int64", int64(1<<53 + 1), "9007199254740993", false},
		{"max uint64", uint64(math.MaxUint64), "18446744073709551615", false},
		{"large json number", json.Number("123456789012345678901"), "123456789012345678901", false},
		{"float above 1e15", 1e16, "10000000000000000", false},
		{"empty string", "", "", true},
		{"nil", nil, "", true},
		{"nan", math.NaN(), "", true},
		{"bool", true, "", true},
		{"slice", []string{"a"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeMalformed) {
					t.Errorf("ParseID(%v) code = %v, want %v", tt.value, errors.GetCode(err), errors.ErrCodeMalformed)
				}
				return
			}
			if got := id.String(); got != tt.want {
				t.Errorf("ParseID(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestIDEquality(t *testing.T) {
	a, _ := ParseID(1)
	b, _ := ParseID(1.0)
	c, _ := ParseID(json.Number("1"))
	if a != b || b != c {
		t.Errorf("numeric ids 1, 1.0 and json 1 should be equal: %v %v %v", a, b, c)
	}
	if a == StringID("1") {
		t.Error("numeric 1 and string \"1\" should differ")
	}

	big1, _ := ParseID(int64(1<<53 + 1))
	big2, _ := ParseID(json.Number("9007199254740992"))
	f, _ := ParseID(float64(1 << 53))
	if big1 == big2 {
		t.Errorf("%v and %v should differ", big1, big2)
	}
	if big2 != f {
		t.Errorf("json %v and float %v should be equal", big2, f)
	}
	if got := big2.Compare(big1); got != -1 {
		t.Errorf("%v.Compare(%v) = %d, want -1", big2, big1, got)
	}
}

func TestIDCompare(t *testing.T) {
	tests := []struct {
		a, b ID
		want int
	}{
		{NumberID(2), NumberID(10), -1},
		{NumberID(10), NumberID(2), 1},
		{NumberID(3), NumberID(3), 0},
		{NumberID(99), StringID("a"), -1},
		{StringID("a"), NumberID(99), 1},
		{StringID("10"), StringID("2"), -1},
		{StringID("b"), StringID("a"), 1},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBundleKey(t *testing.T) {
	ids := []ID{NumberID(2), NumberID(10), StringID("x")}
	if got := bundleKey(ids); got != "2_10_x" {
		t.Errorf("bundleKey() = %q, want %q", got, "2_10_x")
	}
	if got := quotedBundleKey(ids); got != `2_10_"x"` {
		t.Errorf("quotedBundleKey() = %q, want %q", got, `2_10_"x"`)
	}
}

func TestInternKey(t *testing.T) {
	tests := []struct {
		a, b []ID
	}{
		{[]ID{StringID("a_b"), StringID("c")}, []ID{StringID("a"), StringID("b_c")}},
		{[]ID{NumberID(1)}, []ID{StringID("1")}},
		{[]ID{StringID("1:s1:")}, []ID{StringID("1"), StringID("")}},
	}
	for _, tt := range tests {
		if internKey(tt.a) == internKey(tt.b) {
			t.Errorf("internKey(%v) == internKey(%v) = %q", tt.a, tt.b, internKey(tt.a))
		}
	}
	if internKey([]ID{StringID("a"), NumberID(2)}) != internKey([]ID{StringID("a"), NumberID(2)}) {
		t.Error("internKey() not stable for equal sets")
	}
}
