package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Café au lait", "cafe-au-lait"},
		{"already-a-slug", "already-a-slug"},
		{"  spaced__out  ", "spaced-out"},
		{"UPPER case 42", "upper-case-42"},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"news", true},
		{"study-plan-2026", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"Кириллица", false},
		{"UPPER", false},
	}
	for _, tt := range tests {
		if got := IsValidSlug(tt.in); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNullString(t *testing.T) {
	if ns := NullString("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("NullString(\"x\") = %+v", ns)
	}
	if ns := NullString(""); ns.Valid {
		t.Errorf("NullString(\"\") should be invalid, got %+v", ns)
	}
}

func TestNullInt64FromPtr(t *testing.T) {
	if ni := NullInt64FromPtr(nil); ni.Valid {
		t.Errorf("NullInt64FromPtr(nil) should be invalid, got %+v", ni)
	}
	v := int64(7)
	if ni := NullInt64FromPtr(&v); !ni.Valid || ni.Int64 != 7 {
		t.Errorf("NullInt64FromPtr(&7) = %+v", ni)
	}
}

func TestStringOrEmpty(t *testing.T) {
	if got := StringOrEmpty(NullString("abc")); got != "abc" {
		t.Errorf("StringOrEmpty = %q, want %q", got, "abc")
	}
	if got := StringOrEmpty(NullString("")); got != "" {
		t.Errorf("StringOrEmpty on invalid = %q, want empty", got)
	}
}
