package ident

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"First Name", "first_name"},
		{"Café", "cafe"},
		{"Über-Größe", "uber_groe"},
		{"a.b-c d", "a_b_c_d"},
		{"  padded  ", "padded"},
		{"already_fine", "already_fine"},
		{"Multiple   Spaces", "multiple_spaces"},
		{"trailing-", "trailing"},
		{"123", "123"},
		{"", "col"},
		{"!!!", "col"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) got=%q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuffix(t *testing.T) {
	t.Parallel()

	if got := Suffix("name", 1); got != "name_2" {
		t.Fatalf("got=%q; want name_2", got)
	}
	if got := Suffix("name", 2); got != "name_3" {
		t.Fatalf("got=%q; want name_3", got)
	}
}
