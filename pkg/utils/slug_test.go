package utils

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Linear Algebra 101", "linear-algebra-101"},
		{"  Fractions --- and   Decimals  ", "fractions-and-decimals"},
		{"???", "course"},
		{"Already-Slugged", "already-slugged"},
		{"Álgebra Básica", "algebra-basica"},
		{"Géométrie Différentielle", "geometrie-differentielle"},
		{"Алгебра и Геометрия", "algebra-i-geometriya"},
	}

	for _, tc := range cases {
		if got := GenerateSlug(tc.in); got != tc.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateSlugTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefgh "
	}

	slug := GenerateSlug(long)
	if len(slug) > 100 {
		t.Fatalf("slug length = %d, want <= 100", len(slug))
	}
	if slug[len(slug)-1] == '-' {
		t.Fatalf("slug ends with a dash: %q", slug)
	}
}
