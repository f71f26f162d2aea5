package utils

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/":                       "/",
		"/execution/":             "/execution",
		"//execution//":           "/execution",
		"execution":               "/execution",
		"https://example.com/a/b": "/a/b",
		"https://example.com":     "/",
	}
	for input, expected := range cases {
		if got := NormalizePath(input); got != expected {
			t.Errorf("NormalizePath(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestIsLocalPath(t *testing.T) {
	cases := map[string]bool{
		"/execution":           true,
		"/execution?x=1":       true,
		"//evil.example":       false,
		"/\\evil.example":      false,
		"https://evil.example": false,
		"execution":            false,
		"":                     false,
	}
	for input, expected := range cases {
		if got := IsLocalPath(input); got != expected {
			t.Errorf("IsLocalPath(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Checkit":         "C",
		"jane doe":        "JD",
		"Ana María López": "AM",
		"  ":              "",
	}
	for input, expected := range cases {
		if got := Initials(input); got != expected {
			t.Errorf("Initials(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestCanonicalHref(t *testing.T) {
	cases := map[string]string{
		"/execution/":           "/execution",
		"//cdn.example/x":       "//cdn.example/x",
		"/reports//weekly/?t=1": "/reports/weekly?t=1",
		"/sensors/#live":        "/sensors#live",
		"/":                     "/",
		"https://docs.example/": "https://docs.example/",
		"execution":             "execution",
	}
	for input, expected := range cases {
		if got := CanonicalHref(input); got != expected {
			t.Errorf("CanonicalHref(%q) = %q, expected %q", input, got, expected)
		}
	}
}
