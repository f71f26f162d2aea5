package utils

import (
	"bytes"
	"errors"
	"html/template"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestIconFuncDelegates(t *testing.T) {
	funcs := GetTemplateFuncs(nil, func(name string) template.HTML {
		if name == "gauge" {
			return "<svg></svg>"
		}
		return ""
	})
	icon, ok := funcs["icon"].(func(string) template.HTML)
	if !ok {
		t.Fatalf("icon func has unexpected signature")
	}
	if icon("gauge") != "<svg></svg>" || icon("missing") != "" {
		t.Fatalf("icon func did not delegate to resolver")
	}

	withoutResolver := GetTemplateFuncs(nil, nil)["icon"].(func(string) template.HTML)
	if withoutResolver("gauge") != "" {
		t.Fatalf("expected empty icon without resolver")
	}
}

func TestDictRejectsOddArguments(t *testing.T) {
	dict := GetTemplateFuncs(nil, nil)["dict"].(func(...interface{}) (map[string]interface{}, error))
	if _, err := dict("a"); err == nil {
		t.Fatalf("expected error for odd arguments")
	}
	if _, err := dict(1, "a"); err == nil {
		t.Fatalf("expected error for non-string key")
	}
	values, err := dict("node", 1, "level", 2)
	if err != nil || values["level"] != 2 {
		t.Fatalf("unexpected dict result %v (%v)", values, err)
	}
}

func TestNavPaddingClass(t *testing.T) {
	if got := NavPaddingClass(4); got != "pl-4" {
		t.Fatalf("expected pl-4, got %q", got)
	}
	if got := NavPaddingClass(-1); got != "pl-0" {
		t.Fatalf("expected negative indent to clamp, got %q", got)
	}
	if got := NavPaddingClass(16); got != "pl-12" {
		t.Fatalf("expected deep indent to clamp to the largest class, got %q", got)
	}
}

func TestStylesheetDefinesEveryNavPaddingClass(t *testing.T) {
	data, err := os.ReadFile("../../static/css/dashboard.css")
	if err != nil {
		t.Fatalf("failed to read stylesheet: %v", err)
	}
	css := string(data)

	for indent := 2; indent <= MaxNavPadding; indent += 2 {
		if !strings.Contains(css, "."+NavPaddingClass(indent)+" {") {
			t.Errorf("stylesheet is missing .%s", NavPaddingClass(indent))
		}
	}
	if !strings.Contains(css, strings.Repeat(".nav-children ", 5)+".nav-children {") {
		t.Errorf("stylesheet is missing the nested list indent for deep levels")
	}
}

func TestAssetURL(t *testing.T) {
	stamp := time.Unix(1700000000, 0)
	modTime := func(path string) (time.Time, error) {
		if path == "/static/css/missing.css" {
			return time.Time{}, errors.New("missing")
		}
		return stamp, nil
	}

	cases := map[string]string{
		"":                          "",
		"/static/css/dashboard.css": "/static/css/dashboard.css?v=1700000000",
		"/static/app.css?theme=1":   "/static/app.css?theme=1&v=1700000000",
		"/static/css/missing.css":   "/static/css/missing.css",
		"https://cdn.example/x.css": "https://cdn.example/x.css",
		"//cdn.example/x.css":       "//cdn.example/x.css",
	}
	for input, expected := range cases {
		if got := AssetURL(input, modTime); got != expected {
			t.Errorf("AssetURL(%q) = %q, expected %q", input, got, expected)
		}
	}

	if got := AssetURL("/static/css/dashboard.css", nil); got != "/static/css/dashboard.css" {
		t.Fatalf("expected unversioned path without resolver, got %q", got)
	}
}

func TestLoadTemplatesFSParsesLayoutFirst(t *testing.T) {
	fsys := fstest.MapFS{
		"base.html":  {Data: []byte(`<main>{{template "content" .}}</main>`)},
		"nav.html":   {Data: []byte(`{{define "navigation"}}{{navPadding 2}}{{end}}`)},
		"error.html": {Data: []byte(`{{define "content"}}oops{{end}}`)},
		"notes.txt":  {Data: []byte(`ignored`)},
	}

	root, err := LoadTemplatesFS(fsys, GetTemplateFuncs(nil, nil))
	if err != nil {
		t.Fatalf("LoadTemplatesFS returned error: %v", err)
	}
	if root.Name() != "base.html" {
		t.Fatalf("expected base.html as root template, got %q", root.Name())
	}

	var buf bytes.Buffer
	if err := root.ExecuteTemplate(&buf, "navigation", nil); err != nil {
		t.Fatalf("failed to execute navigation: %v", err)
	}
	if buf.String() != "pl-2" {
		t.Fatalf("unexpected navigation output %q", buf.String())
	}
}

func TestLoadTemplatesFSRequiresLayouts(t *testing.T) {
	fsys := fstest.MapFS{
		"base.html": {Data: []byte(`base`)},
	}
	_, err := LoadTemplatesFS(fsys, GetTemplateFuncs(nil, nil))
	if err == nil || !strings.Contains(err.Error(), "nav.html") {
		t.Fatalf("expected missing nav.html error, got %v", err)
	}

	if _, err := LoadTemplatesFS(fstest.MapFS{}, nil); err == nil {
		t.Fatalf("expected error for empty template set")
	}
}
