package utils

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"sort"
)

// requiredTemplates are parsed by every layout render.
var requiredTemplates = []string{"base.html", "nav.html", "error.html"}

func LoadTemplates(templatesDir string, funcMap template.FuncMap) (*template.Template, error) {
	return LoadTemplatesFS(os.DirFS(templatesDir), funcMap)
}

// LoadTemplatesFS parses every top-level *.html file in fsys with base.html
// first, so the layout owns the root template name.
func LoadTemplatesFS(fsys fs.FS, funcMap template.FuncMap) (*template.Template, error) {
	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found")
	}

	present := make(map[string]bool, len(files))
	for _, file := range files {
		present[file] = true
	}
	for _, name := range requiredTemplates {
		if !present[name] {
			return nil, fmt.Errorf("missing required template %s", name)
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i] == "base.html" || files[j] == "base.html" {
			return files[i] == "base.html"
		}
		return files[i] < files[j]
	})

	root, err := template.New(files[0]).Funcs(funcMap).ParseFS(fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return root, nil
}
