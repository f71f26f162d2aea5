package navigation

import (
	"strings"
	"testing"
)

func TestLintCleanConfiguration(t *testing.T) {
	issues := Lint(sampleEntries(), nil)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestLintReportsProblems(t *testing.T) {
	entries := []Entry{
		{Name: "", Href: "/"},
		{Name: "Tasks", Href: "execution"},
		{Name: "Ghost"},
		{Name: "People", IsHeader: true, Href: "/people", Children: []Entry{
			{Name: "Tasks", Href: "/execution"},
			{Name: "Tasks", Href: "/tasks"},
		}},
		{Name: "Link", Href: "/link", Children: []Entry{{Name: "Child", Href: "/child"}}},
		{Name: "Sensors", Href: "/sensors", Icon: "radar"},
	}

	issues := Lint(entries, func(name string) bool { return name != "radar" })

	expect := []string{
		"name is required",
		"must be an absolute path",
		"renders nothing",
		"href is ignored",
		"duplicate sibling name",
		"children are ignored",
		"unknown icon",
	}
	for _, fragment := range expect {
		found := false
		for _, issue := range issues {
			if strings.Contains(issue.Message, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected an issue containing %q, got %v", fragment, issues)
		}
	}

	if !HasErrors(issues) {
		t.Fatalf("expected error severity issues")
	}
}

func TestLintWarningsOnlyForInertEntry(t *testing.T) {
	issues := Lint([]Entry{{Name: "Ghost"}}, nil)
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if HasErrors(issues) {
		t.Fatalf("inert entries are warnings, got %v", issues)
	}
	if issues[0].Key != "ghost" {
		t.Fatalf("expected key ghost, got %q", issues[0].Key)
	}
}
