package navigation

import (
	"reflect"
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		{Name: "Dashboard", Href: "/", Icon: "gauge"},
		{Name: "People", IsHeader: true, Icon: "users", Children: []Entry{
			{Name: "Tasks", Href: "/execution", Icon: "clipboard-check"},
			{Name: "Workflow", Href: "/workflow"},
		}},
	}
}

func TestBuildTreeScenario(t *testing.T) {
	nodes := BuildTree(sampleEntries(), "/execution", NewToggleState())

	if len(nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(nodes))
	}

	dashboard := nodes[0]
	if dashboard.Kind != KindLink || dashboard.Active {
		t.Fatalf("expected inactive Dashboard link, got %+v", dashboard)
	}
	if !dashboard.TopLevel {
		t.Fatalf("expected Dashboard to carry top-level styling")
	}

	people := nodes[1]
	if people.Kind != KindGroup || !people.Open {
		t.Fatalf("expected open People group, got %+v", people)
	}
	if people.Key != "people" {
		t.Fatalf("expected key people, got %q", people.Key)
	}

	tasks := people.Children[0]
	if tasks.Kind != KindLink || !tasks.Active {
		t.Fatalf("expected active Tasks link, got %+v", tasks)
	}
	if tasks.TopLevel {
		t.Fatalf("nested links must not carry top-level styling")
	}
	if tasks.Key != "people/tasks" {
		t.Fatalf("expected key people/tasks, got %q", tasks.Key)
	}
	if people.Children[1].Active {
		t.Fatalf("expected Workflow to be inactive")
	}
}

func TestBuildGroupProducesOneToggleAndOrderedChildren(t *testing.T) {
	entry := Entry{Name: "Reporting", IsHeader: true, Children: []Entry{
		{Name: "Compliance", Href: "/compliance"},
		{Name: "Broken"},
		{Name: "Assets", Href: "/asset-intelligence"},
	}}

	node := Build(entry, 0, "/", nil)

	toggles := 0
	Walk([]Node{node}, func(n Node) bool {
		if n.HasToggle() {
			toggles++
		}
		return true
	})
	if toggles != 1 {
		t.Fatalf("expected exactly one toggle, got %d", toggles)
	}

	if len(node.Children) != len(entry.Children) {
		t.Fatalf("expected %d children, got %d", len(entry.Children), len(node.Children))
	}
	for i, child := range node.Children {
		if child.Level != 1 {
			t.Fatalf("child %d: expected level 1, got %d", i, child.Level)
		}
		if entry.Children[i].Href != "" && child.Name != entry.Children[i].Name {
			t.Fatalf("child %d: expected %q, got %q", i, entry.Children[i].Name, child.Name)
		}
	}
	if node.Children[1].Visible() {
		t.Fatalf("expected inert child to render nothing")
	}
}

func TestBuildHeaderWithoutChildrenIsStaticLabel(t *testing.T) {
	cases := []Entry{
		{Name: "Settings", IsHeader: true},
		{Name: "Settings", IsHeader: true, Children: []Entry{}},
	}

	for _, entry := range cases {
		node := Build(entry, 0, "/", nil)
		if node.Kind != KindLabel {
			t.Fatalf("expected label, got %s", node.Kind)
		}
		if node.HasToggle() {
			t.Fatalf("label must not render a toggle")
		}
	}
}

func TestBuildNonHeaderWithoutHrefRendersNothing(t *testing.T) {
	node := Build(Entry{Name: "Ghost", Icon: "box"}, 0, "/", nil)
	if node.Visible() {
		t.Fatalf("expected no output, got %+v", node)
	}
	if node.Name != "" || node.Icon != "" {
		t.Fatalf("inert node must not carry label or icon")
	}
}

func TestBuildActiveRequiresExactMatch(t *testing.T) {
	cases := []struct {
		path   string
		href   string
		active bool
	}{
		{path: "/execution", href: "/execution", active: true},
		{path: "/execution/", href: "/execution", active: false},
		{path: "/exec", href: "/execution", active: false},
		{path: "/", href: "/", active: true},
		{path: "", href: "/", active: false},
	}

	for _, tc := range cases {
		node := Build(Entry{Name: "Link", Href: tc.href}, 0, tc.path, nil)
		if node.Active != tc.active {
			t.Errorf("path %q href %q: expected active=%v", tc.path, tc.href, tc.active)
		}
	}
}

func TestIndentGrowsWithLevel(t *testing.T) {
	previous := Indent(0)
	for level := 1; level < 5; level++ {
		current := Indent(level)
		if current <= previous {
			t.Fatalf("indent must grow: level %d gave %d after %d", level, current, previous)
		}
		previous = current
	}
}

func TestBuildTreeIsIdempotent(t *testing.T) {
	state := NewToggleState("people")
	entries := sampleEntries()

	first := BuildTree(entries, "/workflow", state)
	second := BuildTree(entries, "/workflow", state)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input")
	}
	if !reflect.DeepEqual(entries, sampleEntries()) {
		t.Fatalf("building must not mutate entries")
	}
}

func TestToggleTwiceRestoresChildren(t *testing.T) {
	state := NewToggleState()
	entries := sampleEntries()

	if open := state.Toggle("people"); open {
		t.Fatalf("first toggle should close the group")
	}
	closed := BuildTree(entries, "/execution", state)
	if closed[1].Open {
		t.Fatalf("expected People to be closed")
	}
	if !closed[1].Children[0].Active {
		t.Fatalf("Tasks active state must not depend on the group state")
	}

	if open := state.Toggle("people"); !open {
		t.Fatalf("second toggle should reopen the group")
	}
	reopened := BuildTree(entries, "/execution", state)
	if !reopened[1].Open {
		t.Fatalf("expected People to be open again")
	}
	if len(reopened[1].Children) != 2 || !reopened[1].Children[0].Active {
		t.Fatalf("expected children visible with Tasks active, got %+v", reopened[1].Children)
	}
}

func TestToggleDoesNotAffectSiblings(t *testing.T) {
	entries := []Entry{
		{Name: "People", IsHeader: true, Children: []Entry{{Name: "Tasks", Href: "/execution"}}},
		{Name: "Places", IsHeader: true, Children: []Entry{{Name: "Locations", Href: "/locations"}}},
	}
	state := NewToggleState()
	state.Toggle("places")

	nodes := BuildTree(entries, "/", state)
	if !nodes[0].Open || nodes[1].Open {
		t.Fatalf("expected only Places to be closed, got %v/%v", nodes[0].Open, nodes[1].Open)
	}
}

func TestFlatConfigurationIsDegenerateCase(t *testing.T) {
	flat := []Entry{
		{Name: "Dashboard", Href: "/"},
		{Name: "Locations", Href: "/locations"},
		{Name: "Sensors", Href: "/sensors"},
	}

	nodes := BuildTree(flat, "/sensors", nil)
	for i, node := range nodes {
		if node.Kind != KindLink || !node.TopLevel {
			t.Fatalf("node %d: expected top-level link, got %+v", i, node)
		}
	}
	if !nodes[2].Active || nodes[0].Active {
		t.Fatalf("expected only Sensors to be active")
	}
}

func TestActiveTrail(t *testing.T) {
	trail := ActiveTrail(BuildTree(sampleEntries(), "/workflow", nil))
	if len(trail) != 2 {
		t.Fatalf("expected trail of 2, got %d", len(trail))
	}
	if trail[0].Name != "People" || trail[1].Name != "Workflow" {
		t.Fatalf("unexpected trail %q > %q", trail[0].Name, trail[1].Name)
	}

	if ActiveTrail(BuildTree(sampleEntries(), "/missing", nil)) != nil {
		t.Fatalf("expected no trail for unknown path")
	}
}

func TestLinksAndGroupKeys(t *testing.T) {
	links := Links(sampleEntries())
	var hrefs []string
	for _, link := range links {
		hrefs = append(hrefs, link.Href)
	}
	if !reflect.DeepEqual(hrefs, []string{"/", "/execution", "/workflow"}) {
		t.Fatalf("unexpected links %v", hrefs)
	}

	if keys := GroupKeys(sampleEntries()); !reflect.DeepEqual(keys, []string{"people"}) {
		t.Fatalf("unexpected group keys %v", keys)
	}
}

func TestRewriteHrefsCopiesTree(t *testing.T) {
	entries := sampleEntries()
	rewritten := RewriteHrefs(entries, func(href string) string { return href + "/x" })

	if rewritten[0].Href != "//x" || rewritten[1].Children[0].Href != "/execution/x" {
		t.Fatalf("expected every href to be rewritten, got %+v", rewritten)
	}
	if rewritten[1].Href != "" {
		t.Fatalf("expected empty header href to stay empty, got %q", rewritten[1].Href)
	}
	if entries[1].Children[0].Href != "/execution" {
		t.Fatalf("expected the source tree to stay untouched, got %q", entries[1].Children[0].Href)
	}
}
