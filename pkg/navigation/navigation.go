package navigation

// Entry is one node of the static side navigation configuration. An entry is
// either a link (Href set) or a header (IsHeader set) that groups Children.
// The application builds the configuration once and never mutates it; the
// open/closed state of groups is tracked separately in a ToggleState.
type Entry struct {
	Name     string  `json:"name" yaml:"name" toml:"name" validate:"required"`
	Href     string  `json:"href,omitempty" yaml:"href,omitempty" toml:"href,omitempty" validate:"omitempty,route"`
	Icon     string  `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	IsHeader bool    `json:"isHeader,omitempty" yaml:"isHeader,omitempty" toml:"isHeader,omitempty"`
	Children []Entry `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" validate:"dive"`
}

// IsGroup reports whether the entry renders as a collapsible section.
func (e Entry) IsGroup() bool {
	return e.IsHeader && len(e.Children) > 0
}

type Kind string

const (
	KindNone  Kind = "none"
	KindGroup Kind = "group"
	KindLabel Kind = "label"
	KindLink  Kind = "link"
)

// Node is the render model produced from an Entry for one request.
type Node struct {
	Key      string `json:"key"`
	Kind     Kind   `json:"kind"`
	Name     string `json:"name,omitempty"`
	Href     string `json:"href,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Level    int    `json:"level"`
	Indent   int    `json:"indent"`
	TopLevel bool   `json:"topLevel,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Open     bool   `json:"open,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Visible reports whether the node produces any output.
func (n Node) Visible() bool {
	return n.Kind != KindNone
}

// HasToggle reports whether the node renders a toggle control.
func (n Node) HasToggle() bool {
	return n.Kind == KindGroup
}

// StateReader exposes the open/closed flags of collapsible nodes.
type StateReader interface {
	IsOpen(key string) bool
}

// BuildTree builds the top-level entries at level 0, keeping their order.
func BuildTree(entries []Entry, currentPath string, state StateReader) []Node {
	keys := siblingKeys("", entries)
	nodes := make([]Node, 0, len(entries))
	for i, entry := range entries {
		nodes = append(nodes, build(entry, keys[i], 0, currentPath, state))
	}
	return nodes
}

// Build renders a single entry and its descendants at the given level. The
// node key is derived from the entry name alone; use BuildTree when sibling
// collisions have to be resolved.
func Build(entry Entry, level int, currentPath string, state StateReader) Node {
	return build(entry, Slug(entry.Name), level, currentPath, state)
}

func build(entry Entry, key string, level int, currentPath string, state StateReader) Node {
	node := Node{
		Key:   key,
		Name:  entry.Name,
		Icon:  entry.Icon,
		Level: level,
	}
	node.Indent = Indent(level)

	if entry.IsHeader {
		if len(entry.Children) == 0 {
			node.Kind = KindLabel
			return node
		}

		node.Kind = KindGroup
		node.Open = state == nil || state.IsOpen(key)

		keys := siblingKeys(key, entry.Children)
		node.Children = make([]Node, 0, len(entry.Children))
		for i, child := range entry.Children {
			node.Children = append(node.Children, build(child, keys[i], level+1, currentPath, state))
		}
		return node
	}

	if entry.Href == "" {
		return Node{Key: key, Kind: KindNone, Level: level, Indent: node.Indent}
	}

	node.Kind = KindLink
	node.Href = entry.Href
	node.TopLevel = level == 0
	node.Active = currentPath == entry.Href
	return node
}

// Indent returns the left padding step for a nesting level. Top-level entries
// use the base step; every further level adds two.
func Indent(level int) int {
	if level <= 0 {
		return 2
	}
	return 2 + level*2
}

// Walk visits every node depth-first in render order. Returning false from fn
// skips the node's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, node := range nodes {
		if !fn(node) {
			continue
		}
		Walk(node.Children, fn)
	}
}

// ActiveTrail returns the nodes from the top level down to the active link,
// or nil when no link matches.
func ActiveTrail(nodes []Node) []Node {
	for _, node := range nodes {
		if node.Kind == KindLink && node.Active {
			return []Node{node}
		}
		if trail := ActiveTrail(node.Children); trail != nil {
			return append([]Node{node}, trail...)
		}
	}
	return nil
}

// Links returns every navigable entry in depth-first order.
func Links(entries []Entry) []Entry {
	var links []Entry
	for _, entry := range entries {
		if entry.IsHeader {
			links = append(links, Links(entry.Children)...)
			continue
		}
		if entry.Href != "" {
			links = append(links, entry)
		}
	}
	return links
}

// RewriteHrefs returns a copy of entries with every href passed through
// rewrite. The input tree is left untouched.
func RewriteHrefs(entries []Entry, rewrite func(string) string) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		if entry.Href != "" {
			entry.Href = rewrite(entry.Href)
		}
		entry.Children = RewriteHrefs(entry.Children, rewrite)
		out[i] = entry
	}
	return out
}

// GroupKeys returns the keys of every collapsible node of the tree.
func GroupKeys(entries []Entry) []string {
	var keys []string
	Walk(BuildTree(entries, "", nil), func(n Node) bool {
		if n.Kind == KindGroup {
			keys = append(keys, n.Key)
		}
		return true
	})
	return keys
}
