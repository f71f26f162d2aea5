package models

// DashboardPage describes a routed dashboard page rendered inside the shared
// layout with the side navigation.
type DashboardPage struct {
	Path        string `json:"path" validate:"required,startswith=/"`
	Title       string `json:"title" validate:"required,no_html"`
	Heading     string `json:"heading,omitempty" validate:"no_html"`
	Description string `json:"description,omitempty" validate:"no_html"`
	Template    string `json:"template,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// TopNavTitle returns the title shown in the top navigation bar.
func (p DashboardPage) TopNavTitle() string {
	if p.Heading != "" {
		return p.Heading
	}
	return p.Title
}
