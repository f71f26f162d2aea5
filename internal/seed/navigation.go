package seed

import "checkit-dashboard/pkg/navigation"

// DefaultNavigation returns the built-in side navigation used when no
// navigation file is configured or the file cannot be loaded.
func DefaultNavigation() []navigation.Entry {
	return []navigation.Entry{
		{Name: "Dashboard", Href: "/", Icon: "gauge"},
		{
			Name:     "People",
			Icon:     "users",
			IsHeader: true,
			Children: []navigation.Entry{
				{Name: "Tasks", Href: "/execution", Icon: "list-checks"},
				{Name: "Workflow", Href: "/workflow", Icon: "network"},
				{Name: "Training", Href: "/training-certification", Icon: "graduation-cap"},
			},
		},
		{
			Name:     "Places",
			Icon:     "building",
			IsHeader: true,
			Children: []navigation.Entry{
				{Name: "Locations", Href: "/locations", Icon: "map-pin"},
				{Name: "Processes", Href: "/sop-canvas", Icon: "clipboard-check"},
			},
		},
		{
			Name:     "Things",
			Icon:     "box",
			IsHeader: true,
			Children: []navigation.Entry{
				{Name: "Sensors", Href: "/sensors", Icon: "signal"},
				{Name: "Monitoring", Href: "/monitoring", Icon: "activity"},
			},
		},
		{
			Name:     "Reporting",
			Icon:     "bar-chart-3",
			IsHeader: true,
			Children: []navigation.Entry{
				{Name: "Compliance", Href: "/compliance", Icon: "shield-check"},
				{Name: "Asset Intelligence", Href: "/asset-intelligence", Icon: "box"},
				{Name: "Inventory Intelligence", Href: "/inventory-intelligence", Icon: "package"},
				{Name: "Workforce Intelligence", Href: "/workforce-intelligence", Icon: "users"},
			},
		},
	}
}
