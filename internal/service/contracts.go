package service

import (
	"time"

	"checkit-dashboard/internal/models"
	"checkit-dashboard/pkg/icons"
	"checkit-dashboard/pkg/navigation"
)

type NavigationUseCase interface {
	Entries() []navigation.Entry
	Issues() []navigation.Issue
	Source() string
	LoadedAt() time.Time
	Icons() *icons.Set
	HasGroup(string) bool
	Build(string, navigation.StateReader) []navigation.Node
	State(string) *navigation.ToggleState
	BuildForSession(string, string) []navigation.Node
	Toggle(string, string) (bool, error)
	Reload() error
	SweepStates() int
}

type PageUseCase interface {
	Register(models.DashboardPage) (*models.DashboardPage, error)
	GetByPath(string) (*models.DashboardPage, error)
	List() []models.DashboardPage
	Paths() []string
}

var (
	_ NavigationUseCase = (*NavigationService)(nil)
	_ PageUseCase       = (*PageService)(nil)
)
