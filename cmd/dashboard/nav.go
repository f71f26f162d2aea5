package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"checkit-dashboard/internal/seed"
	"checkit-dashboard/pkg/icons"
	"checkit-dashboard/pkg/navigation"
	"checkit-dashboard/pkg/utils"
)

func newNavCmd(opts *commandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Inspect the side navigation configuration",
	}

	cmd.AddCommand(newNavPrintCmd(opts))
	cmd.AddCommand(newNavValidateCmd(opts))
	cmd.AddCommand(newNavExportCmd(opts))

	return cmd
}

// loadedNavigation is the configuration as the server would see it.
type loadedNavigation struct {
	Source  string
	Entries []navigation.Entry
	Icons   *icons.Set
}

func loadNavigation(opts *commandOptions) (*loadedNavigation, error) {
	cfg := loadConfig(opts)
	set := icons.NewSet()

	if cfg.NavConfigFile == "" {
		return &loadedNavigation{Source: "builtin", Entries: seed.DefaultNavigation(), Icons: set}, nil
	}

	doc, err := navigation.LoadFile(cfg.NavConfigFile)
	if err != nil {
		return nil, err
	}
	if failed := set.RegisterAll(doc.Icons); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for name := range failed {
			names = append(names, name)
		}
		sort.Strings(names)
		errs := make([]error, 0, len(names))
		for _, name := range names {
			errs = append(errs, fmt.Errorf("icon %q: %w", name, failed[name]))
		}
		return nil, errors.Join(errs...)
	}

	return &loadedNavigation{Source: cfg.NavConfigFile, Entries: navigation.RewriteHrefs(doc.Navigation, utils.CanonicalHref), Icons: set}, nil
}

func newNavPrintCmd(opts *commandOptions) *cobra.Command {
	var (
		path     string
		collapse []string
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render the navigation tree in the terminal",
		Long: `Render the navigation tree as the sidebar would show it.

The --path flag selects the active route and --collapse closes groups by
key, for example --collapse people --collapse reporting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadNavigation(opts)
			if err != nil {
				return err
			}

			nodes := navigation.BuildTree(loaded.Entries, utils.NormalizePath(path), navigation.NewToggleState(collapse...))
			out := cmd.OutOrStdout()

			if opts.JSONOutput {
				return writeJSON(out, nodes)
			}

			fmt.Fprint(out, renderTree(out, nodes))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "Route used to mark the active link")
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "Group keys to render collapsed")

	return cmd
}

func newNavValidateCmd(opts *commandOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint the navigation configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadNavigation(opts)
			if err != nil {
				return err
			}

			issues := navigation.Lint(loaded.Entries, loaded.Icons.Has)
			out := cmd.OutOrStdout()

			if opts.JSONOutput {
				if err := writeJSON(out, map[string]interface{}{"source": loaded.Source, "issues": issues}); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, renderIssues(out, loaded.Source, issues))
			}

			if navigation.HasErrors(issues) || (strict && len(issues) > 0) {
				return fmt.Errorf("navigation configuration has %d issue(s)", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}

func newNavExportCmd(opts *commandOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective navigation configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := navigation.ParseFormat(format)
			if err != nil {
				return err
			}

			loaded, err := loadNavigation(opts)
			if err != nil {
				return err
			}

			data, err := navigation.Encode(parsed, &navigation.Document{Navigation: loaded.Entries})
			if err != nil {
				return fmt.Errorf("failed to encode navigation: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: json, yaml or toml")

	return cmd
}

func writeJSON(out io.Writer, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
