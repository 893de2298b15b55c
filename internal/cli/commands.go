package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func newMatchCommand() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "match <input>",
		Short: "Run the routing tree against an input",
		Example: `  pathway match /en/blog/42
  pathway match /shop/3/items --method POST`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := buildRouter(cmd)
			if err != nil {
				return err
			}

			res := r.Execute(cmd.Context(), args[0], method)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", http.MethodGet, "request method")
	return cmd
}

func newGenCommand() *cobra.Command {
	var noPrefix bool

	cmd := &cobra.Command{
		Use:   "gen <route> [name=value...]",
		Short: "Generate the URL of a route",
		Long: `Generate the URL of a route. Extra non-stopping routes to include are
appended with "+", e.g. "post+locale" generates "post" with the "locale"
prefix. A parameter given as "name=" without a value removes it.`,
		Example: `  pathway gen post id=42
  pathway gen post+locale id=42 lang=de`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			r, _, err := buildRouter(cmd)
			if err != nil {
				return err
			}

			var opts []routing.GenOption
			if noPrefix {
				opts = append(opts, routing.WithoutPrefix())
			}
			url, err := r.Gen(cmd.Context(), args[0], params, opts...)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPrefix, "no-prefix", false, "omit the configured URL prefix")
	return cmd
}

// parseParams parses name=value pairs. An empty value removes the parameter.
func parseParams(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: parameter %q is not name=value", ErrConfig, arg)
		}
		if value == "" {
			params[name] = nil
			continue
		}
		params[name] = value
	}
	return params, nil
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routing tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := buildRouter(cmd)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Pattern", "Parent", "Module", "Action", "Methods", "Flags"})
			for _, rt := range r.Routes() {
				t.AppendRow(table.Row{
					rt.Name(),
					rt.Pattern().Source(),
					rt.Parent(),
					rt.Module(),
					rt.Action(),
					strings.Join(rt.Methods(), " "),
					routeFlags(rt),
				})
			}
			t.AppendFooter(table.Row{fmt.Sprintf("%d routes", r.Len())})
			t.Render()
			return nil
		},
	}
}

func routeFlags(rt *routing.Route) string {
	var flags []string
	if rt.Stop() {
		flags = append(flags, "stop")
	}
	if rt.Imply() {
		flags = append(flags, "imply")
	}
	if rt.Cuts() {
		flags = append(flags, "cut")
	}
	if rt.Callback() != "" {
		flags = append(flags, "callback="+rt.Callback())
	}
	if rt.Source() != "" {
		flags = append(flags, "source="+rt.Source())
	}
	sort.Strings(flags)
	return strings.Join(flags, ",")
}

func newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the compiled routing tree as a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := buildRouter(cmd)
			if err != nil {
				return err
			}

			snap := r.Export()
			switch format {
			case FormatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			case FormatYAML:
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(snap); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("%w: unknown format %q", ErrConfig, format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "output format (json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatJSON, FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile the route file and report errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, f, err := buildRouter(cmd)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d routes (checksum %s)\n", r.Len(), f.Checksum()[:12])
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pathway %s\n", Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s\n", GitCommit, BuildDate)
		},
	}
}
