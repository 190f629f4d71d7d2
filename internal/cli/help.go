package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofurigana/internal/configloader"
	"github.com/yaklabco/gofurigana/internal/ui/pretty"
)

// Command groups listed in root help.
const (
	groupDocuments = "documents"
	groupCodec     = "codec"
	groupSetup     = "setup"
)

//nolint:gochecknoglobals // Read-only command to group mapping.
var commandGroups = map[string]string{
	"process": groupDocuments,
	"render":  groupDocuments,
	"encode":  groupCodec,
	"decode":  groupCodec,
	"init":    groupSetup,
	"version": groupSetup,
}

const helpTemplate = `{{ bold .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}
{{with (or .Long .Short)}}
{{ trimRight . }}
{{end}}
{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{range $group := .Groups}}

{{ heading $group.Title }}{{range $cmds}}{{if and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (pad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}
{{- if not .HasParent}}

{{ heading "Environment:" }}{{range envVars}}
  {{ command (pad .Name 30) }} {{ .Description }}{{end}}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

// applyHelp sorts the subcommands of root into groups and installs styled
// help and usage output. Styles follow the --color flag of the invoked command.
func applyHelp(root *cobra.Command) {
	root.AddGroup(
		&cobra.Group{ID: groupDocuments, Title: "Document Commands:"},
		&cobra.Group{ID: groupCodec, Title: "Annotation Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	for _, sub := range root.Commands() {
		if id, ok := commandGroups[sub.Name()]; ok {
			sub.GroupID = id
		}
	}
	root.SetHelpCommandGroupID(groupSetup)
	root.SetCompletionCommandGroupID(groupSetup)

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := writeHelp(cmd); err != nil {
			cmd.PrintErrln(err)
		}
	})
	root.SetUsageFunc(writeHelp)
}

func writeHelp(cmd *cobra.Command) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))

	tmpl, err := template.New("help").Funcs(helpFuncs(styles)).Parse(helpTemplate)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	if err := tmpl.Execute(cmd.OutOrStdout(), cmd); err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	return nil
}

func helpFuncs(styles *pretty.Styles) template.FuncMap {
	return template.FuncMap{
		"envVars":   configloader.EnvVars,
		"bold":      styles.Bold.Render,
		"dim":       styles.Dim.Render,
		"heading":   styles.SummaryTitle.Render,
		"command":   styles.Reading.Render,
		"trimRight": func(s string) string { return strings.TrimRight(s, " \t\n") },
		"pad": func(s string, n int) string {
			if len(s) >= n {
				return s
			}
			return s + strings.Repeat(" ", n-len(s))
		},
		"flags": func(usages string) string {
			lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
			for i, line := range lines {
				lines[i] = styleFlagLine(styles, line)
			}
			return strings.Join(lines, "\n")
		},
	}
}

// styleFlagLine colors the flag names of one pflag usage line, leaving the
// type and description alone. The first run of two spaces after the flag
// names ends the flag part.
func styleFlagLine(styles *pretty.Styles, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	names, rest, _ := strings.Cut(trimmed, "  ")
	var out strings.Builder
	for i, token := range strings.Fields(names) {
		if i > 0 {
			out.WriteByte(' ')
		}
		if name, comma := strings.CutSuffix(token, ","); strings.HasPrefix(name, "-") {
			out.WriteString(styles.FilePath.Render(name))
			if comma {
				out.WriteByte(',')
			}
			continue
		}
		out.WriteString(styles.Dim.Render(token))
	}
	if rest != "" {
		out.WriteString("  " + rest)
	}
	return indent + out.String()
}
