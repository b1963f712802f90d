package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lszeremeta/sesame-rio-api/pipeline"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

type formatInfo struct {
	Name       string   `yaml:"name"`
	MIMETypes  []string `yaml:"mime_types"`
	Extensions []string `yaml:"extensions"`
	Charset    string   `yaml:"charset,omitempty"`
	Namespaces bool     `yaml:"namespaces"`
	Contexts   bool     `yaml:"contexts"`
	Parser     bool     `yaml:"parser"`
	Writer     bool     `yaml:"writer"`
}

func (a *app) formatsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the registered parser and writer formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formats := registeredFormats()
			switch output {
			case "yaml":
				return writeFormatsYAML(cmd.OutOrStdout(), formats)
			case "table":
				return writeFormatsTable(cmd.OutOrStdout(), formats)
			default:
				return fmt.Errorf("unknown output %q (want yaml or table)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: yaml or table")
	return cmd
}

// registeredFormats lists parser formats in registration order followed by
// formats that only have a writer.
func registeredFormats() []formatInfo {
	parsers, writers := pipeline.ParserRegistry(), pipeline.WriterRegistry()
	var out []formatInfo
	seen := map[string]bool{}
	for _, f := range append(parsers.Keys(), writers.Keys()...) {
		if seen[f.Name()] {
			continue
		}
		seen[f.Name()] = true
		out = append(out, formatInfo{
			Name:       f.Name(),
			MIMETypes:  f.MIMETypes(),
			Extensions: f.FileExtensions(),
			Charset:    f.Charset(),
			Namespaces: f.SupportsNamespaces(),
			Contexts:   f.SupportsContexts(),
			Parser:     parsers.Has(f),
			Writer:     writers.Has(f),
		})
	}
	return out
}

func writeFormatsYAML(w io.Writer, formats []formatInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]formatInfo{"formats": formats}); err != nil {
		return err
	}
	return enc.Close()
}

func writeFormatsTable(w io.Writer, formats []formatInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMIME TYPE\tEXTENSIONS\tPARSER\tWRITER")
	for _, f := range formats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Name, first(f.MIMETypes), strings.Join(f.Extensions, ","), yesNo(f.Parser), yesNo(f.Writer))
	}
	return tw.Flush()
}

func first(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return values[0]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (a *app) acceptCmd() *cobra.Command {
	var (
		requireContext bool
		prefer         string
	)
	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Print an HTTP Accept header for the registered parser formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var preferred rio.Format
			if prefer != "" {
				f, ok := rio.FormatByName(prefer)
				if !ok {
					return fmt.Errorf("unknown format %q", prefer)
				}
				preferred = f
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rio.AcceptHeader(pipeline.ParserRegistry().Keys(), requireContext, preferred))
			return err
		},
	}
	cmd.Flags().BoolVar(&requireContext, "require-context", false, "rank formats without context support lower")
	cmd.Flags().StringVar(&prefer, "prefer", "", "name of the preferred format")
	return cmd
}
