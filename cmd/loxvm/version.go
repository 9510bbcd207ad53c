package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"loxvm/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var opts versionOptions
	var full bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show loxvm build information",
		Args:  exactArgs(0, "Usage: loxvm version [--format pretty|json] [--hash] [--date] [--full]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if full {
				opts.showHash, opts.showDate = true, true
			}
			switch opts.format {
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), opts)
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), opts)
				return nil
			default:
				return usageErrorf("unsupported format %q (must be pretty or json)", opts.format)
			}
		},
	}
	cmd.Flags().BoolVar(&opts.showHash, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&opts.showDate, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&full, "full", false, "show every recorded bit of build metadata")
	cmd.Flags().StringVar(&opts.format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer, opts versionOptions) {
	fmt.Fprintf(out, "loxvm %s\n", version.Colored())
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.ShortCommit()))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "loxvm",
		Version: version.Version,
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
