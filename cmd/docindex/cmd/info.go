package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/index"
	"github.com/Aman-CERP/docindex/internal/output"
	"github.com/Aman-CERP/docindex/internal/pathguard"
	"github.com/Aman-CERP/docindex/internal/schema"
)

type indexInfo struct {
	Path      string         `json:"path"`
	Documents uint64         `json:"documents"`
	Schema    *schema.Schema `json:"schema"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <index-path>",
		Short: "Show an index's schema and document count",
		Long: `Open the index read-only in this process and print its fields and the
number of committed documents. Fails with a lock error while a writer
holds the index.`,
		Args:        cobra.ExactArgs(1),
		Annotations: noBackend,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo(cmd, args[0])
		},
	}
}

func (a *app) runInfo(cmd *cobra.Command, path string) error {
	if err := pathguard.ValidateWithLimit(path, a.cfg.Limits.MaxPathChars); err != nil {
		return err
	}

	idx, err := index.Open(path, index.WithOpenTimeout(a.cfg.OpenTimeoutDuration()))
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	count, err := idx.DocCount()
	if err != nil {
		return err
	}

	info := indexInfo{Path: idx.Path(), Documents: count, Schema: idx.Schema()}
	return a.report(cmd, info, func(out *output.Writer) {
		out.KeyValue("Path", info.Path)
		out.KeyValue("Documents", info.Documents)
		out.Newline()
		out.Status("", "Fields:")
		for _, f := range info.Schema.Fields() {
			out.Statusf("", "  %-20s %-5s %s", f.Name, f.Type, strings.Join(fieldFlags(f), ","))
		}
	})
}

func fieldFlags(f schema.Field) []string {
	var flags []string
	if f.IsIndexed() {
		flags = append(flags, "indexed")
	}
	if f.Options.Stored {
		flags = append(flags, "stored")
	}
	if f.Options.Fast {
		flags = append(flags, "fast")
	}
	return flags
}
