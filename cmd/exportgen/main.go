// Command exportgen writes the cgo export shims for cmd/libdocindex.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/docindex/internal/exportgen"
)

func main() {
	var outPath string

	cmd := &cobra.Command{
		Use:           "exportgen",
		Short:         "Generate libdocindex export shims",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := exportgen.Generate(&buf, exportgen.Namespaces(), exportgen.Exports()); err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return os.WriteFile(outPath, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "exportgen: %v\n", err)
		os.Exit(1)
	}
}
