package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"civics-quiz-service/internal/infra/file"
	"github.com/spf13/cobra"
)

// NewImportCmd converts a TSV question sheet into a JSON pool file.
func NewImportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <sheet.tsv>",
		Short: "Convert a TSV question sheet into a JSON pool file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return runImport(in, out, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runImport(in io.Reader, out io.Writer, target string) error {
	questions, err := file.ParseTSV(in)
	if err != nil {
		return err
	}
	if err := file.WritePool(out, questions); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	if target != "" && target != "-" {
		log.Printf("converted %d questions to %s", len(questions), target)
	}
	return nil
}
