package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/render"
)

// newFingerprintCmd creates the fingerprint command. The printed digest
// is the cache key a render of the same description and style would use,
// so scripts can probe or invalidate entries without rendering anything.
func newFingerprintCmd() *cobra.Command {
	var format string
	styling := styleFlags{}

	cmd := &cobra.Command{
		Use:   "fingerprint [file]",
		Short: "Print the content fingerprint of a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadDescriptionFile(args[0])
			if err != nil {
				return fmt.Errorf("load description %s: %w", args[0], err)
			}

			st := styling.style()
			st.Format = format

			fp, err := render.Fingerprint(g, st)
			if err != nil {
				return err
			}

			printKeyValue("fingerprint", fp)
			printKeyValue("seed", fmt.Sprintf("%d", render.Seed(fp)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "format the fingerprint covers: svg (default), png")
	styling.register(cmd)

	return cmd
}
