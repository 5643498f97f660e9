package main

import (
	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	"github.com/spf13/cobra"
)

// newDemoCmd publishes the deterministic demo snapshots into a directory.
func newDemoCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "write the demo snapshots to a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := impl.NewFileStore(dir, impl.DebugLow)
			if err != nil {
				return err
			}
			defer func() { _ = ws.Close() }()

			if err := impl.InitDemo(ws); err != nil {
				return err
			}
			cmd.Printf("demo snapshots written to %s\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "target directory for the snapshot files")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
