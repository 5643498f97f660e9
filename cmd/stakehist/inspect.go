package main

import (
	"fmt"
	"io/ioutil"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	"github.com/spf13/cobra"
)

// newInspectCmd parses and validates a local snapshot file.
func newInspectCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "parse and validate a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}

			// NewHistoryFromBytes validates count bound, exact length and
			// descending contiguous epochs
			h, err := impl.NewHistoryFromBytes(b)
			if err != nil {
				return fmt.Errorf("invalid snapshot: %v", err)
			}

			cmd.Printf("size=%d records=%d\n", len(b), h.Len())
			newest, ok := h.Newest()
			if !ok {
				return nil // empty snapshot
			}
			oldest, _ := h.Oldest()
			cmd.Printf("newest=%d oldest=%d\n", newest, oldest)

			if all {
				for epoch := newest; ; epoch-- {
					e, err := h.GetEntry(epoch)
					if err != nil {
						return err
					}
					cmd.Printf("epoch=%d effective=%d activating=%d deactivating=%d\n",
						epoch, e.Effective, e.Activating, e.Deactivating)
					if epoch == oldest {
						break
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print every record (newest first)")
	return cmd
}
