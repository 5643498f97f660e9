package main

import (
	"fmt"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
	"github.com/spf13/cobra"
)

// newOffsetCmd prints the byte range of a record (debug aid for the offset arithmetic).
func newOffsetCmd() *cobra.Command {
	var current uint64
	var target uint64

	cmd := &cobra.Command{
		Use:   "offset",
		Short: "compute the byte range of a record inside a snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			off, ok := impl.RecordOffset(current, target)
			if !ok {
				return fmt.Errorf("no record: %s", rejectReason(current, target))
			}
			cmd.Printf("offset=%d length=%d\n", off, interf.RecordSize)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&current, "current", 0, "current epoch (lookups are resolved relative to it)")
	cmd.Flags().Uint64Var(&target, "target", 0, "target epoch")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

// rejectReason names the reason why RecordOffset returned no offset.
// The lookup API folds all reasons into one 'no data' result; this tool is
// the diagnostic view for humans.
func rejectReason(current, target uint64) string {
	if current == 0 {
		return "no history exists before the first epoch"
	}
	if target >= current {
		return fmt.Sprintf("epoch %d has no record yet (current epoch is %d)", target, current)
	}
	var oldest uint64
	if current > interf.MaxEntries {
		oldest = current - interf.MaxEntries
	}
	return fmt.Sprintf("epoch %d aged out of the retention window (oldest retained epoch is %d)", target, oldest)
}
