package main

import (
	"encoding/binary"
	"fmt"
	"os"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
	"github.com/spf13/cobra"
)

// newGetCmd runs the real lookup pipeline (offset, ranged read, decode)
// against a local snapshot file.
func newGetCmd() *cobra.Command {
	var current uint64
	var target uint64

	cmd := &cobra.Command{
		Use:   "get <snapshot>",
		Short: "look up one record with the random access pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fh.Close()

			// default current epoch: newest recorded epoch + 1
			// (the newest record sits directly after the count prefix)
			if current == 0 {
				var b [8]byte
				if _, err := fh.ReadAt(b[:], interf.CountPrefixSize); err != nil {
					return fmt.Errorf("can't read the newest epoch: %v", err)
				}
				current = binary.LittleEndian.Uint64(b[:]) + 1
			}

			store, err := impl.NewReaderAtStore(interf.StakeHistoryID, fh)
			if err != nil {
				return err
			}
			hist, err := impl.NewAccessor(current, store, nil, impl.DebugOff)
			if err != nil {
				return err
			}

			e, err := hist.GetEntry(target)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("no record: %s", rejectReason(current, target))
				}
				return err // fatal consistency fault or read error
			}

			cmd.Printf("epoch=%d effective=%d activating=%d deactivating=%d\n",
				target, e.Effective, e.Activating, e.Deactivating)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&current, "current", 0, "current epoch (default: newest epoch in the snapshot + 1)")
	cmd.Flags().Uint64Var(&target, "target", 0, "target epoch")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
