package main

import (
	"fmt"
	"io/ioutil"

	impl "github.com/SchnorcherSepp/stakehist/defaultimpl"
	"github.com/SchnorcherSepp/stakehist/gdrive"
	interf "github.com/SchnorcherSepp/stakehist/interfaces"
	"github.com/spf13/cobra"
)

// newPublishCmd uploads a snapshot file to the Google Drive folder.
func newPublishCmd() *cobra.Command {
	var id string
	var cred string
	var token string
	var parent string
	var indexCache string

	cmd := &cobra.Command{
		Use:   "publish <snapshot>",
		Short: "upload a snapshot to the drive folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}

			// never publish an invalid snapshot
			if _, err := impl.NewHistoryFromBytes(b); err != nil {
				return fmt.Errorf("invalid snapshot: %v", err)
			}

			oauth, err := gdrive.OAuth(cred, token, false)
			if err != nil {
				return err
			}
			ws := gdrive.NewGStore(parent, indexCache, oauth, impl.DebugLow)
			defer func() { _ = ws.Close() }()

			// the index is needed to trash replaced versions
			if err := ws.Update(); err != nil {
				return err
			}
			if err := ws.Publish(id, b); err != nil {
				return err
			}

			cmd.Printf("published %d byte as '%s'\n", len(b), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", interf.StakeHistoryID, "resource id (drive file name)")
	cmd.Flags().StringVar(&cred, "cred", "client_credentials.json", "oauth client credentials file")
	cmd.Flags().StringVar(&token, "token", "token_write.json", "oauth token file (write access)")
	cmd.Flags().StringVar(&parent, "parent", "root", "drive folder id with the snapshots")
	cmd.Flags().StringVar(&indexCache, "index-cache", "indexcache.dat", "index cache file")
	return cmd
}
