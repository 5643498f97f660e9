// Command stakehist maintains and inspects stake history snapshots.
// The lookup side of the library never needs this tool: it is the off-process
// writer/maintainer for the snapshot resources.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "stakehist",
		Short:         "maintain and inspect stake history snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newOffsetCmd(),
		newInspectCmd(),
		newGetCmd(),
		newDemoCmd(),
		newPublishCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Printf("ERROR: main: %v", err)
		os.Exit(1)
	}
}
