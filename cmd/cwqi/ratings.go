package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/spf13/cobra"
)

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "List the rating bands and their score thresholds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(cwqi.Ratings)
		}
		fmt.Fprint(os.Stdout, renderRatings(cwqi.Ratings))
		return nil
	},
}
