package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in scion's version
	VersionMajor = 0
	// VersionMinor is the minor number in scion's version
	VersionMinor = 1
	// VersionPatch is the patch number in scion's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scion",
		Long:  `All software has versions. This is scion's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scion v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
