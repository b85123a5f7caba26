package main

import (
	"os"

	"github.com/spf13/cobra"

	simio "github.com/ezrec/mipsim/io"
)

var asmOutput string

// asmCmd assembles source to a hex program image
var asmCmd = &cobra.Command{
	Use:   "asm source",
	Short: "Assemble a source file to a hex program image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := loadSource(args[0])
		if err != nil {
			return
		}

		if len(asmOutput) == 0 || asmOutput == "-" {
			return simio.WriteHex(cmd.OutOrStdout(), prog)
		}

		ouf, err := os.Create(asmOutput)
		if err != nil {
			return
		}
		defer ouf.Close()

		return simio.WriteHex(ouf, prog)
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutput, "output", "o", "-", "program image file")
	rootCmd.AddCommand(asmCmd)
}
