package main

import (
	"fmt"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/ezrec/mipsim/cpu"
	simio "github.com/ezrec/mipsim/io"
)

var objdumpRaw bool

// objdumpCmd lists a program
var objdumpCmd = &cobra.Command{
	Use:   "objdump program",
	Short: "Disassemble a hex program image, or an assembler source with --source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var prog *cpu.Program
		if options.source {
			prog, err = loadSource(args[0])
		} else {
			var inf *os.File
			inf, err = os.Open(args[0])
			if err != nil {
				return
			}
			defer inf.Close()
			prog, err = simio.LoadProgram(inf)
		}
		if err != nil {
			return
		}

		if objdumpRaw {
			_, err = pp.Fprintln(cmd.OutOrStdout(), prog)
			return
		}

		out := cmd.OutOrStdout()
		for pc, code := range prog.Codes() {
			_, err = fmt.Fprintf(out, "%4d: %08X  %v\n", pc, uint32(code), code)
			if err != nil {
				return
			}
		}

		return
	},
}

func init() {
	objdumpCmd.Flags().BoolVarP(&options.source, "source", "s", false, "program file is assembler source")
	objdumpCmd.Flags().BoolVar(&objdumpRaw, "raw", false, "pretty-print the program structure")
	rootCmd.AddCommand(objdumpCmd)
}
