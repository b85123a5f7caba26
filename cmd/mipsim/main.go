// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ezrec/mipsim/cpu"
	"github.com/ezrec/mipsim/emulator"
	simio "github.com/ezrec/mipsim/io"
)

var options struct {
	registers string
	memory    string
	program   string
	source    bool
	mode      string
	results   string
	report    string
	verbose   bool
}

// rootCmd runs a simulation
var rootCmd = &cobra.Command{
	Use:   "mipsim",
	Short: "MIPS subset simulator",
	Long: `Mipsim executes a program of MIPS instruction words against
initial register and memory images, writing a per-instruction trace
to the results file.

The program and mode are prompted for when not given as flags.
`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if options.verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return simulate(cmd)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&options.registers, "registers", "Reg_Init_File.txt", "register initialization file")
	flags.StringVar(&options.memory, "memory", "Mem_Init_File.txt", "memory initialization file")
	flags.StringVarP(&options.program, "program", "p", "", "program file")
	flags.BoolVarP(&options.source, "source", "s", false, "program file is assembler source")
	flags.StringVarP(&options.mode, "mode", "m", "", "Single_Step or Run_All")
	flags.StringVarP(&options.results, "results", "o", "results.txt", "trace results file")
	flags.StringVar(&options.report, "report", "auto", "illegal instruction reports: auto, verbose or silent")

	rootCmd.PersistentFlags().BoolVarP(&options.verbose, "verbose", "v", false, "verbose logging")
}

// loadSource assembles a program from a source file.
func loadSource(name string) (prog *cpu.Program, err error) {
	inf, err := os.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	emu := emulator.NewEmulator()

	asm := &cpu.Assembler{Verbose: options.verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
	}

	return
}

// rooted converts a file name to a path in the root file system.
func rooted(name string) string {
	if len(name) == 0 {
		return name
	}

	path, err := filepath.Abs(name)
	if err != nil {
		return name
	}

	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}

func simulate(cmd *cobra.Command) (err error) {
	console := &simio.Console{
		Input:  cmd.InOrStdin(),
		Output: cmd.OutOrStdout(),
	}

	if len(options.program) == 0 {
		options.program, err = console.Ask("Enter the program file name (e.g., Program.asm): ")
		if err != nil {
			return
		}
	}

	if len(options.mode) == 0 {
		options.mode, err = console.Ask("Enter mode (Single_Step or Run_All): ")
		if err != nil {
			return
		}
	}

	mode, err := emulator.ParseMode(options.mode)
	if err != nil {
		return
	}

	policy, err := emulator.ParsePolicy(options.report)
	if err != nil {
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = options.verbose
	emu.Log = logrus.StandardLogger()
	emu.Mode = mode
	emu.Policy = policy
	emu.Continuation = console
	emu.Output = cmd.OutOrStdout()

	img := &simio.Image{
		Registers: options.registers,
		Memory:    options.memory,
		Path:      rooted,
	}
	if !options.source {
		img.Program = options.program
	}

	// Missing or malformed images leave zeroed state; keep going.
	prog, load_err := img.Unmarshal(os.DirFS("/"), emu.Cpu)
	if load_err != nil {
		logrus.WithError(load_err).Warn("mipsim: load")
	}

	if options.source {
		prog, err = loadSource(options.program)
		if err != nil {
			return
		}
	}
	emu.Program = prog

	ouf, err := os.Create(options.results)
	if err != nil {
		return
	}
	defer ouf.Close()

	writer := &simio.TraceWriter{Output: ouf}
	err = writer.Header()
	if err != nil {
		return
	}
	emu.Sink = writer

	emu.Reset()
	err = emu.Run()
	if errors.Is(err, emulator.ErrUserQuit) {
		// Quit ends the simulation without further output.
		return nil
	}
	if err != nil {
		return
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Simulation complete. Results written to %s\n", options.results)

	return
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		logrus.Fatalf("%v: %v", rootCmd.Name(), err)
	}
}
