// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/mipsim/cpu"
	"github.com/ezrec/mipsim/internal"
)

var _emulator_defines = map[string]string{
	"PC_START": "0",
}

// Mode selects whether the emulator pauses after every instruction.
type Mode int

const (
	MODE_RUN_ALL     = Mode(0) // Run_All
	MODE_SINGLE_STEP = Mode(1) // Single_Step
)

func (mode Mode) String() string {
	if mode == MODE_SINGLE_STEP {
		return "Single_Step"
	}
	return "Run_All"
}

// ParseMode parses the literal mode selector strings.
func ParseMode(text string) (mode Mode, err error) {
	switch text {
	case "Single_Step":
		mode = MODE_SINGLE_STEP
	case "Run_All":
		mode = MODE_RUN_ALL
	default:
		err = fmt.Errorf("%w: %q", ErrModeInvalid, text)
	}
	return
}

// Policy selects whether illegal instructions are reported to the operator.
type Policy int

const (
	POLICY_AUTO    = Policy(0) // auto: report only in single step mode
	POLICY_VERBOSE = Policy(1) // verbose
	POLICY_SILENT  = Policy(2) // silent
)

func (policy Policy) String() string {
	switch policy {
	case POLICY_VERBOSE:
		return "verbose"
	case POLICY_SILENT:
		return "silent"
	}
	return "auto"
}

// ParsePolicy parses a report policy name.
func ParsePolicy(text string) (policy Policy, err error) {
	switch text {
	case "auto", "":
		policy = POLICY_AUTO
	case "verbose":
		policy = POLICY_VERBOSE
	case "silent":
		policy = POLICY_SILENT
	default:
		err = fmt.Errorf("%w: %q", ErrPolicyInvalid, text)
	}
	return
}

// State of the control flow.
type State int

const (
	STATE_RUNNING   = State(0) // running
	STATE_HALTED    = State(1) // halted
	STATE_USER_QUIT = State(2) // quit
)

func (state State) String() string {
	switch state {
	case STATE_HALTED:
		return "halted"
	case STATE_USER_QUIT:
		return "quit"
	}
	return "running"
}

// TraceSink receives one trace record per executed instruction, in
// program order.
type TraceSink interface {
	Trace(trace *cpu.Trace) error
}

// Signal is the operator's answer to a single step pause.
type Signal int

const (
	SIGNAL_CONTINUE = Signal(0) // continue
	SIGNAL_QUIT     = Signal(1) // quit
)

func (sig Signal) String() string {
	if sig == SIGNAL_QUIT {
		return "quit"
	}
	return "continue"
}

// Continuation is the source of operator decisions in single step mode.
// Next blocks until the operator answers.
type Continuation interface {
	Next() (signal Signal, err error)
}

// Emulator state. CPU + program + control flow.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the CPU simulation.
	Program  *cpu.Program   // Reference to the currently running program.
	Log      *logrus.Logger // Operator reports and verbose logging.

	Mode         Mode         // Run mode.
	Policy       Policy       // Illegal instruction reporting policy.
	Sink         TraceSink    // Trace record destination, may be nil.
	Continuation Continuation // Single step operator input.
	Output       io.Writer    // Single step status and final state report.

	Pc      int   // Program counter, an index into Program.
	State   State // Control flow state.
	Ticks   int   // Instructions executed since reset.
	Illegal int   // Illegal instructions skipped since reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Log:     logrus.New(),
		Output:  io.Discard,
	}

	emu.Cpu.Log = emu.Log

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the control flow to the start of the program.
// Registers and memory are not touched.
func (emu *Emulator) Reset() {
	emu.Pc = 0
	emu.State = STATE_RUNNING
	emu.Ticks = 0
	emu.Illegal = 0

	emu.Cpu.Log = emu.Log
	if emu.Verbose {
		emu.Log.SetLevel(logrus.DebugLevel)
	}
}

// LineNo returns the source line number of the instruction at the
// program counter, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Pc)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Report returns true if illegal instructions are reported to the
// operator.
func (emu *Emulator) Report() bool {
	switch emu.Policy {
	case POLICY_VERBOSE:
		return true
	case POLICY_SILENT:
		return false
	}

	return emu.Mode == MODE_SINGLE_STEP
}

// Tick executes a single instruction, and advances the program counter.
// done is set once the program counter leaves the program.
//
// Illegal instructions are skipped. Any other failure halts the
// emulator and is returned as an *ErrRuntime.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			emu.State = STATE_HALTED
			done = true
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.State != STATE_RUNNING {
		done = true
		return
	}

	code, ok := emu.Program.Fetch(pc)
	if !ok {
		if pc < 0 {
			err = ErrPcInvalid
			return
		}
		emu.State = STATE_HALTED
		done = true
		return
	}

	effect, err := emu.Cpu.Execute(code)
	emu.Ticks++
	if errors.Is(err, cpu.ErrIllegalInstruction) {
		emu.Illegal++
		if emu.Report() {
			emu.Log.WithFields(logrus.Fields{
				"pc":   pc,
				"code": fmt.Sprintf("0x%08X", uint32(code)),
			}).Warn(f("Error: %v", err))
		}
		emu.Pc = pc + 1
		err = nil
		return
	}
	if err != nil {
		return
	}

	if emu.Sink != nil {
		err = emu.Sink.Trace(effect.Trace)
		if err != nil {
			return
		}
	}

	emu.Pc = effect.Directive.Apply(pc)

	if emu.Verbose {
		emu.Log.WithFields(logrus.Fields{
			"pc":        pc,
			"directive": effect.Directive.String(),
			"next":      emu.Pc,
		}).Debug("emulator: tick")
	}

	return
}

// pause blocks for the operator after a single step.
func (emu *Emulator) pause(code cpu.Code) (err error) {
	if emu.Continuation == nil {
		err = ErrContinuationMissing
		return
	}

	err = WriteStatus(emu.Output, emu.Pc, code, emu.Cpu)
	if err != nil {
		return
	}

	signal, err := emu.Continuation.Next()
	if err != nil {
		return
	}

	if signal == SIGNAL_QUIT {
		emu.State = STATE_USER_QUIT
		err = ErrUserQuit
	}

	return
}

// Run executes from the current program counter until the program
// counter leaves the program.
//
// In single step mode, Run pauses after every instruction and returns
// ErrUserQuit if the operator quits. In run all mode, the final
// register and memory state is written to Output once halted.
func (emu *Emulator) Run() (err error) {
	for {
		code, _ := emu.Program.Fetch(emu.Pc)

		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if done {
			break
		}

		if emu.Mode == MODE_SINGLE_STEP {
			err = emu.pause(code)
			if err != nil {
				return
			}
		}
	}

	if emu.Mode == MODE_RUN_ALL {
		err = WriteState(emu.Output, emu.Cpu)
	}

	return
}
