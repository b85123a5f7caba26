package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/mipsim/emulator"
)

// Console is the line oriented operator interface. It wraps an
// io.Reader for answers and an io.Writer for prompts.
type Console struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

// readLine reads the next line of input, without its line ending.
func (con *Console) readLine() (line string, err error) {
	if con.scanner == nil {
		con.scanner = bufio.NewScanner(con.Input)
	}

	if !con.scanner.Scan() {
		err = con.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		return
	}

	line = strings.TrimRight(con.scanner.Text(), "\r")
	return
}

// Ask writes a prompt and returns the trimmed answer.
func (con *Console) Ask(prompt string) (answer string, err error) {
	_, err = fmt.Fprint(con.Output, prompt)
	if err != nil {
		return
	}

	answer, err = con.readLine()
	answer = strings.TrimSpace(answer)

	return
}

// Next blocks until the operator continues (an empty line) or quits
// ('q', or end of input). Any other answer is re-prompted.
func (con *Console) Next() (signal emulator.Signal, err error) {
	for {
		var line string
		_, err = fmt.Fprint(con.Output, f("Press Enter to execute next instruction, or 'q' to quit: "))
		if err != nil {
			return
		}

		line, err = con.readLine()
		if err == io.EOF {
			signal = emulator.SIGNAL_QUIT
			err = nil
			return
		}
		if err != nil {
			return
		}

		switch line {
		case "":
			signal = emulator.SIGNAL_CONTINUE
			return
		case "q":
			signal = emulator.SIGNAL_QUIT
			return
		}

		_, err = fmt.Fprintln(con.Output, f("Invalid input. Please try again."))
		if err != nil {
			return
		}
	}
}
