package io

import (
	"errors"
	"io"
	"io/fs"

	"github.com/ezrec/mipsim/cpu"
)

// LoadFile opens a file from a file system and hands it to load.
// Errors are wrapped in an *ErrFile.
func LoadFile(filesys fs.FS, name string, load func(input io.Reader) error) (err error) {
	return loadFile(filesys, name, name, load)
}

// loadFile opens path, and reports errors against name.
func loadFile(filesys fs.FS, name string, path string, load func(input io.Reader) error) (err error) {
	defer func() {
		if err != nil {
			err = &ErrFile{Name: name, Err: err}
		}
	}()

	inf, err := filesys.Open(path)
	if err != nil {
		// The *ErrFile carries the name.
		var path_err *fs.PathError
		if errors.As(err, &path_err) {
			err = path_err.Err
		}
		return
	}
	defer inf.Close()

	err = load(inf)

	return
}

// Image names the initialization files of a simulation. Empty names
// are skipped.
type Image struct {
	Registers string // Register image.
	Memory    string // Memory image.
	Program   string // Program image.

	// Path maps a name to its path in the file system. If nil, names
	// are used as paths. Errors always report the name.
	Path func(name string) string
}

func (img *Image) load(filesys fs.FS, name string, load func(input io.Reader) error) error {
	path := name
	if img.Path != nil {
		path = img.Path(name)
	}

	return loadFile(filesys, name, path, load)
}

// Unmarshal loads the register, memory and program images into a cpu
// and a new program.
//
// Load errors do not stop loading: every file is attempted, partial
// data is kept, and the errors are returned joined together. The
// program is never nil.
func (img *Image) Unmarshal(filesys fs.FS, cp *cpu.Cpu) (prog *cpu.Program, err error) {
	var errs []error

	if len(img.Registers) != 0 {
		errs = append(errs, img.load(filesys, img.Registers, func(input io.Reader) error {
			return LoadRegisters(&cp.Register, input)
		}))
	}

	if len(img.Memory) != 0 {
		errs = append(errs, img.load(filesys, img.Memory, func(input io.Reader) error {
			return LoadMemory(&cp.Memory, input)
		}))
	}

	prog = &cpu.Program{}
	if len(img.Program) != 0 {
		errs = append(errs, img.load(filesys, img.Program, func(input io.Reader) (load_err error) {
			prog, load_err = LoadProgram(input)
			return
		}))
	}

	err = errors.Join(errs...)

	return
}
