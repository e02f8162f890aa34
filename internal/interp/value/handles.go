/*
File    : ruchy/internal/interp/value/handles.go
*/

package value

import (
	"fmt"
	"os"
	"os/exec"
)

// FileHandle wraps an open *os.File as a first-class runtime value,
// generalizing go-mix's file.File (which itself just wraps *os.File
// behind an explicit Close()) to the handle-with-explicit-.close()
// contract the concurrency/resource model requires.
type FileHandle struct {
	Path   string
	File   *os.File
	Closed bool
}

func (v *FileHandle) Kind() Kind      { return KindFile }
func (v *FileHandle) String() string  { return fmt.Sprintf("<file %s>", v.Path) }
func (v *FileHandle) Inspect() string { return v.String() }

func (v *FileHandle) Close() error {
	if v.Closed {
		return nil
	}
	v.Closed = true
	return v.File.Close()
}

// ProcessHandle wraps a spawned child process, with explicit .wait()/
// .kill() methods rather than a finalizer, matching FileHandle's
// explicit-close discipline.
type ProcessHandle struct {
	Cmd    *exec.Cmd
	Pid    int
	done   bool
	exitCh chan error
}

func NewProcessHandle(cmd *exec.Cmd) *ProcessHandle {
	ph := &ProcessHandle{Cmd: cmd, Pid: cmd.Process.Pid, exitCh: make(chan error, 1)}
	go func() { ph.exitCh <- cmd.Wait() }()
	return ph
}

func (v *ProcessHandle) Kind() Kind      { return KindProcess }
func (v *ProcessHandle) String() string  { return fmt.Sprintf("<process %d>", v.Pid) }
func (v *ProcessHandle) Inspect() string { return v.String() }

// Wait blocks until the process exits (reaping it, avoiding a zombie)
// and returns its exit code.
func (v *ProcessHandle) Wait() (int, error) {
	if v.done {
		return 0, nil
	}
	err := <-v.exitCh
	v.done = true
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (v *ProcessHandle) Kill() error {
	if v.done {
		return nil
	}
	return v.Cmd.Process.Kill()
}
