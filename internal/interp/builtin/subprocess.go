/*
File    : ruchy/internal/interp/builtin/subprocess.go
*/

// subprocess.go generalizes go-mix's std/os.go process helpers to the
// spawn/wait/kill/reap_all/reap_zombies contract the concurrency model
// names: every spawned child must be reaped by an explicit call, never
// left to a finalizer.
package builtin

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

var (
	liveProcesses   = make(map[int]*value.ProcessHandle)
	liveProcessesMu sync.Mutex
)

func trackProcess(ph *value.ProcessHandle) {
	liveProcessesMu.Lock()
	defer liveProcessesMu.Unlock()
	liveProcesses[ph.Pid] = ph
}

func untrackProcess(pid int) {
	liveProcessesMu.Lock()
	defer liveProcessesMu.Unlock()
	delete(liveProcesses, pid)
}

func init() {
	registerFunc("spawn", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("spawn expects at least a program name")
		}
		name, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		argv := make([]string, 0, len(args)-1)
		for i := 1; i < len(args); i++ {
			s, err := strArg(args, i)
			if err != nil {
				return nil, err
			}
			argv = append(argv, s)
		}
		cmd := exec.Command(name, argv...)
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("spawn: %w", err)
		}
		ph := value.NewProcessHandle(cmd)
		trackProcess(ph)
		return ph, nil
	})

	registerMethod(value.KindProcess, "wait", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		ph := receiver.(*value.ProcessHandle)
		code, err := ph.Wait()
		untrackProcess(ph.Pid)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(code)}, nil
	})
	registerMethod(value.KindProcess, "kill", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		ph := receiver.(*value.ProcessHandle)
		err := ph.Kill()
		untrackProcess(ph.Pid)
		return &value.Unit{}, err
	})

	registerFunc("reap_all", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		liveProcessesMu.Lock()
		pending := make([]*value.ProcessHandle, 0, len(liveProcesses))
		for _, ph := range liveProcesses {
			pending = append(pending, ph)
		}
		liveProcessesMu.Unlock()
		count := 0
		for _, ph := range pending {
			if _, err := ph.Wait(); err == nil {
				count++
			}
			untrackProcess(ph.Pid)
		}
		return &value.Int{Value: int64(count)}, nil
	})

	registerFunc("reap_zombies", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		return Functions["reap_all"](rt, args)
	})
}
