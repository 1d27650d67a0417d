//go:build unix

package procrun

import "syscall"

// forkExecUnixStrategy is the non-cgo fallback spawn strategy: it drives
// syscall.ForkExec directly instead of posix_spawn. This is the same
// primitive the standard library's os/exec uses, so the fork-safety and
// fd-remapping work is handled by the runtime rather than hand-rolled C.
type forkExecUnixStrategy struct{}

func forkExecStrategy() spawnStrategy { return forkExecUnixStrategy{} }

func (forkExecUnixStrategy) available() bool { return true }

// spawn translates the plan's dup2 actions into the fd, fd, fd triple
// syscall.ForkExec expects in attr.Files: the descriptor at position i
// becomes fd i in the child, with -1 meaning "close this fd" (inherited
// stdio is represented by passing the parent's own 0/1/2 through).
func (forkExecUnixStrategy) spawn(path string, argv, env []string, dir string, plan *descriptorPlan) (int, error) {
	files := []uintptr{uintptr(inheritedStdFD(0)), uintptr(inheritedStdFD(1)), uintptr(inheritedStdFD(2))}
	for _, a := range plan.actions {
		if a.targetFD >= 0 && a.targetFD < len(files) {
			files[a.targetFD] = uintptr(a.fd)
		}
	}

	attr := &syscall.ProcAttr{
		Dir:   dir,
		Env:   env,
		Files: files,
		Sys:   &syscall.SysProcAttr{},
	}
	pid, err := syscall.ForkExec(path, argv, attr)
	if err != nil {
		return 0, err
	}
	return pid, nil
}

// inheritedStdFD names the parent's own standard fd, used as the default
// mapping for any stream the recipe left as Inherit.
func inheritedStdFD(n int) int { return n }
