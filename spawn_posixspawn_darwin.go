//go:build darwin

package procrun

/*
#include <spawn.h>
#include <stdlib.h>
#include <signal.h>
#include <errno.h>

extern int posix_spawn_file_actions_addchdir(posix_spawn_file_actions_t *fa, const char *path) __attribute__((weak_import));
#pragma clang diagnostic push
#pragma clang diagnostic ignored "-Wdeprecated-declarations"
extern int posix_spawn_file_actions_addchdir_np(posix_spawn_file_actions_t *fa, const char *path) __attribute__((weak_import));
#pragma clang diagnostic pop

static int pr_add_chdir(posix_spawn_file_actions_t *fa, const char *path) {
	if (posix_spawn_file_actions_addchdir != NULL) {
		return posix_spawn_file_actions_addchdir(fa, path);
	}
	#pragma clang diagnostic push
	#pragma clang diagnostic ignored "-Wdeprecated-declarations"
	if (posix_spawn_file_actions_addchdir_np != NULL) {
		return posix_spawn_file_actions_addchdir_np(fa, path);
	}
	#pragma clang diagnostic pop
	return ENOSYS;
}

static int pr_has_chdir(void) {
	if (posix_spawn_file_actions_addchdir != NULL) return 1;
	#pragma clang diagnostic push
	#pragma clang diagnostic ignored "-Wdeprecated-declarations"
	int r = posix_spawn_file_actions_addchdir_np != NULL ? 1 : 0;
	#pragma clang diagnostic pop
	return r;
}
*/
import "C"

import (
	"syscall"
	"unsafe"
)

// darwinPosixSpawnStrategy drives posix_spawn via posix_spawn_file_actions_t,
// parameterized over a descriptorPlan so it can serve any recipe built by
// a Builder.
type darwinPosixSpawnStrategy struct{}

func posixSpawnStrategy() spawnStrategy { return darwinPosixSpawnStrategy{} }

func (darwinPosixSpawnStrategy) available() bool { return true }

func (darwinPosixSpawnStrategy) spawn(path string, argv, env []string, dir string, plan *descriptorPlan) (int, error) {
	var fa C.posix_spawn_file_actions_t
	if ret := C.posix_spawn_file_actions_init(&fa); ret != 0 {
		return 0, syscall.Errno(ret)
	}
	defer C.posix_spawn_file_actions_destroy(&fa)

	for _, a := range plan.actions {
		if ret := C.posix_spawn_file_actions_adddup2(&fa, C.int(a.fd), C.int(a.targetFD)); ret != 0 {
			return 0, syscall.Errno(ret)
		}
	}

	if dir != "" {
		if C.pr_has_chdir() == 0 {
			return 0, &SpawnError{Err: errChdirUnsupported{}}
		}
		cDir := C.CString(dir)
		ret := C.pr_add_chdir(&fa, cDir)
		C.free(unsafe.Pointer(cDir))
		if ret != 0 {
			return 0, syscall.Errno(ret)
		}
	}

	var attr C.posix_spawnattr_t
	if ret := C.posix_spawnattr_init(&attr); ret != 0 {
		return 0, syscall.Errno(ret)
	}
	defer C.posix_spawnattr_destroy(&attr)

	const cloexecDefault = 0x4000 // POSIX_SPAWN_CLOEXEC_DEFAULT, macOS-specific
	flags := C.short(cloexecDefault | C.POSIX_SPAWN_SETSIGDEF | C.POSIX_SPAWN_SETSIGMASK)
	C.posix_spawnattr_setflags(&attr, flags)

	var sigdefault, sigmask C.sigset_t
	C.sigfillset(&sigdefault)
	C.sigemptyset(&sigmask)
	C.posix_spawnattr_setsigdefault(&attr, &sigdefault)
	C.posix_spawnattr_setsigmask(&attr, &sigmask)

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	cArgv := makeCStringArray(argv)
	defer freeCStringArray(cArgv)
	cEnv := makeCStringArray(env)
	defer freeCStringArray(cEnv)

	var pid C.pid_t
	ret := C.posix_spawn(&pid, cPath, &fa, &attr,
		(**C.char)(unsafe.Pointer(&cArgv[0])),
		(**C.char)(unsafe.Pointer(&cEnv[0])))
	if ret != 0 {
		return 0, syscall.Errno(ret)
	}
	return int(pid), nil
}
