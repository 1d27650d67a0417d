//go:build linux

package procrun

/*
#include <spawn.h>
#include <stdlib.h>
#include <signal.h>
#include <errno.h>

#ifdef __ANDROID__
#include <sys/system_properties.h>

static int pr_android_api_level(void) {
	char value[PROP_VALUE_MAX] = {0};
	if (__system_property_get("ro.build.version.sdk", value) <= 0) {
		return 0;
	}
	int level = 0;
	for (const char *c = value; *c; c++) {
		if (*c < '0' || *c > '9') break;
		level = level * 10 + (*c - '0');
	}
	return level;
}
#else
static int pr_android_api_level(void) { return 0; }
#endif
*/
import "C"

import (
	"runtime"
	"syscall"
	"unsafe"
)

// linuxPosixSpawnStrategy drives glibc/bionic posix_spawn. glibc gained
// posix_spawn_file_actions_addchdir_np in 2.29; bionic gained posix_spawn
// itself in Android API 28 and addchdir_np in API 34. There is no
// POSIX_SPAWN_CLOEXEC_DEFAULT flag on Linux/bionic; CLOEXEC hygiene here
// comes entirely from the descriptor layer.
type linuxPosixSpawnStrategy struct{}

func posixSpawnStrategy() spawnStrategy { return linuxPosixSpawnStrategy{} }

// androidAPILevel returns the running device's SDK level, or 0 if not on
// Android or the property could not be read.
func androidAPILevel() int {
	if runtime.GOOS != "android" {
		return 0
	}
	return int(C.pr_android_api_level())
}

func (linuxPosixSpawnStrategy) available() bool {
	if runtime.GOOS == "android" {
		return androidAPILevel() >= 28
	}
	return true
}

func (linuxPosixSpawnStrategy) spawn(path string, argv, env []string, dir string, plan *descriptorPlan) (int, error) {
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
		if runtime.GOOS == "android" && androidAPILevel() < 34 {
			return 0, &SpawnError{Err: errChdirUnsupported{}}
		}
		cDir := C.CString(dir)
		ret := C.posix_spawn_file_actions_addchdir_np(&fa, cDir)
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

	flags := C.short(C.POSIX_SPAWN_SETSIGDEF | C.POSIX_SPAWN_SETSIGMASK)
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
