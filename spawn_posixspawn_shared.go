//go:build darwin || linux

package procrun

/*
#include <stdlib.h>
*/
import "C"
import "unsafe"

// errChdirUnsupported is returned when a LaunchRecipe sets Dir on a
// platform/OS-version combination whose posix_spawn lacks a chdir file
// action (macOS < 10.15, Android < API 34).
type errChdirUnsupported struct{}

func (errChdirUnsupported) Error() string {
	return "changing directory via posix_spawn is not supported on this platform/OS version"
}

func makeCStringArray(ss []string) []*C.char {
	out := make([]*C.char, len(ss)+1)
	for i, s := range ss {
		out[i] = C.CString(s)
	}
	out[len(ss)] = nil
	return out
}

func freeCStringArray(cs []*C.char) {
	for _, c := range cs {
		if c != nil {
			C.free(unsafe.Pointer(c))
		}
	}
}
