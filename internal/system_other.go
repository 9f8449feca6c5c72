//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package internal

import "runtime"

// PlatformVersion describes the host operating system. Without uname, only
// the GOOS name is known.
func PlatformVersion() string {
	return runtime.GOOS
}
