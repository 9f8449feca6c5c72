//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package internal

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	platformVersion     string
	platformVersionOnce sync.Once
)

// PlatformVersion describes the host kernel as "sysname release", or
// "unknown" if uname fails. It is bound to the platform global.
func PlatformVersion() string {
	platformVersionOnce.Do(func() {
		var uname unix.Utsname
		if unix.Uname(&uname) != nil {
			// If uname failed, we don't have anything else to try.
			platformVersion = "unknown"
			return
		}
		s, r := uname.Sysname[:], uname.Release[:]
		platformVersion = fmt.Sprintf("%s %s", bytes.Trim(s, "\x00"), bytes.Trim(r, "\x00"))
	})
	return platformVersion
}
