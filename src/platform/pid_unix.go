//go:build unix

package platform

import "golang.org/x/sys/unix"

func processID() int { return unix.Getpid() }
