//go:build !unix

package collector

import "syscall"

func reuseAddrControl(_, _ string, _ syscall.RawConn) error { return nil }
