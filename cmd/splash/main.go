// Package main provides the splash command line tool.
package main

import "runtime"

func init() {
	// GTK must be driven from the thread that initialized it.
	runtime.LockOSThread()
}

func main() {
	Execute()
}
