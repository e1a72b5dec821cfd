// Package dbus exports a running splash on the session bus so other
// processes can update or close it, and provides the matching client.
//
// The service implements the io.github.jmylchreest.Splash interface with
// UpdateMessage, UpdateColor, Step, SetProgress, Close and Status methods
// and emits a Closed signal when the splash goes away.
package dbus
