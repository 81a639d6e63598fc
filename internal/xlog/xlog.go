// Package xlog configures the engine's diagnostic logger.
//
// UCI requires stdout to carry nothing but protocol output, so the
// engine's diagnostic logging is routed to stderr through a single named
// logger, the way a long-running engine process separates its wire
// protocol from its own operational noise. The tablebase package (standard
// log) and the UCI layer (fmt.Fprintf) also write to stderr, but not
// through this logger.
package xlog

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("corvus")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
}

// Get returns the shared engine logger.
func Get() *logging.Logger { return log }

// SetDebug raises the log level to show Debug-level entries, used when the
// UCI client requests `setoption name Debug value true`.
func SetDebug(on bool) {
	level := logging.INFO
	if on {
		level = logging.DEBUG
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
