package util

import (
	"fmt"
	"os"
	"sync"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogNav | LogIO | LogSystem

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelDebug
	LogLevelInfo
)

type LogCategory int

const (
	LogNav LogCategory = 1 << iota
	LogMap
	LogSystem
	LogIO
	LogSearch
)

var (
	logMu  sync.Mutex
	logOut = func(txt string) { fmt.Fprintln(os.Stderr, txt) }
)

// SetLogOutput replaces the sink used by all Log* helpers. Passing nil mutes logging.
func SetLogOutput(out func(txt string)) {
	logMu.Lock()
	defer logMu.Unlock()
	if out == nil {
		logOut = func(string) {}
		return
	}
	logOut = out
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	logMu.Lock()
	out := logOut
	logMu.Unlock()
	out(txt)
}

func LogNavInfo(txt string) {
	log(LogNav, LogLevelInfo, txt)
}

func LogNavDebug(txt string) {
	log(LogNav, LogLevelDebug, txt)
}

func LogNavWarning(txt string) {
	log(LogNav, LogLevelWarning, txt)
}

func LogNavError(txt string) {
	log(LogNav, LogLevelError, txt)
}

func LogMapInfo(txt string) {
	log(LogMap, LogLevelInfo, txt)
}

func LogMapDebug(txt string) {
	log(LogMap, LogLevelDebug, txt)
}

func LogMapError(txt string) {
	log(LogMap, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogSearchDebug(txt string) {
	log(LogSearch, LogLevelDebug, txt)
}
