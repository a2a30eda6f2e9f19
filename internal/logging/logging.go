package logging

import "github.com/sadlil/gologger"

var Logger = gologger.GetLogger(gologger.CONSOLE, gologger.SimpleLog)

// SetLogger switches to a file logger when LOG_FILE is configured.
func SetLogger(fileLog string) {
	if fileLog == "" {
		Logger = gologger.GetLogger(gologger.CONSOLE, gologger.SimpleLog)
		return
	}
	Logger = gologger.GetLogger(gologger.FILE, fileLog)
	Logger.Info("Start program")
}
