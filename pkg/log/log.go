package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/v2rayA/beego/v2/logs"
)

func InitLog(logWay string, logFile string, logLevel string, maxDays int64, disableColor bool, disableTimestamp bool) {
	if logWay == "file" {
		_ = logs.SetLogger(logs.AdapterFile, fmt.Sprintf(
			`{"filename":"%s","maxdays":%d,"daily":true}`, logFile, maxDays,
		))
	} else {
		_ = logs.SetLogger(logs.AdapterConsole, fmt.Sprintf(`{"color":%v}`, !disableColor))
	}
	logs.SetLogFuncCall(false)
	switch strings.ToLower(logLevel) {
	case "trace":
		logs.SetLevel(logs.LevelDebug)
	case "debug":
		logs.SetLevel(logs.LevelDebug)
	case "info":
		logs.SetLevel(logs.LevelInformational)
	case "warn":
		logs.SetLevel(logs.LevelWarning)
	case "error":
		logs.SetLevel(logs.LevelError)
	default:
		logs.SetLevel(logs.LevelInformational)
	}
}

func Trace(format string, v ...interface{}) {
	logs.Trace(format, v...)
}

func Debug(format string, v ...interface{}) {
	logs.Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	logs.Informational(format, v...)
}

func Warn(format string, v ...interface{}) {
	logs.Warning(format, v...)
}

func Error(format string, v ...interface{}) {
	logs.Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	logs.Critical(format, v...)
	logs.GetBeeLogger().Flush()
	os.Exit(1)
}
