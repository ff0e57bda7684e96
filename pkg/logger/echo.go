package logger

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
)

// NewEchoLogger returns an echo logger that writes through the given logrus entry.
func NewEchoLogger(entry *logrus.Entry) echo.Logger {
	return &echoLogger{entry: entry}
}

type echoLogger struct {
	entry *logrus.Entry
}

func mustMarshal(j log.JSON) string {
	b, err := json.Marshal(j)
	if err != nil {
		panic(fmt.Sprintf("unable to marshal log message: %v", j))
	}
	return string(b)
}

func (l *echoLogger) SetLevel(v log.Lvl) { /* The level is owned by the logrus configuration. */ }
func (l *echoLogger) Level() log.Lvl {
	switch l.entry.Logger.GetLevel() {
	case logrus.TraceLevel, logrus.DebugLevel:
		return log.DEBUG
	case logrus.InfoLevel:
		return log.INFO
	case logrus.WarnLevel:
		return log.WARN
	default:
		return log.ERROR
	}
}

func (l *echoLogger) SetOutput(w io.Writer) { l.entry.Logger.SetOutput(w) }
func (l *echoLogger) Output() io.Writer     { return l.entry.Logger.Out }

func (l *echoLogger) SetPrefix(p string) { /* Logrus uses fields rather than prefixes. */ }
func (l *echoLogger) Prefix() string     { return "" }

func (l *echoLogger) SetHeader(h string) { /* Logrus uses formatters rather than headers. */ }

func (l *echoLogger) Print(i ...interface{})                    { l.entry.Print(i...) }
func (l *echoLogger) Printf(format string, args ...interface{}) { l.entry.Printf(format, args...) }
func (l *echoLogger) Printj(j log.JSON)                         { l.entry.Println(mustMarshal(j)) }
func (l *echoLogger) Debug(i ...interface{})                    { l.entry.Debug(i...) }
func (l *echoLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *echoLogger) Debugj(j log.JSON)                         { l.entry.Debugln(mustMarshal(j)) }
func (l *echoLogger) Info(i ...interface{})                     { l.entry.Info(i...) }
func (l *echoLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *echoLogger) Infoj(j log.JSON)                          { l.entry.Infoln(mustMarshal(j)) }
func (l *echoLogger) Warn(i ...interface{})                     { l.entry.Warn(i...) }
func (l *echoLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *echoLogger) Warnj(j log.JSON)                          { l.entry.Warnln(mustMarshal(j)) }
func (l *echoLogger) Error(i ...interface{})                    { l.entry.Error(i...) }
func (l *echoLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *echoLogger) Errorj(j log.JSON)                         { l.entry.Errorln(mustMarshal(j)) }
func (l *echoLogger) Fatal(i ...interface{})                    { l.entry.Fatal(i...) }
func (l *echoLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }
func (l *echoLogger) Fatalj(j log.JSON)                         { l.entry.Fatalln(mustMarshal(j)) }
func (l *echoLogger) Panic(i ...interface{})                    { l.entry.Panic(i...) }
func (l *echoLogger) Panicf(format string, args ...interface{}) { l.entry.Panicf(format, args...) }
func (l *echoLogger) Panicj(j log.JSON)                         { l.entry.Panicln(mustMarshal(j)) }
