package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogAll

var logger = newLogger(os.Stderr)

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogSystem
	LogOpenGL
	LogIO
	LogECS
	LogStream
	LogInput

	LogAll = LogVoxel | LogSystem | LogOpenGL | LogIO | LogECS | LogStream | LogInput
)

var categoryNames = map[LogCategory]string{
	LogVoxel:  "voxel",
	LogSystem: "system",
	LogOpenGL: "opengl",
	LogIO:     "io",
	LogECS:    "ecs",
	LogStream: "stream",
	LogInput:  "input",
}

var levelNames = map[string]LogLevel{
	"error":   LogLevelError,
	"warning": LogLevelWarning,
	"warn":    LogLevelWarning,
	"info":    LogLevelInfo,
	"debug":   LogLevelDebug,
}

func (c LogCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.DebugLevel)
	colors := false
	if f, ok := out.(*os.File); ok {
		colors = term.IsTerminal(int(f.Fd()))
	}
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:      colors,
		DisableColors:    !colors,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05.000",
		DisableSorting:   false,
		PadLevelText:     true,
		QuoteEmptyFields: true,
	})
	return l
}

func ParseLogLevel(name string) (LogLevel, error) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

// ParseLogCategories accepts category names or "all".
func ParseLogCategories(names []string) (LogCategory, error) {
	var result LogCategory
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			return LogAll, nil
		}
		found := false
		for cat, catName := range categoryNames {
			if catName == name {
				result |= cat
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Errorf("unknown log category %q", name)
		}
	}
	return result, nil
}

// ConfigureLogging sets the global filter and output. A nil writer keeps the current output.
func ConfigureLogging(level string, categories []string, out io.Writer) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	cats := LogAll
	if len(categories) > 0 {
		if cats, err = ParseLogCategories(categories); err != nil {
			return err
		}
	}
	GLOBAL_LOG_LEVEL = lvl
	GLOBAL_LOG_CATEGORIES = cats
	if out != nil {
		logger = newLogger(out)
	}
	return nil
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	entry := logger.WithField("category", cat.String())
	switch lvl {
	case LogLevelError:
		entry.Error(txt)
	case LogLevelWarning:
		entry.Warn(txt)
	case LogLevelDebug:
		entry.Debug(txt)
	default:
		entry.Info(txt)
	}
}

func LogVoxelInfo(txt string) {
	log(LogVoxel, LogLevelInfo, txt)
}

func LogVoxelDebug(txt string) {
	log(LogVoxel, LogLevelDebug, txt)
}
func LogVoxelError(txt string) {
	log(LogVoxel, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogSystemDebug(txt string) {
	log(LogSystem, LogLevelDebug, txt)
}

func LogSystemError(txt string) {
	log(LogSystem, LogLevelError, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogECSInfo(txt string) {
	log(LogECS, LogLevelInfo, txt)
}

func LogECSDebug(txt string) {
	log(LogECS, LogLevelDebug, txt)
}

func LogStreamDebug(txt string) {
	log(LogStream, LogLevelDebug, txt)
}

func LogStreamInfo(txt string) {
	log(LogStream, LogLevelInfo, txt)
}

func LogStreamWarning(txt string) {
	log(LogStream, LogLevelWarning, txt)
}

func LogStreamError(txt string) {
	log(LogStream, LogLevelError, txt)
}

func LogInputDebug(txt string) {
	log(LogInput, LogLevelDebug, txt)
}

func LogGlInfo(txt string) {
	log(LogOpenGL, LogLevelInfo, txt)
}

func LogGlDebug(txt string) {
	log(LogOpenGL, LogLevelDebug, txt)
}

func LogGlError(txt string) {
	log(LogOpenGL, LogLevelError, txt)
}

func LogGlWarning(txt string) {
	log(LogOpenGL, LogLevelWarning, txt)
}
