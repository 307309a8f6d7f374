package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"
)

// LogFormatter log formatter structure
type LogFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

// Format format entry in custom format
func (f *LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	level := f.LevelDesc[entry.Level]
	msg := fmt.Sprintf("%s [%s] %s\n", timestamp, level, entry.Message)
	return []byte(msg), nil
}

// OpenLog initializes the rotating file log. Level comes from LOG_LEVEL,
// directory from LOG_DIRECTORY, retention in days from LOG_FILE_MAX_AGE.
func OpenLog() {
	logFormatter := &LogFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		LevelDesc:       []string{"PANIC", "FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"},
	}
	log.SetFormatter(logFormatter)

	if os.Getenv("LOG_LEVEL") == "DEBUG" {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	logDirectory := os.Getenv("LOG_DIRECTORY")
	if logDirectory == "" {
		logDirectory = "./logs"
	}

	logFileMaxAge, err := strconv.Atoi(os.Getenv("LOG_FILE_MAX_AGE"))
	if err != nil || logFileMaxAge <= 0 {
		logFileMaxAge = 2 // days
	}

	if err := os.MkdirAll(logDirectory, 0755); err != nil {
		fmt.Println("Error creating log folder:", err)
		os.Exit(1)
	}

	rl, err := rotatelogs.New(
		filepath.Join(logDirectory, "%Y-%m-%d-%H.log"),
		rotatelogs.WithLinkName(filepath.Join(logDirectory, "monitor.log")),
		rotatelogs.WithRotationTime(time.Hour),
		rotatelogs.WithMaxAge(time.Duration(logFileMaxAge)*24*time.Hour),
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	log.SetOutput(rl)
}

// WriteLog writes a log entry at the specified level with UUID and message
func WriteLog(level string, UUID string, key string, message interface{}) {
	if UUID == "" {
		UUID = "no-uuid-found"
	}

	entry := fmt.Sprintf("[%v] [%v] | %+v", key, UUID, message)
	switch level {
	case "ERROR":
		log.Error(entry)
	case "WARN":
		log.Warn(entry)
	case "DEBUG":
		log.Debug(entry)
	default:
		log.Info(entry)
	}
}
