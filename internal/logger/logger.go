package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log - общий логгер приложения. До вызова Init пишет текстом в stderr.
var Log = logrus.New()

type Fields = logrus.Fields

// Init настраивает JSON-вывод в stdout. debug включает уровень Debug.
func Init(debug bool) {
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	Log.SetOutput(os.Stdout)

	if debug || os.Getenv("DEBUG") == "true" {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// Silence отключает вывод логов. Используется в тестах.
func Silence() {
	Log.SetOutput(io.Discard)
}
