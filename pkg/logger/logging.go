package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger

// InitLogger sets up the global logger writing to stdout and, when a
// log directory can be created, to logs/server.log as well.
func InitLogger() {
	writers := []io.Writer{os.Stdout}

	if err := os.MkdirAll("logs", os.ModePerm); err == nil {
		file, err := os.OpenFile("logs/server.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err == nil {
			writers = append(writers, file)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)

	Log = zerolog.New(multi).With().Timestamp().Logger()
}
