package bot

import (
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// newAPILogger builds the rotating file logger that captures the Bot API
// client's debug output, keeping it out of the console log.
func newAPILogger(dir string) *zap.SugaredLogger {
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "botapi.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	})
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), w, zapcore.InfoLevel)
	return zap.New(core).Sugar()
}

// botAPILogger adapts a zap logger to the tgbotapi.BotLogger interface.
type botAPILogger struct {
	s *zap.SugaredLogger
}

func (l botAPILogger) Println(v ...interface{}) {
	l.s.Infoln(v...)
}

func (l botAPILogger) Printf(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}
