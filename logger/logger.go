package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Init mirrors the log output to a dated file under dir. Without it logs go to stdout only.
func Init(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	fileName := filepath.Join(dir, fmt.Sprintf("app_%s.log", time.Now().Format("02-01-2006")))
	logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetLevel(log.LevelInfo)
	log.Info("🚀 Logger initialized successfully!")
	return nil
}

// SetLevel changes the minimum level that is written.
func SetLevel(level log.Level) {
	log.SetLevel(level)
}

func Success(message string) {
	log.Info("✅ " + message)
}

func Error(message string, err error) {
	if err != nil {
		log.Error("❌ " + message + ": " + err.Error())
	} else {
		log.Error("❌ " + message)
	}
}

func Warning(message string) {
	log.Warn("⚠️ " + message)
}

func Debug(message string) {
	log.Debug("🐛 " + message)
}

func Info(message string) {
	log.Info("ℹ️ " + message)
}

func Fatal(message string) {
	log.Fatal("💥 " + message)
	os.Exit(1)
}

func Printf(format string, args ...interface{}) {
	log.Info(fmt.Sprintf("📝 "+format, args...))
}

// Infow logs with key/value context, e.g. Infow("Booking submitted", "trackingId", id).
func Infow(message string, keysAndValues ...interface{}) {
	log.Infow("ℹ️ "+message, keysAndValues...)
}

func Warnw(message string, keysAndValues ...interface{}) {
	log.Warnw("⚠️ "+message, keysAndValues...)
}

func Errorw(message string, keysAndValues ...interface{}) {
	log.Errorw("❌ "+message, keysAndValues...)
}
