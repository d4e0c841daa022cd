package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 全局日志器
var Logger zerolog.Logger

// devOpsLogging 开启后坏链警告以Azure DevOps日志命令格式输出
var devOpsLogging bool

// annotationOut CI注解的输出位置, DevOps代理从标准输出读取日志命令
var annotationOut io.Writer = os.Stdout

// LogConfig 日志配置
type LogConfig struct {
	Level      string // 日志级别: trace, debug, info, warn, error
	LogDir     string // 日志目录, 为空时只输出到控制台
	MaxSize    int    // 单个日志文件最大大小(MB)
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩旧日志
	DevOps     bool   // 警告使用CI注解格式
	NoColor    bool   // 控制台不使用颜色
}

// DefaultLogConfig 默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		LogDir:     "",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// InitLogger 初始化日志系统
func InitLogger(config LogConfig) error {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    config.NoColor || config.DevOps,
		},
	}

	// 主日志文件(所有级别) + 错误日志文件(仅错误及以上), 均带轮转
	if config.LogDir != "" {
		if err := os.MkdirAll(config.LogDir, 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
		writers = append(writers,
			&lumberjack.Logger{
				Filename:   filepath.Join(config.LogDir, "linkcrawl.log"),
				MaxSize:    config.MaxSize,
				MaxBackups: config.MaxBackups,
				MaxAge:     config.MaxAge,
				Compress:   config.Compress,
			},
			&FilteredWriter{
				Writer: &lumberjack.Logger{
					Filename:   filepath.Join(config.LogDir, "linkcrawl_error.log"),
					MaxSize:    config.MaxSize,
					MaxBackups: config.MaxBackups,
					MaxAge:     config.MaxAge,
					Compress:   config.Compress,
				},
				MinLevel: zerolog.ErrorLevel,
			},
		)
	}

	// MultiLevelWriter 会把级别传给实现了 WriteLevel 的写入器
	Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	log.Logger = Logger
	SetDevOpsLogging(config.DevOps)

	Logger.Debug().
		Str("level", level.String()).
		Str("log_dir", config.LogDir).
		Bool("devops", config.DevOps).
		Msg("日志系统初始化完成")

	return nil
}

// FilteredWriter 过滤写入器,仅写入指定级别及以上的日志
type FilteredWriter struct {
	Writer   io.Writer
	MinLevel zerolog.Level
}

// Write 无级别信息的写入直接丢弃
func (w *FilteredWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// WriteLevel 带级别的写入
func (w *FilteredWriter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if level >= w.MinLevel {
		return w.Writer.Write(p)
	}
	return len(p), nil
}

// SetDevOpsLogging 切换坏链警告的输出格式
func SetDevOpsLogging(enabled bool) {
	devOpsLogging = enabled
}

// SetAnnotationOutput 设置CI注解的输出位置, 返回之前的设置
func SetAnnotationOutput(w io.Writer) io.Writer {
	prev := annotationOut
	annotationOut = w
	return prev
}

// LinkWarning 警告通道
// DevOps模式下输出 "##vso[task.logissue type=warning]..." 让流水线识别为警告,
// 否则作为普通警告日志
func LinkWarning(msg string) {
	if devOpsLogging {
		fmt.Fprintf(annotationOut, "##vso[task.logissue type=warning]%s\n", msg)
		Logger.Debug().Msg(msg)
		return
	}
	Logger.Warn().Msg(msg)
}

// LinkWarningf 格式化的警告通道
func LinkWarningf(format string, args ...interface{}) {
	LinkWarning(fmt.Sprintf(format, args...))
}

// Info 快捷方法: 信息日志
func Info(msg string) {
	Logger.Info().Msg(msg)
}

// Infof 快捷方法: 格式化信息日志
func Infof(format string, args ...interface{}) {
	Logger.Info().Msgf(format, args...)
}

// Error 快捷方法: 错误日志
func Error(err error, msg string) {
	Logger.Error().Err(err).Msg(msg)
}

// Errorf 快捷方法: 格式化错误日志
func Errorf(format string, args ...interface{}) {
	Logger.Error().Msgf(format, args...)
}

// Warn 快捷方法: 警告日志
func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

// Warnf 快捷方法: 格式化警告日志
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}

// Debug 快捷方法: 调试日志
func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

// Debugf 快捷方法: 格式化调试日志
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}
