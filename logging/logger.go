// Package logging 保存 textsprite 各子包共享的 slog 记录器。
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志；Enabled 返回 false，调用方不会格式化消息。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger 设置全局记录器，默认不输出任何日志。传入 nil 恢复静默。
//
// 使用的级别：
//   - [slog.LevelDebug]: 布局过程（行数、块尺寸、画布重建）
//   - [slog.LevelWarn]: 被吸收的配置错误与字体回退
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前记录器，可并发调用。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
