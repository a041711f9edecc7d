package logger_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("NewLoggerWithWriters", func() {
		It("writes info messages with fields", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf)
			l.Info("hello", zap.String("key", "value"))
			_ = l.Sync()

			output := buf.String()
			Expect(output).To(ContainSubstring("hello"))
			Expect(output).To(ContainSubstring("INFO"))
			Expect(output).To(ContainSubstring("value"))
		})

		It("filters debug when not enabled", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf)
			l.Debug("hidden")
			_ = l.Sync()

			Expect(buf.String()).To(BeEmpty())
		})

		It("emits debug when enabled", func() {
			var buf bytes.Buffer
			l := logger.NewLoggerWithWriters(true, &buf)
			l.Debug("debug msg")
			_ = l.Sync()

			Expect(buf.String()).To(ContainSubstring("debug msg"))
		})

		It("supports multiple writers", func() {
			var buf1, buf2 bytes.Buffer
			l := logger.NewLoggerWithWriters(false, &buf1, &buf2)
			l.Info("multi")
			_ = l.Sync()

			Expect(buf1.String()).To(ContainSubstring("multi"))
			Expect(buf2.String()).To(ContainSubstring("multi"))
		})
	})

	Describe("Nop", func() {
		It("does not panic on any method", func() {
			l := logger.Nop()
			Expect(func() {
				l.Debug("msg")
				l.Info("msg")
				l.Warn("msg")
				l.Error("msg")
				l.With(zap.String("key", "value")).Info("msg")
			}).NotTo(Panic())
		})
	})
})
