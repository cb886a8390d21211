package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func newBufferLogger(name string, level Level) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return newImpl(name, level, true, NewWriterAppender(buf)), buf
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, buf := newBufferLogger("solver", DEBUG)
	logger.Infow("converged", "iterations", 12, "error_norm", 1e-7)

	line := strings.TrimSuffix(buf.String(), "\n")
	parts := strings.Split(line, "\t")
	test.That(t, parts, test.ShouldHaveLength, 6)
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "solver")
	test.That(t, parts[3], test.ShouldStartWith, "logging/impl_test.go:")
	test.That(t, parts[4], test.ShouldEqual, "converged")

	fields := map[string]interface{}{}
	test.That(t, json.Unmarshal([]byte(parts[5]), &fields), test.ShouldBeNil)
	test.That(t, fields["iterations"], test.ShouldEqual, 12.0)
	test.That(t, fields["error_norm"], test.ShouldAlmostEqual, 1e-7)
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("", WARN)
	logger.Debug("hidden")
	logger.Infof("hidden %d", 1)
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.Warnf("shown %d", 2)
	test.That(t, buf.String(), test.ShouldContainSubstring, "shown 2")

	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	logger.Debug("now shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, "now shown")
}

func TestUnpairedKey(t *testing.T) {
	logger, buf := newBufferLogger("", DEBUG)
	logger.Errorw("oops", "dangling")
	test.That(t, buf.String(), test.ShouldContainSubstring, "unpaired log key")
}

func TestSublogger(t *testing.T) {
	logger, buf := newBufferLogger("nik", INFO)
	sub := logger.Sublogger("ik")
	sub.Info("hello")
	test.That(t, buf.String(), test.ShouldContainSubstring, "\tnik.ik\t")

	blank := NewBlankLogger("")
	test.That(t, blank.Sublogger("ik").Sublogger("dls"), test.ShouldNotBeNil)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Sublogger("dls").Warnw("local minimum accepted", "error_norm", 0.5)
	logger.Debug("iteration")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	warned := logs.FilterMessageSnippet("local minimum").All()
	test.That(t, warned, test.ShouldHaveLength, 1)
	test.That(t, warned[0].LoggerName, test.ShouldEqual, "dls")
	test.That(t, warned[0].Level, test.ShouldEqual, WARN.AsZap())
	test.That(t, warned[0].ContextMap()["error_norm"], test.ShouldEqual, 0.5)
}

func TestLevelStrings(t *testing.T) {
	for _, level := range []Level{DEBUG, INFO, WARN, ERROR} {
		parsed, err := LevelFromString(level.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, level)
	}
	test.That(t, DEBUG.AsZap(), test.ShouldEqual, zapcore.DebugLevel)
	test.That(t, ERROR.AsZap(), test.ShouldEqual, zapcore.ErrorLevel)
	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)

	var level Level
	test.That(t, json.Unmarshal([]byte(`"warn"`), &level), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, WARN)
}
