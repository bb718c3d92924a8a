// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	// create a bytes buffer that implements an io.Writer
	buffer := new(bytes.Buffer)
	// create an instance of Log with a fake level value
	logger := NewZap(7, buffer)

	require.Equal(t, DebugLevel, logger.LogLevel())

	logger.Debug("test debug")
	expected := "test debug"
	actual, err := extractMessage(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, expected, actual)

	lvl, err := extractLevel(buffer.Bytes())
	require.NoError(t, err)
	require.Equal(t, DebugLevel.String(), lvl)
}

func TestLevels(t *testing.T) {
	testCases := []struct {
		level    Level
		log      func(l *Zap)
		expected string
	}{
		{level: InfoLevel, log: func(l *Zap) { l.Infof("hello %s", "info") }, expected: "hello info"},
		{level: WarningLevel, log: func(l *Zap) { l.Warnf("hello %s", "warn") }, expected: "hello warn"},
		{level: ErrorLevel, log: func(l *Zap) { l.Errorf("hello %s", "error") }, expected: "hello error"},
		{level: DebugLevel, log: func(l *Zap) { l.Debugf("hello %s", "debug") }, expected: "hello debug"},
	}
	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			buffer := new(bytes.Buffer)
			logger := NewZap(tc.level, buffer)
			require.Equal(t, tc.level, logger.LogLevel())

			tc.log(logger)
			actual, err := extractMessage(buffer.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)

			lvl, err := extractLevel(buffer.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tc.level.String(), lvl)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(ErrorLevel, buffer)

	logger.Info("not written")
	logger.Warn("not written")
	assert.Empty(t, buffer.String())
	assert.False(t, logger.Enabled(InfoLevel))
	assert.True(t, logger.Enabled(ErrorLevel))

	logger.Error("written")
	actual, err := extractMessage(buffer.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "written", actual)
}

func TestLogWith(t *testing.T) {
	t.Run("With adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("server", "core1", "address", "10.0.0.1", "took", time.Second, "cause", errors.New("boom")).Info("skipped")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		msg, _ := extractMessage(buffer.Bytes())
		require.Equal(t, "skipped", msg)
		require.Contains(t, m, "server")
		require.Contains(t, m, "address")
		require.Contains(t, m, "took")
		require.Contains(t, m, "cause")
	})

	t.Run("With returns same logger when keyValues empty", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
	})

	t.Run("With odd keyValues uses _ for orphan", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, "orphan").Info("msg")
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "a")
		require.Contains(t, m, "_")
	})

	t.Run("With skips non-string keys", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With(42, "ignored", "k", "v").Info("msg")
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "k")
	})

	t.Run("With more than inline pairs", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, "b", 2, "c", 3, "d", 4, "e", 5, "f", 6, "g", int64(7), "h", true, "i", 1.5).Info("msg")
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "a")
		require.Contains(t, m, "i")
	})
}

func TestFlush(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "tcpwave.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	logger := NewZap(InfoLevel, file)
	logger.Info("persisted")
	require.NoError(t, logger.Flush())

	content, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	actual, err := extractMessage(content)
	require.NoError(t, err)
	assert.Equal(t, "persisted", actual)
	assert.Equal(t, []io.Writer{file}, logger.LogOutput())
}

func TestParseLevel(t *testing.T) {
	level, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, DebugLevel, level)

	level, ok = ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, WarningLevel, level)

	level, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, InvalidLevel, level)
	assert.Equal(t, "invalid", level.String())
}

func extractMessage(bytes []byte) (string, error) {
	return extractField(bytes, "msg")
}

func extractLevel(bytes []byte) (string, error) {
	return extractField(bytes, "level")
}

func extractField(bytes []byte, field string) (string, error) {
	// a map container to decode the JSON structure into
	c := make(map[string]json.RawMessage)
	if err := json.Unmarshal(bytes, &c); err != nil {
		return "", err
	}
	if v, ok := c[field]; ok {
		return strconv.Unquote(string(v))
	}
	return "", nil
}
