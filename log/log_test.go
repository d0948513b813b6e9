package log

import (
	"bytes"
	"testing"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestModuleFilter(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	SetDefault(NewLogger(gethlog.DiscardHandler()))
	RecordLogs()

	Debug(HostMonitoring, "dropped")
	EnableModule(HostMonitoring)
	defer DisableModule(HostMonitoring)
	Debug(HostMonitoring, "kept", "fn", "Get_A1")
	Info(RunMonitoring, "always")

	out, err := GetRecordedLogs()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "dropped")
	assert.Contains(t, string(out), "msg=kept fn=Get_A1")
	assert.Contains(t, string(out), "msg=always")
}

func TestInitLoggerTo(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	var buf bytes.Buffer
	require.NoError(t, InitLoggerTo(&buf, "info"))
	Info(ConsoleMonitoring, "hello", "k", 1)
	Root().Debug(ConsoleMonitoring, "quiet")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Error(t, InitLoggerTo(&buf, "nope"))
}

func TestEnableModules(t *testing.T) {
	EnableModules("at_vm, at_store,")
	defer DisableModule(VMMonitoring)
	defer DisableModule(StoreMonitoring)
	assert.True(t, isModuleEnabled(VMMonitoring))
	assert.True(t, isModuleEnabled(StoreMonitoring))
	assert.False(t, isModuleEnabled(HostMonitoring))
}
