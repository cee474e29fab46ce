package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRegisterAndFire(t *testing.T) {
	EventInitialize()

	var got EventContext
	fired := 0
	listener := &struct{ name string }{"listener"}
	callback := func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		fired++
		got = data
		return true
	}

	require.True(t, EventRegister(EVENT_CODE_SCENE_LOADED, listener, callback))
	// Duplicate listener registration is rejected.
	assert.False(t, EventRegister(EVENT_CODE_SCENE_LOADED, listener, callback))

	context := EventContext{}
	context.Data.U32[0] = 77
	assert.True(t, EventFire(EVENT_CODE_SCENE_LOADED, nil, context))
	assert.Equal(t, 1, fired)
	assert.Equal(t, uint32(77), got.Data.U32[0])

	require.True(t, EventUnregister(EVENT_CODE_SCENE_LOADED, listener, callback))
	assert.False(t, EventFire(EVENT_CODE_SCENE_LOADED, nil, context))
	assert.Equal(t, 1, fired)
}

func TestEventHandledStopsPropagation(t *testing.T) {
	EventInitialize()

	firstListener := &struct{ name string }{"first"}
	secondListener := &struct{ name string }{"second"}
	secondFired := false

	first := func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		return true
	}
	second := func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		secondFired = true
		return false
	}

	require.True(t, EventRegister(EVENT_CODE_ASSET_RELOADED, firstListener, first))
	require.True(t, EventRegister(EVENT_CODE_ASSET_RELOADED, secondListener, second))
	t.Cleanup(func() {
		EventUnregister(EVENT_CODE_ASSET_RELOADED, firstListener, first)
		EventUnregister(EVENT_CODE_ASSET_RELOADED, secondListener, second)
	})

	assert.True(t, EventFire(EVENT_CODE_ASSET_RELOADED, nil, EventContext{}))
	assert.False(t, secondFired)
}

func TestEventFireUnregisteredCode(t *testing.T) {
	EventInitialize()
	assert.False(t, EventFire(SystemEventCode(300), nil, EventContext{}))
}
