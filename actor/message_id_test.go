/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageID_Async(t *testing.T) {
	mid := asyncMessageID(HighPriority)
	assert.True(t, mid.IsAsync())
	assert.False(t, mid.IsRequest())
	assert.False(t, mid.IsResponse())
	assert.Equal(t, HighPriority, mid.Priority())
	assert.Zero(t, mid.SequenceNumber())
	assert.Equal(t, MessageID(0), mid.ResponseID())
}

func TestMessageID_RequestResponse(t *testing.T) {
	request := requestMessageID(42, NormalPriority)
	assert.True(t, request.IsRequest())
	assert.False(t, request.IsAsync())
	assert.Equal(t, uint64(42), request.SequenceNumber())

	response := request.ResponseID()
	assert.True(t, response.IsResponse())
	assert.False(t, response.IsRequest())
	assert.Equal(t, uint64(42), response.SequenceNumber())
	assert.Equal(t, request.Priority(), response.Priority())
}

func TestMessageID_WithPriority(t *testing.T) {
	mid := requestMessageID(7, NormalPriority).withPriority(HighPriority)
	assert.Equal(t, HighPriority, mid.Priority())
	assert.Equal(t, uint64(7), mid.SequenceNumber())
	assert.True(t, mid.IsRequest())
}

func TestMessageID_MonotonicPerActor(t *testing.T) {
	system := testSystem(t)
	pid, err := system.SpawnFunc("requester", func(ctx *ReceiveContext) {})
	require.NoError(t, err)

	var previous uint64
	for i := 0; i < 10; i++ {
		id := pid.newRequestID(NormalPriority)
		require.Greater(t, id.SequenceNumber(), previous)
		previous = id.SequenceNumber()
	}
}
