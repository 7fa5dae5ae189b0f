package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/pkg/mqtt"
)

type published struct {
	topic   string
	qos     byte
	payload []byte
	awaited bool
}

type fakeTransport struct {
	mu           sync.Mutex
	connected    bool
	connectErr   error
	connectCalls int
	publishErr   error
	messages     []published
}

func (f *fakeTransport) Connect(clientID, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectCalls++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeTransport) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *fakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) LastError() error { return f.connectErr }

func (f *fakeTransport) Publish(topic string, qos byte, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.messages = append(f.messages, published{topic: topic, qos: qos, payload: payload, awaited: true})
	return nil
}

func (f *fakeTransport) PublishAsync(topic string, qos byte, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, published{topic: topic, qos: qos, payload: payload})
	return nil
}

func (f *fakeTransport) Subscribe(string, byte, mqtt.MessageHandler) error { return nil }
func (f *fakeTransport) Unsubscribe(string) error                         { return nil }

func testConfig() models.MQTTConfig {
	return models.MQTTConfig{
		Namespace:         "unipool",
		PublisherUser:     "pub-user",
		PublisherPassword: "pub-pass",
	}
}

func TestPublish_ConnectsWhenDisconnected(t *testing.T) {
	transport := &fakeTransport{}
	p := New(transport, testConfig(), "driver-1")

	ok := p.Publish(models.PositionSample{Latitude: 3.1390, Longitude: 101.6869, SpeedMPS: 5})

	assert.True(t, ok)
	assert.Equal(t, 1, transport.connectCalls)
	require.Len(t, transport.messages, 1)
	assert.Equal(t, "unipool/drivers/driver-1/location", transport.messages[0].topic)
	assert.Equal(t, byte(1), transport.messages[0].qos)
}

func TestPublish_FirstSampleWaitsForAck(t *testing.T) {
	transport := &fakeTransport{}
	p := New(transport, testConfig(), "driver-1")

	p.Publish(models.PositionSample{Latitude: 3.1390, Longitude: 101.6869})
	p.Publish(models.PositionSample{Latitude: 3.1391, Longitude: 101.6869})

	require.Len(t, transport.messages, 2)
	assert.True(t, transport.messages[0].awaited, "first sample on a fresh session is synchronous")
	assert.False(t, transport.messages[1].awaited)
}

func TestPublish_FreshSessionRejection(t *testing.T) {
	transport := &fakeTransport{publishErr: errors.New("not authorized")}
	p := New(transport, testConfig(), "driver-1")

	ok := p.Publish(models.PositionSample{Latitude: 3.1390, Longitude: 101.6869})

	assert.False(t, ok)
	assert.Empty(t, transport.messages)
}

func TestPublish_ReusesConnection(t *testing.T) {
	transport := &fakeTransport{connected: true}
	p := New(transport, testConfig(), "driver-1")

	p.Publish(models.PositionSample{Latitude: 3.1390, Longitude: 101.6869})
	p.Publish(models.PositionSample{Latitude: 3.1391, Longitude: 101.6869})

	assert.Equal(t, 0, transport.connectCalls)
	assert.Len(t, transport.messages, 2)
}

func TestPublish_ConnectFailure(t *testing.T) {
	transport := &fakeTransport{connectErr: errors.New("broker unreachable")}
	p := New(transport, testConfig(), "driver-1")

	ok := p.Publish(models.PositionSample{Latitude: 3.1390, Longitude: 101.6869})

	assert.False(t, ok)
	assert.Empty(t, transport.messages)
}

func TestPublish_CoercesInvalidReadings(t *testing.T) {
	transport := &fakeTransport{connected: true}
	p := New(transport, testConfig(), "driver-1")

	tests := []struct {
		name    string
		speed   float64
		bearing float64
	}{
		{"nan speed", math.NaN(), 45},
		{"negative speed", -2, 45},
		{"infinite speed", math.Inf(1), 45},
		{"nan bearing", 5, math.NaN()},
		{"negative bearing", 5, -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport.messages = nil

			p.Publish(models.PositionSample{
				Latitude:  3.1390,
				Longitude: 101.6869,
				SpeedMPS:  tt.speed,
				Bearing:   tt.bearing,
			})

			require.Len(t, transport.messages, 1)
			var wire models.PositionSample
			require.NoError(t, json.Unmarshal(transport.messages[0].payload, &wire))

			assert.False(t, math.IsNaN(wire.SpeedMPS))
			assert.False(t, math.IsInf(wire.SpeedMPS, 0))
			assert.GreaterOrEqual(t, wire.SpeedMPS, 0.0)
			assert.GreaterOrEqual(t, wire.Bearing, 0.0)
		})
	}
}

func TestPublish_WirePayloadShape(t *testing.T) {
	transport := &fakeTransport{connected: true}
	p := New(transport, testConfig(), "driver-7")

	p.Publish(models.PositionSample{
		Latitude:    3.1390,
		Longitude:   101.6869,
		TimestampMS: 1724572800000,
		SpeedMPS:    8.33,
		Bearing:     45,
	})

	require.Len(t, transport.messages, 1)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(transport.messages[0].payload, &wire))

	assert.Equal(t, "driver-7", wire["driver_id"])
	assert.InDelta(t, 3.1390, wire["lat"].(float64), 1e-9)
	assert.InDelta(t, 101.6869, wire["lng"].(float64), 1e-9)
	assert.Equal(t, float64(1724572800000), wire["timestamp"])
	assert.InDelta(t, 8.33, wire["speed_mps"].(float64), 1e-9)
	assert.Equal(t, 45.0, wire["bearing"])
}

func TestRun_DrainsStream(t *testing.T) {
	transport := &fakeTransport{connected: true}
	p := New(transport, testConfig(), "driver-1")

	samples := make(chan models.PositionSample, 3)
	samples <- models.PositionSample{Latitude: 3.1, Longitude: 101.6}
	samples <- models.PositionSample{Latitude: 3.2, Longitude: 101.7}
	close(samples)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Run(ctx, samples)

	assert.Len(t, transport.messages, 2)
}
