package mqtt

import (
	"errors"
	"testing"

	"github.com/Ali5829511/wwwr/internal/config"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

var _ paho.Message = fakeMessage{}

func TestNewClientOptions(t *testing.T) {
	cfg := &config.MQTTConfig{
		Broker:   "tcp://broker.local:1883",
		ClientID: "housing-admin-test",
		Username: "gate",
		Password: "pw",
	}
	opts := newClientOptions(cfg, zap.NewNop())
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "broker.local:1883", opts.Servers[0].Host)
	assert.Equal(t, "housing-admin-test", opts.ClientID)
	assert.Equal(t, "gate", opts.Username)
	assert.Equal(t, "pw", opts.Password)
	assert.True(t, opts.AutoReconnect)
	assert.True(t, opts.CleanSession)
}

func TestDispatch(t *testing.T) {
	var gotTopic string
	var gotPayload []byte
	h := dispatch(func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, payload
		return errors.New("ignored")
	}, zap.NewNop())

	h(nil, fakeMessage{topic: "housing/plates/gate-1", payload: []byte(`{}`)})
	assert.Equal(t, "housing/plates/gate-1", gotTopic)
	assert.Equal(t, []byte(`{}`), gotPayload)
}
