package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/elcircuit/core/model"
)

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// mockClient implements pahoClient for tests
type mockClient struct {
	mu          sync.Mutex
	opts        *paho.ClientOptions
	published   []published
	publishErrs []error
	handlers    map[string]paho.MessageHandler
	connected   bool
}

func (m *mockClient) IsConnected() bool { return m.connected }
func (m *mockClient) Connect() paho.Token {
	m.connected = true
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.connected = false }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{topic, qos, retained, payload.([]byte)})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}
func (m *mockClient) Subscribe(topic string, _ byte, cb paho.MessageHandler) paho.Token {
	if m.handlers == nil {
		m.handlers = make(map[string]paho.MessageHandler)
	}
	m.handlers[topic] = cb
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type mockMessage struct{ p []byte }

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return false }
func (m mockMessage) Topic() string     { return "" }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.Topic != "elcircuit" || c.ClientID == "" || c.MaxRetries != 3 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error without broker")
	}
	c.Broker = "tcp://localhost:1883"
	c.Topic = "lab/#"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for wildcard topic")
	}
	c.Topic = "lab"
	c.QoS = 3
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for qos 3")
	}
}

func TestNewClientOptions(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p", Topic: "lab"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
	if !opts.WillEnabled || opts.WillTopic != "lab/state" || !opts.WillRetained {
		t.Fatalf("will options incorrect: %s", opts.WillTopic)
	}
	if _, err := NewClientOptions(Config{Broker: "tcp://x", UseTLS: true}); err == nil {
		t.Fatalf("expected tls error without files")
	}
}

func TestPublisherRecordSnapshot(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", Topic: "lab/", QoS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	snap := model.Snapshot{Tick: 2, Elapsed: 0.2, State: model.StateRunning, Current: model.Defined(0.01)}
	if err := p.RecordSnapshot(snap); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 1 {
		t.Fatalf("published %d messages", len(mc.published))
	}
	msg := mc.published[0]
	if msg.topic != "lab/snapshot" || msg.qos != 1 || msg.retain {
		t.Fatalf("unexpected message: %+v", msg)
	}
	var got struct {
		Tick    int64    `json:"tick"`
		State   string   `json:"state"`
		Current *float64 `json:"current"`
		EMF     *float64 `json:"equivalent_emf"`
	}
	if err := json.Unmarshal(msg.payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tick != 2 || got.State != "running" || got.Current == nil || *got.Current != 0.01 {
		t.Fatalf("payload: %s", msg.payload)
	}
	if got.EMF != nil {
		t.Fatalf("undefined value should encode as null: %s", msg.payload)
	}
}

func TestPublisherRecordTransitionIsRetained(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.RecordTransition(model.TransitionEvent{From: model.StateRunning, To: model.StatePaused}); err != nil {
		t.Fatal(err)
	}
	if msg := mc.published[0]; msg.topic != "elcircuit/state" || !msg.retain {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestPublisherRetries(t *testing.T) {
	mc := &mockClient{publishErrs: []error{errors.New("net fail"), nil}}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.RecordSnapshot(model.Snapshot{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(mc.published) != 2 {
		t.Fatalf("expected retry, got %d publishes", len(mc.published))
	}

	mc.publishErrs = []error{errors.New("a"), errors.New("b")}
	if err := p.RecordSnapshot(model.Snapshot{}); err == nil {
		t.Fatalf("expected error after retries")
	}
}

type recordController struct {
	calls    []string
	pauseErr error
}

func (r *recordController) Start() { r.calls = append(r.calls, "start") }
func (r *recordController) Pause() error {
	r.calls = append(r.calls, "pause")
	return r.pauseErr
}
func (r *recordController) Reset() { r.calls = append(r.calls, "reset") }

func TestListenControl(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", Topic: "lab"})
	if err != nil {
		t.Fatal(err)
	}
	ctrl := &recordController{pauseErr: errors.New("not running")}
	if err := p.ListenControl(ctrl); err != nil {
		t.Fatalf("listen: %v", err)
	}
	h, ok := mc.handlers["lab/control"]
	if !ok {
		t.Fatalf("control topic not subscribed")
	}
	for _, cmd := range []string{"start", " PAUSE\n", "bogus", "reset"} {
		h(nil, mockMessage{[]byte(cmd)})
	}
	want := []string{"start", "pause", "reset"}
	if len(ctrl.calls) != len(want) {
		t.Fatalf("calls = %v", ctrl.calls)
	}
	for i := range want {
		if ctrl.calls[i] != want[i] {
			t.Fatalf("calls = %v", ctrl.calls)
		}
	}
	if err := p.Close(); err != nil || mc.connected {
		t.Fatalf("close: %v", err)
	}
}
