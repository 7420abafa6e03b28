package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/infra/logger"
)

// Controller receives run commands arriving on <topic>/control.
type Controller interface {
	Start()
	Pause() error
	Reset()
}

// Publisher streams simulation snapshots and run transitions to an MQTT
// broker. Snapshots go to <topic>/snapshot, transitions to <topic>/state.
type Publisher struct {
	cli        pahoClient
	topic      string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) { log.Warnf("reconnecting to MQTT broker") }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{
		cli:        c,
		topic:      strings.TrimSuffix(cfg.Topic, "/"),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// SnapshotTopic returns the topic snapshots are published on.
func (p *Publisher) SnapshotTopic() string { return p.topic + "/snapshot" }

// StateTopic returns the topic transitions are published on.
func (p *Publisher) StateTopic() string { return p.topic + "/state" }

// ControlTopic returns the topic watched by ListenControl.
func (p *Publisher) ControlTopic() string { return p.topic + "/control" }

// RecordSnapshot publishes s as JSON.
func (p *Publisher) RecordSnapshot(s model.Snapshot) error {
	return p.publishJSON(p.SnapshotTopic(), p.retain, s)
}

// RecordTransition publishes ev as JSON. State messages are always retained
// so late subscribers learn the current run state.
func (p *Publisher) RecordTransition(ev model.TransitionEvent) error {
	return p.publishJSON(p.StateTopic(), true, ev)
}

func (p *Publisher) publishJSON(topic string, retain bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, retain, payload)
		token.Wait()
		if publishErr = token.Error(); publishErr == nil {
			return nil
		}
		p.log.Errorf("publish attempt %d on %s failed: %v", attempt+1, topic, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return publishErr
}

// ListenControl subscribes to <topic>/control and forwards the commands
// "start", "pause" and "reset" to ctrl. Unknown payloads are logged and dropped.
func (p *Publisher) ListenControl(ctrl Controller) error {
	token := p.cli.Subscribe(p.ControlTopic(), p.qos, func(_ paho.Client, msg paho.Message) {
		p.handleControl(ctrl, msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", p.ControlTopic(), token.Error())
	}
	return nil
}

func (p *Publisher) handleControl(ctrl Controller, payload []byte) {
	cmd := strings.ToLower(strings.TrimSpace(string(payload)))
	switch cmd {
	case "start":
		ctrl.Start()
	case "pause":
		if err := ctrl.Pause(); err != nil {
			p.log.Warnf("control pause: %v", err)
		}
	case "reset":
		ctrl.Reset()
	default:
		p.log.Warnf("unknown control command %q", cmd)
		return
	}
	p.log.Infof("control command %s applied", cmd)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}

var (
	_ coremetrics.MetricsSink        = (*Publisher)(nil)
	_ coremetrics.TransitionRecorder = (*Publisher)(nil)
	_ coremetrics.Closer             = (*Publisher)(nil)
)
