package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/events"
)

// UnitInfo describes the publishing unit.
type UnitInfo struct {
	Type        string            `json:"type"`
	ID          string            `json:"id"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Name is the topic path of the unit.
func (u UnitInfo) Name() string {
	return u.Type + "/" + u.ID
}

// Topics under <prefix><type>/<id>/.
const (
	MetaTopic   = "meta"
	EventsTopic = "events"
)

// PublishTimeout bounds the wait for a publish acknowledgement.
const PublishTimeout = 2 * time.Second

// BacklogSize is the number of events held while the broker is slow.
const BacklogSize = 64

// ErrBacklogFull indicates an event was dropped as the backlog is full.
var ErrBacklogFull = errors.New("mqtt backlog full, event dropped")

// Publisher implements events.Reporter. Events are queued by Report and
// published by Run, so reporting never waits on the broker.
// The retained meta topic carries the unit info while connected and is
// cleared by the last will.
type Publisher struct {
	Queue *Queue
	Info  UnitInfo

	metaJSON []byte
	backlog  chan []byte
}

// NewPublisher creates a Publisher.
func NewPublisher(brokerURL string, info UnitInfo) (*Publisher, error) {
	meta, err := json.Marshal(&info)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Name()+"/"+MetaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("doorlock:" + info.Name())
	}
	p := &Publisher{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
		backlog:  make(chan []byte, BacklogSize),
	}
	p.Queue.OnConnect = func(*Queue) { p.onConnected() }
	return p, nil
}

// Name implements framework.Named.
func (p *Publisher) Name() string {
	return "mqtt"
}

// Report implements events.Reporter.
func (p *Publisher) Report(ctx context.Context, ev *events.Event) error {
	if ev.Unit == "" {
		ev.Unit = p.Info.Name()
	}
	payload, err := ev.Encode()
	if err != nil {
		return err
	}
	select {
	case p.backlog <- payload:
		return nil
	default:
		return ErrBacklogFull
	}
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	if token := p.Queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("mqtt connect: %v", token.Error())
	}
	for {
		select {
		case <-ctx.Done():
			p.Queue.PubWith(p.Info.Name()+"/"+MetaTopic, nil, 1, true).WaitTimeout(PublishTimeout)
			p.Queue.Close()
			return ctx.Err()
		case payload := <-p.backlog:
			if err := p.publish(payload); err != nil {
				glog.Warningf("mqtt publish event: %v", err)
			}
		}
	}
}

func (p *Publisher) publish(payload []byte) error {
	token := p.Queue.Pub(p.Info.Name()+"/"+EventsTopic, payload)
	if !token.WaitTimeout(PublishTimeout) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

func (p *Publisher) onConnected() {
	p.Queue.PubWith(p.Info.Name()+"/"+MetaTopic, p.metaJSON, 1, true)
}
