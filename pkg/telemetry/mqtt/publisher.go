package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/telemetry"
)

// Status payloads, retained on the status topic.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// TelemetryTopic returns the snapshot topic of a device.
func TelemetryTopic(deviceID string) string {
	return "navrx/" + deviceID + "/telemetry"
}

// StatusTopic returns the online status topic of a device.
func StatusTopic(deviceID string) string {
	return "navrx/" + deviceID + "/status"
}

// TopicPublisher is the publishing side of Conn.
type TopicPublisher interface {
	Pub(topic string, payload []byte)
}

// Publisher publishes telemetry snapshots at a fixed interval.
type Publisher struct {
	Out      TopicPublisher
	Source   telemetry.Source
	DeviceID string
	Interval time.Duration

	last time.Time
}

// NewPublisher creates a Publisher on a new Conn. The broker will publish
// StatusOffline when the connection is lost.
func NewPublisher(brokerURL, deviceID string, src telemetry.Source) (*Publisher, *Conn, error) {
	b, err := ParseBroker(brokerURL)
	if err != nil {
		return nil, nil, err
	}
	if b.ClientID == "" {
		b.ClientID = "navrx:" + deviceID
	}
	opts := b.ClientOptions().
		SetBinaryWill(b.TopicPrefix+StatusTopic(deviceID), []byte(StatusOffline), 1, true)
	c := NewConn(opts, b.TopicPrefix)
	c.OnConnect = func(c *Conn) {
		c.PubWith(StatusTopic(deviceID), []byte(StatusOnline), 1, true)
	}
	p := &Publisher{
		Out:      c,
		Source:   src,
		DeviceID: deviceID,
		Interval: time.Second,
	}
	return p, c, nil
}

// Control implements Controller.
func (p *Publisher) Control(cc fx.ControlContext) error {
	now := cc.Time()
	if !p.last.IsZero() && now.Sub(p.last) < p.Interval {
		return nil
	}
	p.last = now
	data, err := p.Source.Snapshot(now).Encode()
	if err != nil {
		return err
	}
	p.Out.Pub(TelemetryTopic(p.DeviceID), data)
	return nil
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPublish, p)
}

// Runner returns the Runnable maintaining the broker connection of c.
func Runner(c *Conn, deviceID string) fx.Runnable {
	return fx.NamedRun("mqtt", fx.RunFunc(func(ctx context.Context) error {
		if token := c.Connect(); token.Wait() && token.Error() != nil {
			glog.Warningf("MQTT connect: %v", token.Error())
		}
		<-ctx.Done()
		c.PubWith(StatusTopic(deviceID), []byte(StatusOffline), 1, true).WaitTimeout(time.Second)
		return c.Close()
	}))
}
