package env

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/l0/gps"
	"github.com/robotalks/navrx/pkg/l0/serial"
	"github.com/robotalks/navrx/pkg/l0/ubx"
	"github.com/robotalks/navrx/pkg/telemetry"
	"github.com/robotalks/navrx/pkg/telemetry/mqtt"
	"github.com/robotalks/navrx/pkg/telemetry/websocket"
)

// Env is the assembled receiver stack.
type Env struct {
	Config    *Config
	Device    io.ReadWriteCloser
	Port      *serial.Port
	Transport *serial.Transport
	Receiver  *gps.Receiver
	Latest    *telemetry.Latest

	// Optional exporters, nil when disabled.
	Publisher *mqtt.Publisher
	MQTT      *mqtt.Conn
	Websocket *websocket.Server
}

// NewEnv opens the serial port and creates Env.
func (c *Config) NewEnv() (*Env, error) {
	dev, err := serial.Open(serial.Options{PortName: c.Serial.Port, BaudRate: c.Serial.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s error: %v", c.Serial.Port, err)
	}
	env, err := c.NewEnvWith(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// NewEnvWith creates Env on an opened device.
func (c *Config) NewEnvWith(dev io.ReadWriteCloser) (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	env := &Env{
		Config:    c,
		Device:    dev,
		Transport: serial.NewTransport(c.Serial.RxCapacity, c.Serial.TxCapacity),
	}
	env.Port = serial.NewPort(dev, env.Transport)

	rc := &c.Receiver
	env.Receiver = gps.NewReceiver(env.Transport, gps.NewClockTimer()).
		WithSink(env.Transport).
		WithLogger(ubx.GlogLogger{Level: glog.Level(rc.Verbosity)})
	env.Receiver.WatchdogTimeout = rc.WatchdogTimeoutMs
	env.Receiver.PollsPerTick = rc.PollsPerTick
	env.Receiver.Framer().AcceptBadChecksum = rc.AcceptBadChecksum
	env.Receiver.SetLatitudeErrorOffset(rc.Correction.LatitudeOffset)
	env.Receiver.SetLongitudeErrorOffset(rc.Correction.LongitudeOffset)
	if rc.Correction.Enable {
		env.Receiver.EnableErrorCorrection()
	}
	env.Latest = telemetry.NewLatest(env.Receiver)

	tc := &c.Telemetry
	if tc.MQTTURL != "" {
		pub, conn, err := mqtt.NewPublisher(tc.MQTTURL, c.DeviceID, env.Receiver)
		if err != nil {
			return nil, fmt.Errorf("create MQTT publisher error: %v", err)
		}
		pub.Interval = tc.PublishInterval
		env.Publisher, env.MQTT = pub, conn
	}
	if tc.WebsocketAddr != "" {
		h := websocket.NewHandler(env.Latest)
		h.Interval = tc.PublishInterval
		env.Websocket = &websocket.Server{Addr: tc.WebsocketAddr, Handler: h}
	}
	return env, nil
}

// NewLoop creates a Loop ticking at the configured interval.
func (e *Env) NewLoop() *fx.Loop {
	loop := fx.NewLoop()
	loop.Interval = e.Config.Receiver.Tick
	return loop.Add(e)
}

// AddToLoop adds controllers/runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Receiver, e.Latest)
	loop.AddRunnable(fx.NamedRun("serial", fx.RunFunc(e.runPort)))
	if e.Publisher != nil {
		loop.Add(e.Publisher)
		loop.AddRunnable(mqtt.Runner(e.MQTT, e.Config.DeviceID))
	}
	if e.Websocket != nil {
		loop.AddRunnable(fx.NamedRun("websocket", e.Websocket))
	}
}

func (e *Env) runPort(ctx context.Context) error {
	glog.Infof("serial %s at %d baud", e.Config.Serial.Port, e.Config.Serial.Baud)
	return fx.RunWithContextCloser(ctx, e.Device, func() error {
		return e.Port.Run(ctx)
	})
}
