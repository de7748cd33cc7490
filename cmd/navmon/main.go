package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/navrx/pkg/cli/sh"
	"github.com/robotalks/navrx/pkg/telemetry"
	"github.com/robotalks/navrx/pkg/telemetry/mqtt"
)

var (
	mqttURL  = "mqtt://localhost:1883/"
	deviceID = "+"
)

func init() {
	if val := os.Getenv("NAVRX_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&deviceID, "id", deviceID, "Device ID to monitor, + for all.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	conn, err := mqtt.Dial(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := conn.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	conn.Sub(mqtt.StatusTopic(deviceID), mqtt.Handler(func(topic string, payload []byte) {
		log.Printf("%s: %s", topic, string(payload))
	}))
	conn.Sub(mqtt.TelemetryTopic(deviceID), mqtt.Handler(func(topic string, payload []byte) {
		s, err := telemetry.Decode(payload)
		if err != nil {
			log.Printf("%s: bad snapshot: %v", topic, err)
			return
		}
		device := strings.Split(topic, "/")[1]
		log.Printf("%s: %s | %s", device, sh.FormatStatus(s), sh.FormatStats(s))
	}))
	<-(chan struct{})(nil)
}
