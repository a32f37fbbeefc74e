package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/robotalks/doorlock/pkg/control"
	"github.com/robotalks/doorlock/pkg/events"
	"github.com/robotalks/doorlock/pkg/events/mqtt"
	"github.com/robotalks/doorlock/pkg/handshake"
)

var (
	mqttURL = "mqtt://localhost:1883/doorlock/"
)

func init() {
	if val := os.Getenv("DOORLOCK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func describe(ev *events.Event) string {
	switch ev.Kind {
	case events.KindProvisioned, events.KindVerified, events.KindUnknownCommand:
		return handshake.Command(ev.Status).String()
	case events.KindDoor:
		return control.DoorState(ev.Door).String()
	case events.KindAlarm:
		if ev.Alarm {
			return "on"
		}
		return "off"
	case events.KindStoreError:
		return ev.Error
	}
	return ev.String()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.MetaTopic) {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		ev, err := events.Decode(payload)
		if err != nil {
			log.Printf("%s: bad event: %v", topic, err)
			return
		}
		log.Printf("%s: [%s] %s mistakes=%d (at %s)", topic, ev.Kind, describe(ev),
			ev.Mistakes, ev.Time().Format(time.RFC3339))
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh
}
