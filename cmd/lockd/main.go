package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/doorlock/pkg/control"
	"github.com/robotalks/doorlock/pkg/env"
	"github.com/robotalks/doorlock/pkg/framework"
	"github.com/robotalks/doorlock/pkg/tick"
)

func init() {
	env.SetupFlags()
	control.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.Default()
	runner := framework.NewRunner().HandleSignals()

	dev, storeCloser, err := conf.OpenStore()
	if err != nil {
		glog.Exitf("open store: %v", err)
	}
	defer storeCloser.Close()
	drv, err := conf.OpenActuator()
	if err != nil {
		glog.Exitf("open actuator: %v", err)
	}
	reporter, publishers, err := conf.NewReporter()
	if err != nil {
		glog.Exitf("events: %v", err)
	}

	glog.Infof("opening link %s", conf.LinkURL)
	stream, err := conf.OpenLink(runner.Context)
	if err != nil {
		glog.Exitf("open link: %v", err)
	}
	unit, err := control.Default().NewUnit(stream, dev, drv, &tick.Ticker{})
	if err != nil {
		glog.Exit(err)
	}
	unit.Reporter = reporter

	runner.Go(publishers...).Go(unit)
	if err = runner.Wait(); err != nil {
		storeCloser.Close()
		glog.Exit(err)
	}
}
