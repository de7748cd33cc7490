package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	fx "github.com/robotalks/navrx/pkg/framework"
	"github.com/robotalks/navrx/pkg/env"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	glog.Infof("navrx device %s", conf.DeviceID)
	loop := conf.MustNewEnv().NewLoop()
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		log.Fatalln(err)
	}
}
