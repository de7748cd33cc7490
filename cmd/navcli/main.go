package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/navrx/pkg/cli/sh"
	"github.com/robotalks/navrx/pkg/env"
	fx "github.com/robotalks/navrx/pkg/framework"
)

func init() {
	env.SetupFlags()
	sh.SetupFlags()
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	e := conf.MustNewEnv()
	loop := e.NewLoop()
	runner := fx.NewRunner().Go(loop)

	sh.New(sh.NewStack(loop, e.Latest)).Run(flag.Args()...)
	runner.Stop()
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
