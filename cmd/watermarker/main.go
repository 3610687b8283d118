package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/wb-go/wbf/zlog"
)

const version = "0.1.0"

func main() {
	zlog.Init()

	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
