package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/server"
	"k8s.io/klog/v2"
)

var (
	flagConfig    = flag.String("config", "", "YAML configuration file (default: built-in defaults)")
	flagAddr      = flag.String("addr", "", "Address to listen on, overrides the configuration (default: auto-port on localhost)")
	flagDataDir   = flag.String("data", "", "Directory where custom games are stored, overrides the configuration (default: in memory)")
	flagPublicURL = flag.String("public_url", "", "Public URL of the server, used in image references and QR codes")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		klog.Fatalf("Failed to load configuration: %v", err)
	}
	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}
	if *flagDataDir != "" {
		cfg.DataDir = *flagDataDir
	}
	if *flagPublicURL != "" {
		cfg.PublicURL = *flagPublicURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := make(chan *server.ServerState, 1)
	go func() {
		state := <-started
		fmt.Printf("GoMemory server listening on http://%s\n", state.Address)
	}()

	if err := server.Run(ctx, cfg, started); err != nil {
		klog.Fatal(err)
	}
}
