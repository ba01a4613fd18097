package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// The engine talks piskvork on stdin/stdout, so all logging goes to stderr.
func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	configStore.Update(LoadConfigFromEnv())
	config := GetConfig()

	hub := NewHub()
	go hub.Run()

	proto := NewProtocol(os.Stdout, configStore)
	proto.SetHub(hub)

	if config.DebugServerEnabled {
		server := NewDebugServer(configStore, proto, hub)
		go server.ListenAndServe(config.DebugServerAddr)
	}

	var persistOnce sync.Once
	persist := func() {
		persistOnce.Do(func() {
			c := GetConfig()
			if !c.TtEnablePersistence || c.TtPersistencePath == "" {
				return
			}
			tt := proto.TT()
			if tt == nil {
				return
			}
			status := proto.Status()
			if err := SaveTT(tt, c.TtPersistencePath, status.BoardWidth, status.BoardHeight, zobristSeed); err != nil {
				log.Printf("[ai:cache] save snapshot: %v", err)
			}
		})
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("[engine] signal %s, shutting down", sig)
		persist()
		os.Exit(0)
	}()

	if err := proto.Run(os.Stdin); err != nil {
		log.Printf("[engine] protocol loop: %v", err)
	}
	persist()
}
