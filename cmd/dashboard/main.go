package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/client"
	"semaphore.iot/internal/config"
	"semaphore.iot/internal/poller"
	"semaphore.iot/internal/view"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	apiURL := flag.String("api", "http://localhost:3001", "base URL of the readings API")
	indicator := flag.String("indicator", "", "initial indicator selection (red, yellow or green)")
	flag.Parse()

	cfg := config.LoadConfig()

	state := view.NewState()
	if *indicator != "" {
		color, ok := view.ParseIndicator(*indicator)
		if !ok {
			log.Fatal().Str("indicator", *indicator).Msg("indicator must be red, yellow or green")
		}
		state.Select(color)
	}

	api := client.New(*apiURL)
	p := poller.New(api.FetchLast, state, cfg.PollInterval, poller.DefaultCount)
	p.Start()
	defer p.Stop()

	log.Info().Str("api", *apiURL).Dur("interval", cfg.PollInterval).Msg("dashboard polling started")

	render := time.NewTicker(cfg.PollInterval)
	defer render.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-render.C:
			printDisplay(view.Derive(state))
		case <-sigs:
			log.Info().Msg("dashboard stopped")
			return
		}
	}
}

func printDisplay(d view.Display) {
	fmt.Printf("[%s] temp=%s hum=%s press=%s gas=%s audio=%s state=%s source=%s indicator=%s\n",
		d.ObservedAt, d.Temperature, d.Humidity, d.Pressure, d.Gas, d.Audio, d.State, d.Source, d.Indicator)
}
