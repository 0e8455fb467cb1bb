package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"fetchwidgets/internal/config"
	"fetchwidgets/internal/eventbus"
	"fetchwidgets/internal/fetch"
	"fetchwidgets/internal/logging"
	"fetchwidgets/internal/ui"
)

func main() {
	var (
		configPath string
		view       string
		logFile    string
		writeCfg   bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	flag.StringVar(&configPath, "c", "", "Path to config file (shorthand)")
	flag.StringVar(&view, "view", "", "View to open first: search or posts")
	flag.StringVar(&logFile, "log", "", "Log file path (overrides config)")
	flag.BoolVar(&writeCfg, "write-config", false, "Write the effective config to the config path and exit")
	flag.Parse()

	if view == "" && flag.NArg() > 0 {
		view = flag.Arg(0)
	}

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus, configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if view != "" {
		cfg.StartView = view
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid view: %v\n", err)
			os.Exit(2)
		}
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	if writeCfg {
		if err := configSvc.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", configSvc.Path())
		return
	}

	closer, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not set up logging: %v\n", err)
	} else {
		defer closer.Close()
	}
	log := logging.For("main")

	bus.Subscribe(eventbus.EventSelectionMade, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SelectionMadeEvent); ok {
			log.WithFields(logrus.Fields{
				"display": event.Display,
				"record":  event.Record,
			}).Info("selection made")
		}
	})
	bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.PageLoadedEvent); ok {
			log.WithFields(logrus.Fields{
				"page":   event.Page,
				"offset": event.Offset,
				"count":  event.Count,
				"total":  event.Total,
			}).Info("page loaded")
		}
	})
	bus.Subscribe(eventbus.EventFetchFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.FetchFailedEvent); ok {
			log.WithFields(logrus.Fields{
				"widget": event.Widget,
				"url":    event.URL,
			}).WithError(event.Err).Warn("fetch failed")
		}
	})

	client := fetch.NewClient(cfg.HTTP.Timeout())
	uiModel := ui.NewModel(bus, cfg, client)

	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	log.WithField("config", configSvc.Path()).Info("starting UI")
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("error running program")
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Info("UI exited normally")
}
