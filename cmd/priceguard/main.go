package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/anish/priceguard/internal/agent"
	"github.com/anish/priceguard/internal/bridge"
	"github.com/anish/priceguard/internal/gateway"
	"github.com/anish/priceguard/internal/governance"
	"github.com/anish/priceguard/internal/observability"
	"github.com/anish/priceguard/internal/pipeline"
	"github.com/anish/priceguard/internal/store"
	"github.com/anish/priceguard/internal/tools"
	"github.com/anish/priceguard/internal/watch"
	"github.com/anish/priceguard/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	query := flag.String("query", "", "run one price comparison for this product and exit")
	history := flag.Int("history", 0, "print the N most recent runs and exit")
	serve := flag.Bool("serve", false, "run the chat gateways and watch scheduler")
	local := flag.Bool("local", false, "fetch pages with a local headless browser instead of Bright Data")
	flag.Parse()

	if *query == "" && *history == 0 && !*serve {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig(*configPath)
	logger := observability.NewLogger()

	runs, err := store.NewRunStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer runs.Close()

	if *history > 0 {
		printHistory(runs, *history)
		return
	}

	model := buildModel(cfg)

	var bd *bridge.Client
	var fetcher bridge.Fetcher
	if *local {
		browser := bridge.NewBrowser()
		defer browser.Close()
		fetcher = browser
	} else {
		if cfg.BrightData.APIToken == "" {
			log.Fatal("Bright Data API token is not configured (set brightdata.api_token or BRIGHTDATA_API_TOKEN, or pass -local)")
		}
		bd = bridge.NewClient(cfg.BrightData.APIToken, cfg.BrightData.Zone)
		fetcher = bd
	}

	pipe := buildPipeline(cfg, model, bd, fetcher, logger)

	if *query != "" {
		observability.PrintBanner()
		st := pipe.Run(context.Background(), *query)
		if _, err := runs.SaveRun(st); err != nil {
			log.Printf("Failed to archive run: %v", err)
		}
		printResult(st)
		if st.Failed() {
			os.Exit(1)
		}
		return
	}

	runServe(cfg, pipe, runs)
}

func buildModel(cfg *config.Config) llms.Model {
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var model llms.Model
	var err error
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}
	return model
}

func buildPipeline(cfg *config.Config, model llms.Model, bd *bridge.Client, fetcher bridge.Fetcher, logger *observability.Logger) *pipeline.Pipeline {
	policy := governance.NewFetchPolicyEngine()

	resolverAgents := func() (pipeline.ToolAgent, error) {
		registry := tools.NewRegistry(tools.NewFetchTool(fetcher))
		searchTool, err := tools.NewSearchTool()
		if err != nil {
			return nil, err
		}
		registry.Register(searchTool)
		return agent.New(model, registry, policy, logger), nil
	}

	extractorAgents := func() (pipeline.ToolAgent, error) {
		registry := tools.NewRegistry(tools.NewFetchTool(fetcher))
		if bd != nil {
			for _, p := range pipeline.AllPlatforms {
				registry.Register(tools.NewProductTool(string(p), cfg.Dataset(string(p)), bd))
			}
		}
		return agent.New(model, registry, policy, logger), nil
	}

	return pipeline.New(logger,
		pipeline.NewResolver(model, resolverAgents, logger),
		pipeline.NewExtractor(model, extractorAgents, logger),
		pipeline.NewReporter(model, logger),
	)
}

func runServe(cfg *config.Config, pipe *pipeline.Pipeline, runs *store.RunStore) {
	observability.PrintBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gateways []gateway.Messenger

	if tgCfg, ok := cfg.GetGateway("telegram"); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, pipe, runs)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, tg)
	}
	if dcCfg, ok := cfg.GetGateway("discord"); ok {
		dc, err := gateway.NewDiscordGateway(dcCfg.Token, pipe, runs)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, dc)
	}
	if len(gateways) == 0 {
		log.Println("No gateway enabled; running watch scheduler only")
	}

	for _, g := range gateways {
		g := g
		go func() {
			if err := g.Start(); err != nil {
				log.Printf("Gateway error: %v", err)
				stop()
			}
		}()
	}

	watchlist, err := watch.LoadWatchlist(cfg.Watch.Path)
	if err != nil {
		log.Fatal(err)
	}
	var notifier watch.Messenger
	if len(gateways) > 0 {
		notifier = gateways[0]
	}
	interval := time.Duration(cfg.Watch.IntervalMinutes) * time.Minute
	scheduler := watch.NewScheduler(pipe, runs, notifier, watchlist, interval)
	go scheduler.Start(ctx)

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
			}
		}
	}()

	<-ctx.Done()

	for _, g := range gateways {
		if err := g.Stop(); err != nil {
			log.Printf("Gateway shutdown error: %v", err)
		}
	}

	// Give a short time for final logs
	time.Sleep(500 * time.Millisecond)
	log.Println("Shutdown complete")
}

func printResult(st pipeline.State) {
	if st.Failed() {
		fmt.Printf("⚠️  %s\n", st.Error)
		return
	}
	fmt.Println(st.FinalReport)
	if st.Confidence != nil {
		fmt.Printf("\nConfidence: %.1f/10\n", *st.Confidence)
	}
}

func printHistory(runs *store.RunStore, limit int) {
	recent, err := runs.Recent(limit)
	if err != nil {
		log.Fatal(err)
	}
	if len(recent) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}
	for _, r := range recent {
		fmt.Printf("#%d %s  %q  confidence %.1f\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Query, r.Confidence)
		if r.Error != "" {
			fmt.Printf("    error: %s\n", r.Error)
		}
	}
}
