package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/n0madic/go-thinkgate/internal/config"
	"github.com/n0madic/go-thinkgate/internal/models"
	"github.com/n0madic/go-thinkgate/internal/reasoning"
	"github.com/n0madic/go-thinkgate/internal/scan"
	"github.com/n0madic/go-thinkgate/internal/server"
	"github.com/n0madic/go-thinkgate/internal/transform"
	"github.com/n0madic/go-thinkgate/internal/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go-thinkgate <command> [flags]")
		fmt.Fprintln(os.Stderr, "Commands: serve, check")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(cmdServe())
	case "check":
		os.Exit(cmdCheck())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Commands: serve, check")
		os.Exit(1)
	}
}

func cmdServe() int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg := config.DefaultFromEnv()

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Bind host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Listen port")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Upstream API base URL")
	fs.StringVar(&cfg.ProviderName, "provider", cfg.ProviderName, "Provider name")
	fs.BoolVar(&cfg.ForcePermanentThinking, "force-thinking", cfg.ForcePermanentThinking, "Force reasoning on for every request")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Write diagnostic request/response logs")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Diagnostic log directory")
	fs.Parse(os.Args[2:])

	srv := server.New(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Info("ThinkGate starting", "host", cfg.Host, "port", cfg.Port, "upstream", cfg.BaseURL)
	if err := srv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
		slog.Error("server error", "error", err)
		return 1
	}
	return 0
}

// cmdCheck resolves the reasoning decision for a sample message offline, so
// tag and keyword behavior can be inspected without hitting an upstream.
func cmdCheck() int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	model := fs.String("model", "glm-4.6", "Model name to resolve against")
	jsonOut := fs.Bool("json", false, "Print the full transformed request as JSON")
	fs.Parse(os.Args[2:])

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "Enter a message and press Enter:")
		sc := bufio.NewScanner(os.Stdin)
		if sc.Scan() {
			text = strings.TrimSpace(sc.Text())
		}
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "check: no message given")
		return 1
	}

	cfg := config.DefaultFromEnv()
	table := models.DefaultTable()
	mc := table.Get(*model)

	req := &types.ChatCompletionRequest{
		Model:    *model,
		Messages: []types.ChatMessage{{Role: "user", Content: text}},
	}
	keywords := scan.Keywords(cfg.CustomKeywords, cfg.OverrideKeywords)
	sig := scan.Messages(req.Messages, keywords)
	in := reasoning.Input{
		Force:        cfg.ForcePermanentThinking,
		Override:     cfg.OverrideReasoning,
		Signals:      sig,
		ModelCapable: mc.ReasoningCapable,
	}
	decision := reasoning.Resolve(in)

	fmt.Printf("model:              %s (provider %s, reasoning capable %v)\n", *model, mc.Provider, mc.ReasoningCapable)
	fmt.Printf("signals:            ultrathink=%v thinking_tag=%d effort_tag=%q keywords=%v\n",
		sig.Ultrathink, sig.ThinkingTag, sig.EffortTag, sig.KeywordsDetected)
	fmt.Printf("decision:           enabled=%v effort=%s level=%d\n", decision.Enabled, decision.Effort, decision.Level)
	fmt.Printf("user conditions:    %v\n", in.UserConditions())

	if *jsonOut {
		out := transform.Apply(req, transform.Params{
			Config:                   mc,
			Signals:                  sig,
			Decision:                 decision,
			UserConditions:           in.UserConditions(),
			OverrideMaxTokens:        cfg.OverrideMaxTokens,
			OverrideTemperature:      cfg.OverrideTemperature,
			OverrideTopP:             cfg.OverrideTopP,
			OverrideKeywordDetection: cfg.OverrideKeywordDetection,
		})
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "check: encode request: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
	}
	return 0
}
