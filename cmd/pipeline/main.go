package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/cohort/internal/config"
	"github.com/JaimeStill/cohort/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	agentCfg := gaconfig.AgentConfig{Name: "cohort-judge"}
	if err := config.FinalizeAgent(&agentCfg); err != nil {
		log.Fatal("agent config failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}

	if err := infra.Start(); err != nil {
		log.Fatal("infrastructure start failed:", err)
	}
	infra.Lifecycle.WaitForStartup()

	infra.Logger.Info(
		"cohort pipeline starting",
		"version", cfg.Version,
		"env", cfg.Env(),
	)

	rt, err := buildRuntime(cfg, agentCfg, infra)
	if err != nil {
		log.Fatal("runtime init failed:", err)
	}

	worker := newWorker(rt, cfg.Pipeline.PollIntervalDuration(), infra.Logger)
	go worker.Run(infra.Lifecycle.Context())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		infra.Logger.Error("shutdown incomplete", "error", err)
	}

	infra.Logger.Info("cohort pipeline stopped")
}
