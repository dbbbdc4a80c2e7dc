package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"attnchain/config"
	"attnchain/core/state"
	"attnchain/native/platform"
	"attnchain/observability/logging"
	"attnchain/storage"
	"attnchain/storage/trie"
)

var stateRootKey = []byte("platform/root")

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("ATTN_ENV"))
	logger := logging.Setup("attnd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	root, _ := db.Get(stateRootKey)
	tr, err := trie.NewTrie(db, root)
	if err != nil {
		logger.Error("Failed to open state trie", slog.Any("error", err))
		os.Exit(1)
	}
	manager := state.NewManager(tr)

	engine := platform.NewEngine(cfg.Authority)
	engine.SetState(manager)
	engine.AllowBinder(cfg.AirdropAgent)
	if emission := strings.TrimSpace(cfg.RoundEmission); emission != "" {
		amount, ok := new(big.Int).SetString(emission, 10)
		if !ok || amount.Sign() < 0 {
			logger.Error("Invalid round emission", slog.String("value", emission))
			os.Exit(1)
		}
		engine.SetRoundEmission(amount)
	}

	if err := bootstrap(engine, manager, cfg, db, tr); err != nil {
		logger.Error("Failed to bootstrap platform", slog.Any("error", err))
		os.Exit(1)
	}

	p, _, err := manager.PlatformGet()
	if err != nil {
		logger.Error("Failed to read platform state", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Platform ready",
		slog.String("name", p.Name),
		slog.String("symbol", p.RewardSymbol),
		slog.String("phase", p.Phase.String()),
		slog.Uint64("round", p.Round),
	)
}

// bootstrap initialises the platform singleton on first start and commits
// the resulting state, remembering the new root in the metadata store.
func bootstrap(engine *platform.Engine, manager *state.Manager, cfg *config.Config, db storage.Database, tr *trie.Trie) error {
	if _, ok, err := manager.PlatformGet(); err != nil {
		return err
	} else if ok {
		return nil
	}

	err := engine.Initialize(cfg.Authority, cfg.PlatformName, cfg.RewardDealer, cfg.RewardSymbol, cfg.Precision, cfg.AirdropAgent)
	if err != nil && !errors.Is(err, platform.ErrAlreadyInitialized) {
		return err
	}
	newRoot, err := tr.Commit(tr.Root(), 0)
	if err != nil {
		return fmt.Errorf("commit genesis state: %w", err)
	}
	return db.Put(stateRootKey, newRoot.Bytes())
}
