// Command invdump decodes captured inventory transactions, verifies that they
// re-encode byte-for-byte and optionally replays them against a simulated player.
package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/invtx/internal/config"
	"github.com/udisondev/invtx/internal/db"
	"github.com/udisondev/invtx/internal/gameserver"
	"github.com/udisondev/invtx/internal/gameserver/clientpackets"
	"github.com/udisondev/invtx/internal/gameserver/inventory"
	"github.com/udisondev/invtx/internal/gameserver/packet"
	"github.com/udisondev/invtx/internal/model"
)

const DefaultConfigPath = "config/invtx.yaml"

var errRoundTrip = errors.New("re-encoded body differs from capture")

type options struct {
	configPath string
	resolve    bool
	xpLevel    int
	creative   bool
	journal    bool
	files      []string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("invdump", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "path to YAML config")
	fs.BoolVarP(&opts.resolve, "resolve", "r", false, "replay transactions against a simulated player")
	fs.IntVar(&opts.xpLevel, "xp-level", 30, "experience level of the simulated player")
	fs.BoolVar(&opts.creative, "creative", false, "simulated player is in creative mode")
	fs.BoolVar(&opts.journal, "journal", false, "store accepted transactions in the database (implies --resolve)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: invdump [flags] capture.hex...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.files = fs.Args()

	if len(opts.files) == 0 {
		fs.Usage()
		return options{}, errors.New("no capture files given")
	}
	if opts.xpLevel < 0 {
		return options{}, fmt.Errorf("invalid --xp-level %d", opts.xpLevel)
	}
	if opts.journal {
		opts.resolve = true
	}
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if p := os.Getenv("INVTX_CONFIG"); p != "" && opts.configPath == DefaultConfigPath {
		opts.configPath = p
	}
	cfg, err := config.LoadServer(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	ids := inventory.WindowIDs{
		UI:      cfg.Inventory.UIWindowID,
		Enchant: cfg.Inventory.EnchantWindowID,
		Anvil:   cfg.Inventory.AnvilWindowID,
		Beacon:  cfg.Inventory.BeaconWindowID,
	}

	var journal gameserver.Journal
	if opts.journal || (opts.resolve && cfg.Inventory.Journal) {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, database.Pool()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		journal = db.NewInventoryJournalRepository(database.Pool())
		slog.Info("journal enabled", "db", cfg.Database.DBName)
	}

	handler := gameserver.NewHandler(
		inventory.NewInterpreter(slog.Default(), ids),
		journal,
		cfg.Inventory.MaxTransactionActions,
		slog.Default(),
	)

	d := &dumper{
		opts:    opts,
		ids:     ids,
		cfg:     cfg.Inventory,
		handler: handler,
	}

	reports := make([]string, len(opts.files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range opts.files {
		g.Go(func() error {
			report, err := d.processFile(gctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range reports {
		fmt.Fprint(out, r)
	}
	return nil
}

type dumper struct {
	opts    options
	ids     inventory.WindowIDs
	cfg     config.InventoryConfig
	handler *gameserver.Handler
}

func (d *dumper) processFile(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading capture: %w", err)
	}
	body, err := decodeHex(raw)
	if err != nil {
		return "", err
	}
	return d.processBody(ctx, filepath.Base(path), body)
}

// processBody verifies one transaction body and renders its report.
func (d *dumper) processBody(ctx context.Context, name string, body []byte) (string, error) {
	pkt, err := clientpackets.ParseInventoryTransaction(body, d.cfg.MaxTransactionActions)
	if err != nil {
		return "", err
	}

	w := packet.Get()
	defer w.Put()
	if _, err := pkt.Write(w); err != nil {
		return "", fmt.Errorf("re-encoding: %w", err)
	}
	if !bytes.Equal(w.Bytes(), body) {
		return "", fmt.Errorf("%w: got %x, want %x", errRoundTrip, w.Bytes(), body)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d records, round trip ok\n", name, len(pkt.Actions))
	for i, rec := range pkt.Actions {
		fmt.Fprintf(&sb, "  [%d] %s\n", i, rec)
	}

	if !d.opts.resolve {
		return sb.String(), nil
	}

	sess, err := d.newSession(name)
	if err != nil {
		return "", err
	}
	actions, err := d.handler.HandleInventoryTransaction(ctx, sess, body)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(&sb, "  resolved %d actions (xp level %d)\n", len(actions), sess.XPLevel())
	for i, a := range actions {
		fmt.Fprintf(&sb, "  -> [%d] %s\n", i, a)
	}
	for _, u := range sess.DrainSlotUpdates() {
		fmt.Fprintf(&sb, "  <- window %d slot %d: %s\n", u.WindowID, u.Slot, u.Item)
	}
	return sb.String(), nil
}

// newSession creates a simulated player with every client-only window open.
func (d *dumper) newSession(name string) (*model.Player, error) {
	mode := model.GameModeSurvival
	if d.opts.creative {
		mode = model.GameModeCreative
	}

	p, err := model.NewPlayer(name, mode, d.opts.xpLevel, d.cfg.CraftingWindowID)
	if err != nil {
		return nil, fmt.Errorf("creating simulated player: %w", err)
	}
	p.OpenWindow(model.NewAnvilInventory(d.ids.Anvil))
	p.OpenWindow(model.NewEnchantInventory(d.ids.Enchant))
	p.OpenWindow(model.NewBeaconInventory(d.ids.Beacon))
	return p, nil
}

// decodeHex decodes a hex dump, ignoring whitespace between bytes.
func decodeHex(raw []byte) ([]byte, error) {
	clean := strings.Join(strings.Fields(string(raw)), "")
	body, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decoding hex: %w", err)
	}
	return body, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
