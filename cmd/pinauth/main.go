package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ettawallet/pinauth/internal/biometry"
	"github.com/ettawallet/pinauth/internal/cache"
	"github.com/ettawallet/pinauth/internal/crypto"
	"github.com/ettawallet/pinauth/internal/models"
	"github.com/ettawallet/pinauth/internal/pincode"
	"github.com/ettawallet/pinauth/internal/storage"
	"github.com/ettawallet/pinauth/internal/storage/boltdb"
	"github.com/ettawallet/pinauth/internal/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// backend объединяет оба интерфейса хранилища одной реализацией
type backend interface {
	storage.SecureStorage
	storage.StateStorage
	Close() error
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	backendName := flag.String("backend", "bolt", "Storage backend: bolt or sqlite")
	dbPath := flag.String("db", "pinauth.db", "Path to local database")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	// Открываем выбранный storage backend
	store, err := openBackend(ctx, *backendName, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	// Собираем engine
	peppers := crypto.NewPepperStore(store)
	hasher := crypto.NewHasher(peppers)

	secretCache, err := cache.New(ctx, hasher, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to restore secret cache: %v\n", err)
		os.Exit(1)
	}

	gate := biometry.New(store, terminalCapability{}, logger)
	auth := pincode.New(hasher, secretCache, gate, store, terminalNavigator{}, logger)

	if err := runCommand(ctx, args[0], auth, store); err != nil {
		if errors.Is(err, pincode.ErrUserCancelled) {
			fmt.Println("Cancelled.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openBackend(ctx context.Context, name, dbPath string) (backend, error) {
	switch name {
	case "bolt":
		return boltdb.New(ctx, dbPath, boltdb.WithPrompter(terminalPrompter))
	case "sqlite":
		return sqlite.New(ctx, dbPath, sqlite.WithPrompter(terminalPrompter))
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func runCommand(ctx context.Context, command string, auth *pincode.Authenticator, store backend) error {
	switch command {
	case "status":
		return runStatus(ctx, auth)
	case "setup":
		return runSetup(ctx, auth, store)
	case "verify":
		return runVerify(ctx, auth)
	case "check":
		return runCheck(ctx, auth)
	case "change":
		return runChange(ctx, auth)
	case "enable-biometry":
		return runEnableBiometry(ctx, auth)
	case "remove":
		return runRemove(ctx, auth)
	case "logout":
		return auth.ClearCachedSecrets(ctx)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runStatus(ctx context.Context, auth *pincode.Authenticator) error {
	pinType, err := auth.PinType(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Pin type: %s\n", pinType)
	return nil
}

func runSetup(ctx context.Context, auth *pincode.Authenticator, store backend) error {
	pinType, err := auth.PinType(ctx)
	if err != nil {
		return err
	}
	if pinType != models.PinTypeUnset {
		return fmt.Errorf("pin already configured (%s), use change", pinType)
	}

	if _, err := auth.RequestPincodeInput(ctx, false, false, ""); err != nil {
		return err
	}

	if err := store.SavePinType(ctx, models.PinTypeCustom); err != nil {
		return fmt.Errorf("failed to save pin type: %w", err)
	}

	fmt.Println("✓ PIN configured.")
	return nil
}

func runVerify(ctx context.Context, auth *pincode.Authenticator) error {
	if _, err := auth.GetPincode(ctx, true); err != nil {
		return err
	}
	fmt.Println("✓ PIN verified.")
	return nil
}

func runCheck(ctx context.Context, auth *pincode.Authenticator) error {
	pin, err := readSecret("PIN to check: ")
	if err != nil {
		return err
	}
	if auth.CheckPin(ctx, pin, "") {
		fmt.Println("✓ Match.")
	} else {
		fmt.Println("✗ No match (wrong PIN or no fresh cached secret).")
	}
	return nil
}

func runChange(ctx context.Context, auth *pincode.Authenticator) error {
	newPin, err := readSecret("New PIN: ")
	if err != nil {
		return err
	}
	if !auth.UpdatePin(ctx, newPin) {
		return fmt.Errorf("pin change failed")
	}
	fmt.Println("✓ PIN changed.")
	return nil
}

func runEnableBiometry(ctx context.Context, auth *pincode.Authenticator) error {
	if err := auth.SetPincodeWithBiometry(ctx); err != nil {
		return err
	}
	fmt.Println("✓ PIN stored behind biometry.")
	return nil
}

func runRemove(ctx context.Context, auth *pincode.Authenticator) error {
	if err := auth.RemoveStoredPin(ctx); err != nil {
		return err
	}
	fmt.Println("✓ PIN removed.")
	return nil
}

func printVersion() {
	fmt.Printf("pinauth %s\n", Version)
	fmt.Printf("Build date: %s\n", BuildDate)
	fmt.Printf("Git commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println("Usage: pinauth [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status           Show configured pin type")
	fmt.Println("  setup            Configure a new PIN")
	fmt.Println("  verify           Verify the PIN (cache -> biometry -> manual entry)")
	fmt.Println("  check            Check a PIN against the cached secret")
	fmt.Println("  change           Change the PIN")
	fmt.Println("  enable-biometry  Store the PIN behind the biometric gate")
	fmt.Println("  remove           Remove the stored PIN entirely")
	fmt.Println("  logout           Wipe cached secrets")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
