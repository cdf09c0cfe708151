// Command createsuperuser creates an account with the staff and superuser
// flags set.
//
//	createsuperuser -email admin@example.com -name Admin [-password secret]
//
// Without -password the password is read from the terminal without echo.
// When stdin is not a terminal the account is created without a usable
// password.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/profilesapi/profiles-api/internal/core/domain"
	"github.com/profilesapi/profiles-api/internal/core/ports"
	"github.com/profilesapi/profiles-api/internal/core/service"
	"github.com/profilesapi/profiles-api/internal/infrastructure/db/mongo"
	"github.com/profilesapi/profiles-api/internal/infrastructure/hasher"
	"github.com/profilesapi/profiles-api/internal/pkg/config"
	"github.com/profilesapi/profiles-api/pkg/logger"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

type options struct {
	email    string
	name     string
	password string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "createsuperuser",
		Output:  os.Stderr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "createsuperuser",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer client.Disconnect(context.Background())

	repo := mongo.NewAccountRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create account indexes")
	}

	accounts := service.NewAccountService(
		repo,
		hasher.NewBcryptHasher(cfg.BcryptCost),
		cfg.JWTSecret,
		cfg.JWTTTL,
		logger.Component("accounts"),
	)

	if err := run(ctx, accounts, opts, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("createsuperuser failed")
		client.Disconnect(context.Background())
		os.Exit(1)
	}
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.email, "email", "", "email address of the superuser (required)")
	fs.StringVar(&opts.name, "name", "", "display name of the superuser (required)")
	fs.StringVar(&opts.password, "password", "", "password; prompted for when omitted")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.email == "" || opts.name == "" {
		fmt.Fprintln(out, "-email and -name are required")
		fs.Usage()
		return options{}, errors.New("missing required flags")
	}
	return opts, nil
}

// run resolves the password and creates the superuser.
func run(ctx context.Context, accounts ports.AccountService, opts options, stdin *os.File, out io.Writer) error {
	password := opts.password
	if password == "" && isTerminal(int(stdin.Fd())) {
		pw, err := promptPassword(stdin, out)
		if err != nil {
			return err
		}
		password = pw
	}

	account, err := accounts.CreateSuperUser(ctx, opts.email, opts.name, password)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return fmt.Errorf("an account with email %q already exists", opts.email)
		}
		return err
	}

	fmt.Fprintf(out, "Superuser %s created (id %s).\n", account, account.ID)
	if !account.HasUsablePassword() {
		fmt.Fprintln(out, "Warning: the account has no usable password and cannot log in.")
	}
	return nil
}

func promptPassword(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	first, err := readPassword(int(stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(out, "Password (again): ")
	second, err := readPassword(int(stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
