// Command gojwe issues, verifies and load-tests encrypted tokens using
// configuration from the environment.
//
//	gojwe keygen [-kid id] [-alg A256KW]
//	gojwe issue [-claims '{"sub":"u1"}']      claims default to stdin
//	gojwe verify [token]                      token defaults to stdin
//	gojwe revoke [token]
//	gojwe loadtest [-tokens n] [-concurrency n] [-ops n] [-metrics-addr :9090]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	goJWE "github.com/MrEthical07/goJWE"
	"github.com/MrEthical07/goJWE/claims"
	"github.com/MrEthical07/goJWE/jwe"
	"github.com/MrEthical07/goJWE/keys"
	"github.com/MrEthical07/goJWE/logging"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type app struct {
	cfg    Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func main() {
	cfg, err := Load(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	a := &app{
		cfg:    cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logging.NewWithWriter(cfg.Log, os.Stderr),
	}
	code := a.run(context.Background(), os.Args[1:])
	_ = a.logger.Sync()
	os.Exit(code)
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}

	var err error
	switch args[0] {
	case "keygen":
		err = a.keygen(args[1:])
	case "issue":
		err = a.issue(ctx, args[1:])
	case "verify":
		err = a.verify(ctx, args[1:])
	case "revoke":
		err = a.revoke(ctx, args[1:])
	case "loadtest":
		err = a.loadtest(ctx, args[1:])
	case "-h", "--help", "help":
		a.usage()
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
		a.usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(a.stderr, "%s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, "usage: gojwe <keygen|issue|verify|revoke|loadtest> [flags]")
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) keygen(args []string) error {
	fs := a.flags("keygen")
	kid := fs.String("kid", "", "key id written into the definition")
	alg := fs.String("alg", a.cfg.Token.KeyWrapping, "key wrapping algorithm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*kid) == "" {
		return errors.New("-kid is required")
	}
	def, err := jwe.GenerateKey(*kid, *alg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(def))
	return err
}

func (a *app) issue(ctx context.Context, args []string) error {
	fs := a.flags("issue")
	raw := fs.String("claims", "", "claims JSON object; read from stdin when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := []byte(*raw)
	if len(input) == 0 {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("read claims: %w", err)
		}
		input = data
	}
	var set claims.Set
	if err := json.Unmarshal(input, &set); err != nil {
		return fmt.Errorf("parse claims: %w", err)
	}

	engine, cleanup, err := a.engine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := engine.Issue(ctx, set)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, token)
	return err
}

func (a *app) verify(ctx context.Context, args []string) error {
	token, err := a.tokenArg("verify", args)
	if err != nil {
		return err
	}

	engine, cleanup, err := a.engine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	set, err := engine.Verify(ctx, token)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// revoke only makes sense against a shared Redis; with the miniredis
// fallback the entry disappears on exit.
func (a *app) revoke(ctx context.Context, args []string) error {
	token, err := a.tokenArg("revoke", args)
	if err != nil {
		return err
	}
	if !a.cfg.Redis.Revocation {
		return goJWE.ErrRevocationNotConfigured
	}

	engine, cleanup, err := a.engine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := engine.Revoke(ctx, token); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, "revoked")
	return err
}

func (a *app) tokenArg(name string, args []string) (string, error) {
	fs := a.flags(name)
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return strings.TrimSpace(fs.Arg(0)), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (a *app) engine(ctx context.Context) (*goJWE.Engine, func(), error) {
	def, err := a.cfg.definition()
	if err != nil {
		return nil, nil, err
	}
	return a.buildEngine(ctx, def)
}

func (a *app) buildEngine(_ context.Context, def keys.Definition) (*goJWE.Engine, func(), error) {
	builder := goJWE.New().
		WithConfig(a.cfg.engineConfig(def)).
		WithLogger(a.logger)

	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if a.cfg.Redis.Revocation {
		client, closeRedis, err := a.redisClient()
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, closeRedis)
		builder = builder.WithRedis(client)
	}

	engine, err := builder.Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, engine.Close)
	return engine, cleanup, nil
}

func (a *app) redisClient() (redis.UniversalClient, func(), error) {
	addr := a.cfg.Redis.Addr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		a.logger.Info("using miniredis", zap.String("addr", mr.Addr()))
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	a.logger.Info("using redis", zap.String("addr", addr))
	return client, func() { _ = client.Close() }, nil
}
