// Command helpdeskctl is the operator tool for the help desk service: it
// seeds dataset stores and manages bearer tokens.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/helpdesk/helpdesk/internal/auth"
	"github.com/helpdesk/helpdesk/internal/config"
	"github.com/helpdesk/helpdesk/internal/database"
	"github.com/helpdesk/helpdesk/internal/dataset"
	"github.com/helpdesk/helpdesk/internal/storage"
	"github.com/helpdesk/helpdesk/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli"
)

var seedCmd = cli.Command{
	Name:  "seed",
	Usage: "upload a dataset file to MinIO or MongoDB",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "file",
			Value: "data.jsonld",
			Usage: "dataset document to upload",
		},
		cli.StringFlag{
			Name:  "target",
			Value: config.SourceMinIO,
			Usage: "destination store: minio or mongo",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		n, err := seed(context.Background(), cfg, c.String("file"), c.String("target"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "seeded %d help requests into %s\n", n, c.String("target"))
		return nil
	},
}

var tokenCmd = cli.Command{
	Name:  "token",
	Usage: "mint a bearer token for AUTH_MODE=jwt",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:   "secret",
			EnvVar: "JWT_SECRET",
			Usage:  "HS256 signing secret",
		},
		cli.StringFlag{
			Name:  "sub",
			Value: "operator",
			Usage: "subject claim",
		},
		cli.StringFlag{
			Name:  "name",
			Usage: "display name claim",
		},
		cli.DurationFlag{
			Name:  "ttl",
			Value: time.Hour,
			Usage: "token lifetime",
		},
	},
	Action: func(c *cli.Context) error {
		tok, err := auth.GenerateToken(c.String("secret"), c.String("sub"), c.String("name"), c.Duration("ttl"))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, tok)
		return nil
	},
}

var revokeCmd = cli.Command{
	Name:      "revoke",
	Usage:     "put a bearer token on the Redis revocation list",
	ArgsUsage: "TOKEN",
	Flags: []cli.Flag{
		cli.DurationFlag{
			Name:  "ttl",
			Value: 24 * time.Hour,
			Usage: "how long the revocation is kept",
		},
	},
	Action: func(c *cli.Context) error {
		token := c.Args().First()
		if token == "" {
			return errors.New("revoke: TOKEN argument is required")
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if !cfg.Redis.Enabled() {
			return errors.New("revoke: REDIS_HOST is not set")
		}
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := auth.NewRedisRevocationList(rdb).Revoke(context.Background(), token, c.Duration("ttl")); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "revoked")
		return nil
	},
}

// seed reads path and publishes it to target, returning the record count.
func seed(ctx context.Context, cfg *config.Config, path, target string) (int, error) {
	ds, err := dataset.FileSource{Path: path}.Load(ctx)
	if err != nil {
		return 0, err
	}
	switch target {
	case config.SourceMinIO:
		objects, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return 0, err
		}
		if err := dataset.PublishObject(ctx, objects, cfg.Data.ObjectKey, ds); err != nil {
			return 0, err
		}
	case config.SourceMongo:
		if cfg.MongoDB.URI == "" {
			return 0, errors.New("MONGODB_URI is required to seed mongo")
		}
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 3)
		if err != nil {
			return 0, err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		if err := dataset.NewMongoSource(client.Database(cfg.MongoDB.Database)).Publish(ctx, ds); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown seed target %q", target)
	}
	logger.Infof("seeded %d help requests into %s", len(ds.HelpRequests), target)
	return len(ds.HelpRequests), nil
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "helpdeskctl"
	app.Usage = "operate the help desk service"
	app.Writer = out
	app.Commands = []cli.Command{seedCmd, tokenCmd, revokeCmd}
	app.Before = func(c *cli.Context) error {
		logger.Init(os.Getenv("LOG_LEVEL"))
		return nil
	}
	return app
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}
