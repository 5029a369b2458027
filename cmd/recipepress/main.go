package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"RecipePress/internal/app"
	"RecipePress/internal/config"
	"RecipePress/internal/logging"
	"RecipePress/internal/normalize"
)

var version = "dev"

func main() {
	if err := rootCmd().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    "recipepress",
		Usage:   "Publish recipes with Schema.org structured data into a content store",
		Version: version,
		Commands: []*cli.Command{
			publishCmd(),
			renderCmd(),
		},
	}
}

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Normalize, compile, and publish a recipe payload",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "payload",
				Aliases: []string{"p"},
				Usage:   "Path to the JSON payload ('-' for stdin)",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the YAML configuration file",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Compile and print the artifacts without contacting the store",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			payload, err := loadPayload(cmd.String("payload"))
			if err != nil {
				return err
			}

			logger := logging.New(cfg.Logging.Level)

			if cmd.Bool("dry-run") {
				application := app.NewDetached(cfg, logger)
				_, out, err := application.Compile(payload)
				if err != nil {
					return err
				}
				fmt.Println(out.Markup())
				return nil
			}

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			result := application.Publish(ctx, payload)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if !result.Success {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Compile a recipe payload and print one structured-data artifact",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "payload",
				Aliases: []string{"p"},
				Usage:   "Path to the JSON payload ('-' for stdin)",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Artifact to print: jsonld, microdata, or block",
				Value: "jsonld",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			payload, err := loadPayload(cmd.String("payload"))
			if err != nil {
				return err
			}

			application := app.NewDetached(cfg, logging.New(cfg.Logging.Level))
			_, out, err := application.Compile(payload)
			if err != nil {
				return err
			}

			switch cmd.String("format") {
			case "jsonld":
				fmt.Println(string(out.JSONLD))
			case "microdata":
				fmt.Println(out.Microdata)
			case "block":
				fmt.Println(out.Block)
			default:
				return fmt.Errorf("unknown format %q", cmd.String("format"))
			}
			return nil
		},
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFile(path)
}

func loadPayload(path string) (normalize.Payload, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var payload normalize.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}
