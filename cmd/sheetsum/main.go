// Package main is the sheetsum CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sheetsum/sheetsum/internal/analysis"
	"github.com/sheetsum/sheetsum/internal/config"
	"github.com/sheetsum/sheetsum/internal/digest"
	"github.com/sheetsum/sheetsum/internal/server"
	"github.com/sheetsum/sheetsum/internal/workbook"
	"github.com/sheetsum/sheetsum/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/sheetsum/config.yaml"

// apiKeyEnv is where the analysis service key comes from. It is never read
// from config files.
const apiKeyEnv = "GEMINI_API_KEY"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if neither
// exists, built-in defaults are used so the tool runs without any config
// file. An explicitly given path must exist.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "digest":
		runDigest()
	case "version", "--version", "-v":
		fmt.Printf("sheetsum version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	var analyzer analysis.Analyzer
	if apiKey := os.Getenv(apiKeyEnv); apiKey != "" {
		analyzer = analysis.NewClient(cfg.AnalyzerConfig(apiKey), logger)
	} else {
		logger.Warn("analysis disabled: environment variable not set", zap.String("env", apiKeyEnv))
	}

	srv := server.NewServer(cfg, analyzer, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runDigest() {
	fs := flag.NewFlagSet("digest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jsonOut := fs.Bool("json", false, "print structured records as JSON instead of the text digest")
	_ = fs.Parse(os.Args[2:])

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Println("Usage: sheetsum digest [-config path] [-json] <file.xlsx> [file2.ods ...]")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	results := workbook.ProcessBatch(readLocalFiles(paths), cfg.WorkbookConfig())
	text := digest.Compose(results, cfg.ComposerConfig())

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]interface{}{"digest": text, "files": results}); err != nil {
			fmt.Printf("Failed to encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(text)
}

// readLocalFiles reads each path into memory, in argument order. An
// unreadable file becomes a zero-byte entry so the loader reports it as that
// file's error record while the rest of the batch proceeds.
func readLocalFiles(paths []string) []workbook.File {
	files := make([]workbook.File, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			content = nil
		}
		files = append(files, workbook.File{Name: filepath.Base(p), Content: content})
	}
	return files
}

func printUsage() {
	fmt.Println(`sheetsum - bounded spreadsheet digests for AI analysis

Usage:
  sheetsum serve [-config path] [-debug]          Start the HTTP server
  sheetsum digest [-config path] [-json] <files>  Digest local workbook files
  sheetsum version                                Print version
  sheetsum help                                   Show this help

The analyze endpoint requires the ` + apiKeyEnv + ` environment variable.`)
}
