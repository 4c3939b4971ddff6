package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/di"
	"go.uber.org/zap"
)

var (
	scanURL   = flag.String("url", "", "Scan a single URL")
	emailFile = flag.String("email-file", "", "Scan an email message read from file (use stdin if '-')")
	urlsFile  = flag.String("urls-file", "", "Scan a batch of URLs, one per line")

	// Pipeline overrides
	threshold    = flag.Float64("threshold", -1, "Confidence threshold override (default from config)")
	modelDir     = flag.String("model-dir", "", "Model artifact directory override")
	keywordsFile = flag.String("keywords", "", "Keyword list YAML file override")

	// Logging flags
	verbose = flag.Bool("verbose", false, "Enable verbose console logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer(&di.CLIFlags{
		Threshold:    *threshold,
		ModelDir:     *modelDir,
		KeywordsFile: *keywordsFile,
		Verbose:      *verbose,
		JSONLog:      *jsonLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(logger *zap.Logger, cfg *config.Config, service *core.ScanService) error {
	defer logger.Sync()

	if file := cfg.GetViper().ConfigFileUsed(); file != "" {
		logger.Info("Loaded configuration from file", zap.String("file", file))
	}

	ctx := context.Background()

	switch {
	case *scanURL != "":
		result, err := service.ScanURL(ctx, *scanURL)
		if err != nil {
			return fmt.Errorf("scan url: %w", err)
		}
		return printResult(result)

	case *emailFile != "":
		content, err := readInput(*emailFile)
		if err != nil {
			return err
		}
		result, err := service.ScanEmail(ctx, content)
		if err != nil {
			return fmt.Errorf("scan email: %w", err)
		}
		return printResult(result)

	case *urlsFile != "":
		items, err := readBatchItems(*urlsFile)
		if err != nil {
			return err
		}
		results := service.ScanBatch(ctx, items)
		return printBatch(items, results)

	default:
		flag.Usage()
		return fmt.Errorf("nothing to scan: pass -url, -email-file or -urls-file")
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func readBatchItems(path string) ([]core.BatchItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var items []core.BatchItem
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items = append(items, core.BatchItem{Kind: core.InputURL, Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

func printResult(result *core.ScoreResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// batchOutput is the per-item wire form of a batch scan.
type batchOutput struct {
	Input  string            `json:"input"`
	Result *core.ScoreResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func printBatch(items []core.BatchItem, results []core.BatchResult) error {
	out := make([]batchOutput, len(results))
	for i, r := range results {
		out[i] = batchOutput{Input: items[i].Text, Result: r.Result}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
