package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/autolysis-cli/internal/chart"
	cfgpkg "github.com/KaramelBytes/autolysis-cli/internal/config"
	"github.com/KaramelBytes/autolysis-cli/internal/correlate"
	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/narrative"
	"github.com/KaramelBytes/autolysis-cli/internal/profile"
	"github.com/KaramelBytes/autolysis-cli/internal/report"
	"github.com/KaramelBytes/autolysis-cli/internal/utils"
)

// parseLoaderOptions converts shared loader flag values to dataset.Options.
func parseLoaderOptions(delimiter, decimal, thousands string, maxRows int, sheet string, sheetIndex int) (dataset.Options, error) {
	opt := dataset.Options{MaxRows: maxRows, Sheet: sheet, SheetIndex: sheetIndex}
	if delimiter != "" {
		switch delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		case "|":
			opt.Delimiter = '|'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'|'|'tab')", delimiter)
		}
	}
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal-separator: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(strings.TrimSpace(thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands-separator: %s (use ','|'.'|'space')", thousands)
	}
	return opt, nil
}

type runtimeOptions struct {
	RuntimeFlag string
	OllamaHost  string
}

// buildRuntime resolves the runtime name (flag > config > aiproxy) and
// constructs it with the configured HTTP/retry policy.
func buildRuntime(cfg *cfgpkg.Global, opts runtimeOptions) (narrative.Runtime, string, error) {
	httpTimeout := 60 * time.Second
	retryMax := 3
	baseDelay := 500 * time.Millisecond
	maxDelay := 4 * time.Second
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 0 {
			retryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
	}

	providerName := strings.ToLower(strings.TrimSpace(opts.RuntimeFlag))
	if providerName == "" && cfg != nil && cfg.DefaultProvider != "" {
		providerName = strings.ToLower(cfg.DefaultProvider)
	}
	if providerName == "" {
		providerName = narrative.ProviderAIProxy
	}
	switch providerName {
	case narrative.ProviderLocal:
		providerName = narrative.ProviderOllama
	case narrative.ProviderOpenAI:
		providerName = narrative.ProviderAIProxy
	}

	apiKey := os.Getenv("AIPROXY_TOKEN")
	if apiKey == "" && cfg != nil && cfg.APIKey != "" {
		apiKey = cfg.APIKey
	}

	rc := narrative.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		RetryMax:    retryMax,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		APIKey:      apiKey,
	}
	if cfg != nil && cfg.BaseURL != "" {
		rc.BaseURL = cfg.BaseURL
	}

	if providerName == narrative.ProviderOllama {
		host := strings.TrimSpace(opts.OllamaHost)
		if host == "" {
			if v := os.Getenv("AUTOLYSIS_OLLAMA_HOST"); v != "" {
				host = v
			}
		}
		if host == "" && cfg != nil && cfg.OllamaHost != "" {
			host = cfg.OllamaHost
		}
		if host == "" {
			host = "http://127.0.0.1:11434"
		}
		rc.Host = host
		if cfg != nil && cfg.OllamaTimeoutSec > 0 {
			rc.HTTPTimeout = time.Duration(cfg.OllamaTimeoutSec) * time.Second
		}
	}

	client, ok := narrative.GetRuntime(providerName, rc)
	if !ok {
		return nil, providerName, fmt.Errorf("runtime not supported: %s (use aiproxy|ollama)", providerName)
	}
	return client, providerName, nil
}

func selectModel(cfg *cfgpkg.Global, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cfg != nil && cfg.DefaultModel != "" {
		return cfg.DefaultModel
	}
	return narrative.DefaultModel
}

func newEngine(rt narrative.Runtime, model string, maxTokens int, temp float64) *narrative.Engine {
	if maxTokens <= 0 && cfg != nil && cfg.MaxTokens > 0 {
		maxTokens = cfg.MaxTokens
	}
	if temp <= 0 && cfg != nil && cfg.Temperature > 0 {
		temp = cfg.Temperature
	}
	return &narrative.Engine{Runtime: rt, Model: model, MaxTokens: maxTokens, Temperature: temp}
}

// hintError maps runtime error classes to actionable messages.
func hintError(err error, providerName, model string) error {
	var (
		authErr *narrative.AuthError
		rlErr   *narrative.RateLimitError
		nfErr   *narrative.ModelNotFoundError
		brErr   *narrative.BadRequestError
		qErr    *narrative.QuotaExceededError
		sErr    *narrative.ServerError
		unreach *narrative.UnreachableError
	)
	switch {
	case errors.As(err, &unreach):
		if providerName == narrative.ProviderOllama {
			return fmt.Errorf("Ollama not reachable at %s. Ensure Ollama is running (see https://ollama.com) and host is correct. You can set AUTOLYSIS_OLLAMA_HOST or config 'ollama_host'. Detail: %w", unreach.Host, err)
		}
		return fmt.Errorf("endpoint unreachable. Check your network and runtime settings: %w", err)
	case errors.As(err, &authErr):
		return fmt.Errorf("authentication failed: set AIPROXY_TOKEN or add api_key in config (~/.autolysis/config.yaml): %w", err)
	case errors.As(err, &rlErr):
		if rlErr.RetryAfter > 0 {
			return fmt.Errorf("rate limited, try again in ~%ds: %w", int(rlErr.RetryAfter.Seconds()), err)
		}
		return fmt.Errorf("rate limited by provider, please retry: %w", err)
	case errors.As(err, &nfErr):
		if providerName == narrative.ProviderOllama {
			return fmt.Errorf("local model not available (%s). Install it with 'ollama pull %s' or choose another model: %w", model, model, err)
		}
		return fmt.Errorf("model not found (%s). Verify the model name or list known models via 'autolysis models': %w", model, err)
	case errors.As(err, &brErr):
		return fmt.Errorf("request invalid. Try reducing --max-tokens: %w", err)
	case errors.As(err, &qErr):
		return fmt.Errorf("quota/billing issue. Check your provider account: %w", err)
	case errors.As(err, &sErr):
		return fmt.Errorf("provider appears unavailable (server error). Please retry later: %w", err)
	default:
		return fmt.Errorf("narrative generation failed: %w", err)
	}
}

type analyzeSettings struct {
	Stats          bool
	NoDistribution bool
	Narrate        bool
	Model          string
	Runtime        string
	OllamaHost     string
	Quiet          bool
}

type analyzeResult struct {
	Dataset *dataset.Dataset
	Images  []string
}

// runAnalyze executes the full pipeline for one file into outDir. Stages run
// in order and the report is written last, so a narrative failure leaves no
// partial report behind.
func runAnalyze(ctx context.Context, path, outDir string, opt dataset.Options, s analyzeSettings) (*analyzeResult, error) {
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	tp := profile.Profile(ds)
	m := correlate.Compute(ds)

	if err := utils.EnsureDir(outDir); err != nil {
		return nil, &report.SinkError{Path: outDir, Err: err}
	}

	var images []string
	if err := chart.Heatmap(m, filepath.Join(outDir, "correlation.png")); err != nil {
		if !errors.Is(err, chart.ErrNoData) {
			return nil, fmt.Errorf("render heatmap: %w", err)
		}
		if !s.Quiet {
			fmt.Println("⚠ No numeric columns; skipping correlation heatmap.")
		}
	} else {
		images = append(images, "correlation.png")
	}
	if !s.NoDistribution {
		if name, vals, ok := firstNumericColumn(ds); ok {
			if err := chart.Histogram(name, vals, filepath.Join(outDir, "distribution.png")); err != nil {
				if !errors.Is(err, chart.ErrNoData) {
					return nil, fmt.Errorf("render histogram: %w", err)
				}
			} else {
				images = append(images, "distribution.png")
			}
		}
	}

	var prose string
	if s.Narrate {
		rt, providerName, err := buildRuntime(cfg, runtimeOptions{RuntimeFlag: s.Runtime, OllamaHost: s.OllamaHost})
		if err != nil {
			return nil, err
		}
		model := selectModel(cfg, s.Model)
		if !s.Quiet {
			fmt.Printf("⚙ Generating narrative with model=%s ...\n", model)
		}
		eng := newEngine(rt, model, 0, 0)
		prose, err = eng.Narrate(ctx, narrative.Summarize(ds, tp, m))
		if err != nil {
			return nil, hintError(err, providerName, model)
		}
	}

	rep := &report.Report{Dataset: ds, Profile: tp, Images: images, Narrative: prose}
	if s.Stats {
		rep.NumericSummary = tp.NumericTable().RenderMarkdown()
	}
	if err := rep.WriteFile(filepath.Join(outDir, "README.md")); err != nil {
		return nil, err
	}
	return &analyzeResult{Dataset: ds, Images: images}, nil
}

func firstNumericColumn(ds *dataset.Dataset) (string, []float64, bool) {
	idx := ds.NumericColumns()
	if len(idx) == 0 {
		return "", nil, false
	}
	c := &ds.Columns[idx[0]]
	return c.Name, c.Values, true
}

// uniqueDir returns dir when unused, otherwise dir__2, dir__3, ...
func uniqueDir(dir string) string {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return dir
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s__%d", dir, i)
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func defaultWorkspacesRoot() (string, error) {
	if cfg != nil && cfg.WorkspacesDir != "" {
		dir := cfg.WorkspacesDir
		if strings.HasPrefix(dir, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			dir = strings.TrimPrefix(dir, "~")
			dir = strings.TrimPrefix(dir, string(os.PathSeparator))
			dir = strings.TrimPrefix(dir, "/")
			dir = filepath.Join(home, dir)
		}
		dir = filepath.Clean(dir)
		if err := utils.EnsureDir(dir); err != nil {
			return "", err
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".autolysis", "workspaces")
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveWorkspaceDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("workspace name is required")
	}
	root, err := defaultWorkspacesRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}
