package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/autocruise/internal/hostdoc"
	"github.com/tinytelemetry/autocruise/internal/model"
	"github.com/tinytelemetry/autocruise/internal/resolver"
	"github.com/tinytelemetry/autocruise/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

// errNoPages is returned when nothing resolves to a page; usage has already been printed.
var errNoPages = errors.New("no pages to cruise")

func main() {
	var configPath string
	var showVersion bool
	var override cliConfig

	flag.StringVar(&configPath, "config-file", "", "config file (default is $HOME/.config/autocruise/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.StringVar(&override.HostDocument, "host", "", "host HTML document supplying options and anchors")
	flag.StringVar(&override.Interval, "interval", "", "seconds each page stays on screen")
	flag.StringVar(&override.View, "view", "", "initial view: cycle or tile")
	flag.StringVar(&override.Config, "config", "", "URL of a remote JSON configuration document")
	flag.StringVar(&override.ConfigBase, "configbase", "", "prefix prepended to -config")
	flag.StringVar(&override.Skin, "skin", "", "skin name under $HOME/.config/autocruise/skins")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [page-url ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("Autocruise TUI - Terminal Page Cycler\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = mergeFlags(cfg, override)

	if err := runTUI(cfg, flag.Args()); err != nil {
		if !errors.Is(err, errNoPages) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// mergeFlags lets explicitly set flags win over the config file and environment.
func mergeFlags(cfg, flags cliConfig) cliConfig {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.HostDocument, flags.HostDocument)
	set(&cfg.Interval, flags.Interval)
	set(&cfg.View, flags.View)
	set(&cfg.Config, flags.Config)
	set(&cfg.ConfigBase, flags.ConfigBase)
	set(&cfg.Skin, flags.Skin)
	return cfg
}

// resolverInput maps CLI configuration onto the same pipeline the HTTP server uses:
// the host document supplies body attributes and anchors, options become the query,
// and positional arguments are appended as anchors.
func resolverInput(cfg cliConfig, args []string) (resolver.Input, error) {
	doc, err := hostdoc.Load(cfg.HostDocument)
	if err != nil {
		return resolver.Input{}, fmt.Errorf("reading host document: %w", err)
	}

	q := url.Values{}
	add := func(key, v string) {
		if v != "" {
			q.Set(key, v)
		}
	}
	add(model.OptionInterval, cfg.Interval)
	add(model.OptionView, cfg.View)
	add(model.OptionConfigBase, cfg.ConfigBase)
	add(model.OptionConfig, cfg.Config)

	anchors := append(append([]string{}, doc.Anchors...), args...)
	return resolver.Input{
		BodyAttributes: doc.BodyAttributes,
		Query:          strings.ReplaceAll(q.Encode(), "+", "%20"), // the resolver keeps '+' literal
		Anchors:        anchors,
		Base:           workingDirURL(),
	}, nil
}

func workingDirURL() *url.URL {
	wd, err := os.Getwd()
	if err != nil {
		return nil
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(wd) + "/"}
}

// localClient is an HTTP client that also serves file:// URLs, so relative
// configuration documents and pages resolve against the working directory.
func localClient(timeout time.Duration) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &http.Client{Transport: t, Timeout: timeout}
}

func runTUI(cfg cliConfig, args []string) error {
	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".config", "autocruise")
	if err := tui.InitializeSkin(cfg.Skin, configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	in, err := resolverInput(cfg, args)
	if err != nil {
		return err
	}
	client := localClient(cfg.FetchTimeout)
	fetcher := resolver.NewHTTPFetcher(cfg.FetchTimeout)
	fetcher.Client = client
	res := resolver.Resolve(context.Background(), in, fetcher)
	if res.Err != nil {
		return res.Err
	}
	if !res.Config.HasPages() {
		fmt.Fprint(os.Stderr, resolver.Usage)
		return errNoPages
	}

	page := tui.NewCruisePage(res.Config, tui.Options{Fetch: tui.HTTPTitle(client)})
	app := tui.NewApp(page)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
