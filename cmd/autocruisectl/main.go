package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/socketrpc"
)

var version = "dev"

const usageText = `Usage: autocruisectl [flags] <command>

Commands:
  status        list connected cruise sessions
  tile          switch every session to the tile view
  select N      show page N (zero based) in every session
  pause         pause rotation in every session
  resize        re-run layout in every session
`

// controller is the subset of socketrpc.Client the commands use.
type controller interface {
	Status() ([]cruise.SessionInfo, error)
	Tile() (int, error)
	Select(index int) (int, error)
	Pause() (int, error)
	Resize() (int, error)
}

func main() {
	var configPath, socketPath string
	var asJSON, showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/autocruise/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path of the autocruise service")
	flag.BoolVar(&asJSON, "json", false, "print machine readable output")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText+"\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("autocruisectl %s\n", version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if socketPath == "" {
		p, err := configuredSocketPath(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		socketPath = p
	}

	client, err := socketrpc.Dial(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to autocruise service at %s: %v\nIs the service running? Start it with: autocruise\n", socketPath, err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(os.Stdout, client, flag.Args(), asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configuredSocketPath(configPath string) (string, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOCRUISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return v.GetString("socket-path"), nil
		}
		configPath = filepath.Join(home, ".config", "autocruise", "config.yml")
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return "", err
		}
	}
	return v.GetString("socket-path"), nil
}

func run(w io.Writer, c controller, args []string, asJSON bool) error {
	var (
		n   int
		err error
	)
	switch cmd := args[0]; cmd {
	case "status":
		sessions, err := c.Status()
		if err != nil {
			return err
		}
		if asJSON {
			return json.NewEncoder(w).Encode(sessions)
		}
		fmt.Fprintln(w, renderSessions(sessions, time.Now()))
		return nil
	case "tile":
		n, err = c.Tile()
	case "select":
		if len(args) < 2 {
			return errors.New("select needs a page index")
		}
		idx, perr := strconv.Atoi(args[1])
		if perr != nil || idx < 0 {
			return fmt.Errorf("invalid page index %q", args[1])
		}
		n, err = c.Select(idx)
	case "pause":
		n, err = c.Pause()
	case "resize":
		n, err = c.Resize()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(w).Encode(socketrpc.Delivery{Sessions: n})
	}
	fmt.Fprintf(w, "%s delivered to %d session(s)\n", args[0], n)
	return nil
}

func renderSessions(sessions []cruise.SessionInfo, now time.Time) string {
	if len(sessions) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("no sessions connected")
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.Remote,
			now.Sub(s.Started).Truncate(time.Second).String(),
			sessionState(s.Status),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "REMOTE", "UP", "STATE").
		Rows(rows...)
	return t.Render()
}

func sessionState(st cruise.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d/%d", st.Mode, st.Current+1, st.Pages)
	switch {
	case st.Paused:
		b.WriteString(" paused")
	case st.Rotating:
		fmt.Fprintf(&b, " next %s", st.Remaining.Round(time.Second))
	}
	return b.String()
}
