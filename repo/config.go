// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jessevdk/go-flags"
)

const (
	// DefaultLogFilename is the filename of the rotated log inside LogDir.
	DefaultLogFilename = "emberdb.log"

	defaultConfigFilename = "emberdb.conf"
)

// DefaultHomeDir is the default data directory for the current user.
var DefaultHomeDir = AppDataDir("emberd", false)

// Config defines the configuration options for the database tool.
//
// See LoadConfig for details on the configuration load process.
type Config struct {
	ShowVersion bool   `short:"v" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"d" long:"datadir" description:"Directory to store data"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	LogLevel    string `short:"l" long:"loglevel" description:"Set the logging level [debug, info, warning, error]." default:"info"`
	Regtest     bool   `short:"r" long:"regtest" description:"Use regression testing mode"`
	ShowTip     bool   `long:"showtip" description:"Print the repository tip and exit"`
	TxIndex     bool   `long:"txindex" description:"Enable the transaction index"`
	NoTxIndex   bool   `long:"notxindex" description:"Disable the transaction index"`
	Reindex     bool   `long:"reindex" description:"Rebuild or clear the transaction index to match the indexing flag"`
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
func LoadConfig() (*Config, error) {
	cfg := Config{
		DataDir: DefaultHomeDir,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&cfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, err
		}
	}
	if cfg.ConfigFile != "" {
		preCfg.ConfigFile = CleanAndExpandPath(cfg.ConfigFile)
	} else if cfg.DataDir != "" {
		preCfg.ConfigFile = filepath.Join(cfg.DataDir, defaultConfigFilename)
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if cfg.ShowVersion {
		fmt.Println(appName, "version", VersionString())
		os.Exit(0)
	}

	// Load additional config from file, then reparse the command line to
	// let flags override file settings.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
	}

	_, err = parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Error parsing command line arguments: %v\n", err)
		return nil, err
	}

	if cfg.TxIndex && cfg.NoTxIndex {
		return nil, errors.New("invalid combination of txindex and notxindex")
	}

	netStr := "mainnet"
	if cfg.Regtest {
		netStr = "regtest"
	}

	cfg.DataDir = CleanAndExpandPath(cfg.DataDir)
	if cfg.Regtest {
		cfg.DataDir = filepath.Join(cfg.DataDir, netStr)
	}
	if cfg.LogDir == "" {
		cfg.LogDir = CleanAndExpandPath(filepath.Join(cfg.DataDir, "logs", netStr))
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AppDataDir returns an operating system specific data directory for the
// named application. On POSIX systems this is a dot-directory under the
// user's home; roaming selects the roaming profile on Windows.
func AppDataDir(appName string, roaming bool) string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if roaming || appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, strings.Title(appName))
		}
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", strings.Title(appName))
	}
	return filepath.Join(homeDir, "."+appName)
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}
	return filepath.Clean(os.ExpandEnv(path))
}
