package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	backendAuto = "auto"
	backendGot  = "got"
	backendGit  = "git"
)

type globalOptions struct {
	repoPath string
	backend  string
	verbose  bool
	logFile  string
}

func (o *globalOptions) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.repoPath, "repo", "C", ".", "path inside the repository")
	cmd.PersistentFlags().StringVar(&o.backend, "backend", backendAuto, "repository backend: auto, got or git")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.logFile, "log-file", "", "write logs to a rotating file instead of stderr")
}

func (o *globalOptions) validate() error {
	switch o.backend {
	case backendAuto, backendGot, backendGit:
		return nil
	}
	return fmt.Errorf("unknown backend %q (want auto, got or git)", o.backend)
}

func setupLogging(opts *globalOptions, stderr io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)
	if opts.verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if opts.logFile == "" {
		logger.SetOutput(stderr)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.logFile), 0o755); err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	logger.SetOutput(&lumberjack.Logger{
		Filename:   opts.logFile,
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	})
	return nil
}
