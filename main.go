//     Copyright (C) 2026, fsearch authors
//
//     This file is part of fsearch.
//
//     fsearch is free software: you can redistribute it and/or modify
//     it under the terms of the GNU General Public License as published by
//     the Free Software Foundation, either version 3 of the License, or
//     (at your option) any later version.
//
//     fsearch is distributed in the hope that it will be useful,
//     but WITHOUT ANY WARRANTY; without even the implied warranty of
//     MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//     GNU General Public License for more details.
//
//     You should have received a copy of the GNU General Public License
//     along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fsearch-io/fsearch/searcher"
	"github.com/fsearch-io/fsearch/searcher/bench"
	"github.com/fsearch-io/fsearch/searcher/certs"
	"github.com/fsearch-io/fsearch/searcher/client"
	"github.com/fsearch-io/fsearch/searcher/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev/unknown"

// shutdownGrace is how long in-flight queries get after SIGINT/SIGTERM.
const shutdownGrace = time.Second * 5

var rootCmd = &cobra.Command{
	Use:           "fsearch",
	Short:         "fsearch answers whether a query exists in a reference file as a full line",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveFlags struct {
	configPath string
	port       int
	quiet      bool
	debug      bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the query server in the foreground",
	RunE:  runServe,
}

var searchFlags struct {
	configPath string
	host       string
	port       int
	ssl        bool
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Send one query to a running server and print the answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var genConfigCmd = &cobra.Command{
	Use:   "gen-config <path>",
	Short: "Generate a config template",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := searcher.GenConfig(args[0]); err != nil {
			return fmt.Errorf("failed to generate config template: %w", err)
		}
		fmt.Printf("config template written to %s\n", args[0])
		return nil
	},
}

var certsFlags struct {
	dir string
}

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Generate a self-signed certificate pair",
	RunE: func(_ *cobra.Command, _ []string) error {
		certFile := filepath.Join(certsFlags.dir, "server.crt")
		keyFile := filepath.Join(certsFlags.dir, "server.key")
		created, err := certs.EnsureFiles(certFile, keyFile, certs.DefaultOptions())
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("wrote %s and %s\n", certFile, keyFile)
		} else {
			fmt.Printf("kept existing pair: %s, %s\n", certFile, keyFile)
		}
		return nil
	},
}

var samplesFlags struct {
	dir   string
	size  int
	count int
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Generate sample data files",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := os.MkdirAll(samplesFlags.dir, 0755); err != nil {
			return err
		}
		for i := 0; i < samplesFlags.count; i++ {
			p := filepath.Join(samplesFlags.dir, fmt.Sprintf("sample_%d.txt", i+1))
			if err := bench.WriteSampleFile(p, samplesFlags.size); err != nil {
				return fmt.Errorf("failed to write %s: %w", p, err)
			}
			fmt.Printf("wrote %s (%d MB)\n", p, samplesFlags.size)
		}
		return nil
	},
}

var benchmarkFlags struct {
	report  string
	files   []string
	size    int
	queries int
}

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compare the search algorithms on sample data",
	RunE:  runBenchmark,
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the systemd user service",
}

var serviceInstallFlags struct {
	configPath string
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install and start the systemd user unit",
	RunE: func(_ *cobra.Command, _ []string) error {
		unitPath, err := service.Install(serviceInstallFlags.configPath)
		if err != nil {
			return err
		}
		fmt.Printf("installed and started %s\n", unitPath)
		return nil
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the systemd user unit",
	RunE: func(_ *cobra.Command, _ []string) error {
		return service.Stop()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "config.yaml", "load config from file")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "override the configured port")
	serveCmd.Flags().BoolVar(&serveFlags.quiet, "quiet", false, "error logs only")
	serveCmd.Flags().BoolVar(&serveFlags.debug, "debug", false, "more logs")

	searchCmd.Flags().StringVarP(&searchFlags.configPath, "config", "c", "", "read host, port and ssl from a config file")
	searchCmd.Flags().StringVar(&searchFlags.host, "host", "127.0.0.1", "server host")
	searchCmd.Flags().IntVarP(&searchFlags.port, "port", "p", 8080, "server port")
	searchCmd.Flags().BoolVar(&searchFlags.ssl, "ssl", false, "connect with TLS")

	certsCmd.Flags().StringVarP(&certsFlags.dir, "dir", "d", ".certs", "output directory")

	samplesCmd.Flags().StringVarP(&samplesFlags.dir, "dir", "d", ".samples", "output directory")
	samplesCmd.Flags().IntVarP(&samplesFlags.size, "size", "s", 10, "file size in MB")
	samplesCmd.Flags().IntVarP(&samplesFlags.count, "count", "n", 1, "number of files")

	benchmarkCmd.Flags().StringVarP(&benchmarkFlags.report, "report", "r", "", "also write the table to this path")
	benchmarkCmd.Flags().StringSliceVarP(&benchmarkFlags.files, "sample", "s", nil, "sample files to search (default: a generated one)")
	benchmarkCmd.Flags().IntVar(&benchmarkFlags.size, "size", 10, "size in MB of the generated sample")
	benchmarkCmd.Flags().IntVarP(&benchmarkFlags.queries, "queries", "n", 10, "queries sampled per file")

	serviceInstallCmd.Flags().StringVarP(&serviceInstallFlags.configPath, "config", "c", "config.yaml", "config the unit starts the server with")
	serviceCmd.AddCommand(serviceInstallCmd, serviceStopCmd)

	rootCmd.AddCommand(serveCmd, searchCmd, genConfigCmd, certsCmd, samplesCmd, benchmarkCmd, serviceCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	conf, err := searcher.LoadConfig(serveFlags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveFlags.port != 0 {
		conf.Port = serveFlags.port
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logrus.New()
	switch {
	case serveFlags.quiet:
		logger.SetLevel(logrus.ErrorLevel)
	case serveFlags.debug:
		logger.SetLevel(logrus.DebugLevel)
	default:
		level, err := logrus.ParseLevel(conf.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
		logger.SetLevel(level)
	}
	entry := logrus.NewEntry(logger)

	entry.Infof("main: fsearch ver: %s", version)

	se, err := searcher.InitSearcher(conf, entry)
	if err != nil {
		return fmt.Errorf("failed to init searcher: %w", err)
	}
	srv := searcher.NewServer(conf, se, entry)
	if err := srv.Listen(); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-osSignals:
		entry.Infof("main: exiting: signal: %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			entry.Warnf("main: shutdown: %v", err)
		}
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, searcher.ErrServerClosed) {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	}
}

func runSearch(_ *cobra.Command, args []string) error {
	host, port, ssl := searchFlags.host, searchFlags.port, searchFlags.ssl
	if len(searchFlags.configPath) != 0 {
		conf, err := searcher.LoadConfig(searchFlags.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		host, port, ssl = conf.Host, conf.Port, conf.SSL
		// the server's bind-all address is not dialable
		if host == "0.0.0.0" || host == "::" {
			host = "127.0.0.1"
		}
	}

	c := client.New(net.JoinHostPort(host, strconv.Itoa(port)), ssl)
	res, err := c.Search(args[0])
	if err != nil {
		return err
	}
	fmt.Println(res.Raw)
	return nil
}

func runBenchmark(_ *cobra.Command, _ []string) error {
	files := benchmarkFlags.files
	if len(files) == 0 {
		p := filepath.Join(os.TempDir(), "fsearch_bench_sample.txt")
		fmt.Printf("generating %d MB sample at %s\n", benchmarkFlags.size, p)
		if err := bench.WriteSampleFile(p, benchmarkFlags.size); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
		defer os.Remove(p)
		files = []string{p}
	}

	rows, err := bench.Run(bench.Options{Files: files, Queries: benchmarkFlags.queries})
	if err != nil {
		return err
	}
	fmt.Print(bench.Report(rows))
	if len(benchmarkFlags.report) != 0 {
		if err := bench.WriteReport(benchmarkFlags.report, rows); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", benchmarkFlags.report)
	}
	return nil
}
