package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/priyakud/zeplens/pkg/config"
	"github.com/priyakud/zeplens/pkg/plan"
	"github.com/priyakud/zeplens/pkg/report"
	"github.com/priyakud/zeplens/pkg/server"
	"github.com/priyakud/zeplens/pkg/service"
	"github.com/priyakud/zeplens/pkg/store"
	"github.com/priyakud/zeplens/pkg/summary"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "zeplens",
	Short: "Scan saved Zepto order-history pages into a local spend dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: true,
		Prefix:          "zeplens",
		Level:           level,
	})
}

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <snapshot-or-url>...",
	Short: "Extract orders from saved order-history pages and merge them into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		sources := args
		if planPath, _ := cmd.Flags().GetString("plan"); planPath != "" {
			p, err := plan.Load(planPath)
			if err != nil {
				return err
			}
			p.Print()
			for _, src := range p.Sources {
				sources = append(sources, src.Location())
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no sources given: pass snapshot paths or --plan")
		}

		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()

		processor := service.NewProcessor(cfg, logger, st)
		for _, source := range sources {
			result, err := processor.ScanSource(cmd.Context(), source)
			if err != nil {
				logger.Warn("scan failed", "source", source, "error", err)
				continue
			}
			if debug {
				pp.Println(result.Orders)
			}
			if len(result.Orders) == 0 {
				fmt.Printf("No orders found in %s.\nTip: scroll the order history further down before saving the page.\n", source)
				continue
			}
			fmt.Printf("%s: %d found, %d added, %d duplicates\n",
				source, len(result.Orders), result.Added, result.Duplicates)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the spend dashboard for the recorded orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()

		processor := service.NewProcessor(cfg, logger, st)
		orders, err := processor.Ledger().Orders(cmd.Context())
		if err != nil {
			return err
		}

		opts := summary.Options{TopProducts: cfg.TopProducts, TopOrders: cfg.TopOrders}
		report.Render(os.Stdout, summary.Build(orders, opts))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all recorded orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Print("Clear all data? [y/N] ")
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()

		processor := service.NewProcessor(cfg, logger, st)
		if err := processor.Ledger().Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cleared.")
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the spend dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		var st store.Store
		if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
			st = store.NewMemory()
		} else {
			st, err = store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
		}
		defer st.Close()

		processor := service.NewProcessor(cfg, logger, st)
		return server.New(cfg, logger, processor).Start(cfg.ListenAddr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug logging plus a dump of extracted orders")
	rootCmd.PersistentFlags().String("store", "", "Path to the order store database")

	scanCmd.Flags().String("plan", "", "YAML file listing snapshot sources to scan")
	scanCmd.Flags().String("domain", "", "Substring a scan source must contain")

	reportCmd.Flags().Int("top-products", 0, "Entries in the product ranking")
	reportCmd.Flags().Int("top-orders", 0, "Entries in the largest-orders list")

	clearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	serveCmd.Flags().String("listen", "", "Listen address")
	serveCmd.Flags().Bool("ephemeral", false, "Keep orders in memory instead of the database")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
