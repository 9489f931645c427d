// Package cli provides the command-line interface for the API explorer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/GabrielNunesIT/api-explorer/internal/adapters/converters"
	"github.com/GabrielNunesIT/api-explorer/internal/adapters/fetcher"
	"github.com/GabrielNunesIT/api-explorer/internal/config"
	"github.com/GabrielNunesIT/api-explorer/internal/explorer"
	"github.com/GabrielNunesIT/api-explorer/internal/server"
	"github.com/GabrielNunesIT/api-explorer/internal/view"
	"github.com/GabrielNunesIT/api-explorer/internal/wiki"
	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/spf13/cobra"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log     logger.ILogger
	rootCmd *cobra.Command
	out     io.Writer
	cfg     *config.Config

	configFile string
	source     string
	listenAddr string
	allowMount bool
	wikiURL    string
	outputFile string
	format     string
	expandAll  bool
	expand     []string
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
		out: os.Stdout,
	}

	cli.rootCmd = &cobra.Command{
		Use:               "api-explorer",
		Short:             "Browse Swagger and OpenAPI documents",
		Long:              "A tool that fetches a Swagger 2.0 or OpenAPI 3.x document, groups its operations by tag and renders them as a collapsible reference, in the browser, the terminal or an exported document.",
		SilenceUsage:      true,
		PersistentPreRunE: cli.loadConfig,
	}

	cli.setupFlags()

	return cli
}

func (c *CLI) setupFlags() {
	pf := c.rootCmd.PersistentFlags()
	pf.StringVarP(&c.configFile, "config", "c", "", "Path to a configuration file")
	pf.StringVarP(&c.source, "source", "s", "", "URL of the Swagger/OpenAPI document")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive explorer over HTTP",
		RunE:  c.runServe,
	}
	serveCmd.Flags().StringVarP(&c.listenAddr, "listen", "l", "", "Address to listen on (default from config)")
	serveCmd.Flags().StringVar(&c.wikiURL, "wiki", "", "URL of a markdown document served on /wiki")
	serveCmd.Flags().BoolVar(&c.allowMount, "allow-mount", false, "Let clients mount any http(s) source through /mount")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Print the explorer tree to the terminal",
		RunE:  c.runRender,
	}
	c.addDisclosureFlags(renderCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the explorer tree to a document",
		RunE:  c.runExport,
	}
	exportCmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file (required)")
	exportCmd.Flags().StringVarP(&c.format, "format", "f", "pdf", "Output format: pdf, docx, confluence, html, text")
	c.addDisclosureFlags(exportCmd)
	_ = exportCmd.MarkFlagRequired("output")

	wikiCmd := &cobra.Command{
		Use:   "wiki",
		Short: "Render a markdown document to HTML",
		RunE:  c.runWiki,
	}
	wikiCmd.Flags().StringVarP(&c.wikiURL, "url", "u", "", "URL of the markdown document (default from config)")
	wikiCmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file (default stdout)")

	c.rootCmd.AddCommand(serveCmd, renderCmd, exportCmd, wikiCmd)
}

func (c *CLI) addDisclosureFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&c.expandAll, "expand-all", false, "Expand every group and endpoint")
	cmd.Flags().StringSliceVarP(&c.expand, "expand", "e", nil, "Tags of the groups to expand")
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

func (c *CLI) loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.source != "" {
		cfg.Source = c.source
	}
	if c.listenAddr != "" {
		cfg.Server.Listen = c.listenAddr
	}
	if c.allowMount {
		cfg.Server.AllowMount = true
	}
	if c.wikiURL != "" {
		cfg.Wiki.URL = c.wikiURL
	}

	c.cfg = cfg

	return nil
}

func (c *CLI) newFetcher() *fetcher.Client {
	return fetcher.New(
		fetcher.WithUserAgent(c.cfg.Fetch.UserAgent),
		fetcher.WithMaxBodyBytes(c.cfg.Fetch.MaxBodyBytes),
	)
}

func (c *CLI) newExplorer(f explorer.Fetcher) *explorer.Explorer {
	return explorer.New(c.log, f,
		explorer.WithViewOptions(view.Options{UntaggedLabel: c.cfg.View.UntaggedLabel}))
}

// load mounts the configured source and waits for it to settle. A failed
// fetch still returns the explorer so its error state can be rendered.
func (c *CLI) load(ctx context.Context) (*explorer.Explorer, error) {
	if c.cfg.Source == "" {
		return nil, errors.New("no source given: use --source or set source in the configuration")
	}

	exp := c.newExplorer(c.newFetcher())
	exp.Mount(c.cfg.Source)

	if err := exp.Wait(ctx); err != nil {
		return nil, err
	}

	if exp.Phase() == explorer.PhaseFailed {
		return exp, errors.New(exp.Err())
	}

	if c.expandAll {
		exp.ExpandAll()
	}
	for _, tag := range c.expand {
		if !exp.IsGroupExpanded(tag) {
			exp.ToggleGroup(tag)
		}
	}

	return exp, nil
}

func (c *CLI) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := c.newFetcher()
	exp := c.newExplorer(f)

	var opts []server.Option
	if c.cfg.Server.AllowMount {
		opts = append(opts, server.WithMount())
	}
	if c.cfg.Wiki.URL != "" {
		opts = append(opts, server.WithWiki(wiki.NewPage(c.log, f), c.cfg.Wiki.URL))
	}

	srv, err := server.New(c.log, exp, opts...)
	if err != nil {
		return err
	}

	if c.cfg.Source != "" {
		exp.Mount(c.cfg.Source)
	} else {
		c.log.Infof("No source configured; set source or run with --allow-mount and use /mount?source=<url>")
	}

	return srv.Serve(ctx, c.cfg.Server.Listen)
}

func (c *CLI) runRender(cmd *cobra.Command, _ []string) error {
	exp, err := c.load(cmd.Context())
	if exp == nil {
		return err
	}

	if convErr := converters.NewTextConverter().Convert(exp.Snapshot(), c.out); convErr != nil {
		return fmt.Errorf("render failed: %w", convErr)
	}

	return err
}

func (c *CLI) runExport(cmd *cobra.Command, _ []string) error {
	converter, err := converters.New(c.format)
	if err != nil {
		return err
	}

	exp, err := c.load(cmd.Context())
	if err != nil {
		return err
	}

	c.log.Infof("Converting to %s format...", converter.Format())

	outputFile, err := os.Create(c.outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	if err := converter.Convert(exp.Snapshot(), outputFile); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	c.log.Infof("Successfully created: %s", c.outputFile)

	return nil
}

func (c *CLI) runWiki(cmd *cobra.Command, _ []string) error {
	if c.cfg.Wiki.URL == "" {
		return errors.New("no wiki given: use --url or set wiki.url in the configuration")
	}

	page := wiki.NewPage(c.log, c.newFetcher())
	page.Mount(c.cfg.Wiki.URL)

	if err := page.Wait(cmd.Context()); err != nil {
		return err
	}

	state := page.State()
	if state.Status == view.StatusError {
		return errors.New(state.Message)
	}

	out := c.out
	if c.outputFile != "" {
		f, err := os.Create(c.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		out = f
	}

	return wiki.Write(out, state)
}
