package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/braunma/netmap/pkg/client"
	"github.com/braunma/netmap/pkg/layoutdoc"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/render"
	"github.com/braunma/netmap/pkg/server"
	"github.com/braunma/netmap/pkg/topology"
)

var (
	verbose      bool
	envFile      string
	settingsFile string
	dataDir      string
	storeBackend string
	treeFile     string
	inventoryDir string
	healthFile   string

	outFile   string
	asJSON    bool
	fitScene  bool
	selectID  string
	listenOn  string
	noFit     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "netmap",
		Short:        "Network topology map",
		Long:         `Lays out a device tree as a left-to-right column map, keeps hand-placed positions, and renders it`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	pf.StringVar(&envFile, "config", ".env", "Environment file path")
	pf.StringVar(&settingsFile, "settings", "", "Settings file (TOML, default $XDG_CONFIG_HOME/netmap/config.toml)")
	pf.StringVar(&dataDir, "data-dir", ".", "Base directory for relative tree, inventory and health paths")
	pf.StringVar(&storeBackend, "store", "", "Position store backend override (memory, file, redis)")
	pf.StringVar(&treeFile, "tree", "", "Device tree file (JSON scan result, YAML, or layout document)")
	pf.StringVar(&inventoryDir, "inventory", "", "Folder of YAML device lists")
	pf.StringVar(&healthFile, "health", "", "Health metrics file")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the map as SVG (or scene JSON)",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default stdout)")
	renderCmd.Flags().BoolVar(&asJSON, "json", false, "Write the scene as JSON instead of SVG")
	renderCmd.Flags().BoolVar(&fitScene, "fit", false, "Fit the camera to all nodes before rendering")
	renderCmd.Flags().StringVar(&selectID, "select", "", "Node to draw as selected")

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Print computed depths, ranks and positions",
		RunE:  runLayout,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tree with positions as a layout document",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <layout.json>",
		Short: "Restore positions from a layout document and save them",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	clearCmd := &cobra.Command{
		Use:   "clear-layout",
		Short: "Forget every stored position",
		RunE:  runClear,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenOn, "listen", "", "Listen address (overrides settings)")
	serveCmd.Flags().BoolVar(&noFit, "no-fit", false, "Do not fit the camera on start")

	rootCmd.AddCommand(renderCmd, layoutCmd, exportCmd, importCmd, clearCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if selectID != "" {
		if err := a.view.Select(selectID); err != nil {
			a.logger.Error("Failed to select node", err)
			return err
		}
	}
	if fitScene {
		a.view.FitToView()
		a.view.SetTransform(a.view.TargetTransform())
	}

	return writeOutput(cmd.OutOrStdout(), outFile, func(w io.Writer) error {
		scene := a.view.Scene()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(scene)
		}
		return render.WriteSVG(w, scene)
	})
}

func runLayout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	res := a.view.Layout()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROLE\tDEPTH\tRANK\tX\tY\tPARENT")
	for _, n := range res.Nodes {
		parent := n.ParentID
		if n.Fallback != topology.FallbackNone {
			parent = fmt.Sprintf("%s (%s)", parent, n.Fallback)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f\t%.1f\t%s\n", n.ID, n.Role, n.Depth, n.Rank, n.X, n.Y, parent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	a.logger.Info("%d nodes, %d links, max depth %d", len(res.Nodes), len(res.Links), res.Index.MaxDepth())
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	doc := a.view.Export()
	if outFile != "" {
		if err := layoutdoc.SaveFile(outFile, doc); err != nil {
			a.logger.Error("Failed to export layout", err)
			return err
		}
		a.logger.Success("Exported %d devices to %s", len(doc.Root.Devices()), outFile)
		return nil
	}

	data, err := layoutdoc.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	doc, err := layoutdoc.LoadFile(args[0])
	if err != nil {
		a.logger.Error("Failed to read layout document", err)
		return err
	}

	result, err := a.view.Import(doc)
	if err != nil {
		a.logger.Error("Failed to import layout", err)
		return err
	}
	if err := a.view.Save(cmd.Context()); err != nil {
		a.logger.Error("Failed to save positions", err)
		return err
	}

	if len(result.Stale) > 0 {
		a.logger.Warning("%d saved positions have no matching device", len(result.Stale))
	}
	a.logger.Success("Restored %d positions, %d devices left to the grid", result.Applied, result.Unplaced)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.view.ClearLayout(cmd.Context()); err != nil {
		a.logger.Error("Failed to clear layout", err)
		return err
	}
	a.logger.Success("Cleared stored positions")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	addr := a.cfg.Server.Listen
	if listenOn != "" {
		addr = listenOn
	}
	if !noFit {
		a.view.FitToView()
	}

	srv := server.New(a.view, server.Options{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		AutoSave:       a.cfg.Server.AutoSave,
	}, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.source != nil {
		poller := client.NewPoller(a.source, client.NewHealthCache(), a.cfg.HealthInterval(), func(metrics []models.HealthMetric) {
			a.view.SetHealth(metrics)
		}, a.logger)
		g.Go(func() error {
			if err := poller.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		a.logger.Info("Polling health every %s", a.cfg.HealthInterval())
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("Server stopped", err)
		return err
	}

	if err := a.view.Save(context.Background()); err != nil {
		a.logger.Error("Failed to save positions on shutdown", err)
		return err
	}
	a.logger.Success("Positions saved")
	return nil
}

// writeOutput writes to path, or to stdout when path is empty
func writeOutput(stdout io.Writer, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
