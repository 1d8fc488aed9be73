package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngxkit/ngxpreview/internal/previewserver"
	"github.com/ngxkit/ngxpreview/pkg/routing"
)

type checkOptions struct {
	confPath string
	baseDir  string
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check <conf>",
		Short: "Parse a config and print the derived routing table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.confPath = args[0]
			}
			return runCheck(cmd.OutOrStdout(), opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.confPath, "conf", "c", "", "nginx-style config file to check")
	fs.StringVar(&opts.baseDir, "base-dir", "", "base directory for relative roots (default: conf file's directory)")
	return cmd
}

func runCheck(w io.Writer, opts checkOptions) error {
	confPath := strings.TrimSpace(opts.confPath)
	if confPath == "" {
		return fmt.Errorf("no config file given")
	}
	baseDir := strings.TrimSpace(opts.baseDir)
	if baseDir == "" {
		baseDir = filepath.Dir(confPath)
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	cfg, err := previewserver.LoadRoutingConfig(confPath, baseDir)
	if err != nil {
		fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("FAIL"), err)
		return err
	}
	if cfg == nil {
		fmt.Fprintf(w, "%s no server configuration found in %q\n", color.New(color.FgYellow, color.Bold).Sprint("EMPTY"), confPath)
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("OK"), confPath)
	fmt.Fprintf(w, "  listen : %d\n", cfg.ListenPort)
	fmt.Fprintf(w, "  root   : %s\n", cfg.DocumentRoot)
	fmt.Fprintf(w, "  index  : %s\n", strings.Join(cfg.IndexFiles, " "))
	fmt.Fprintf(w, "  locations (%d):\n", len(cfg.Locations))
	for i := range cfg.Locations {
		r := &cfg.Locations[i]
		fmt.Fprintf(w, "    location %-24s %s\n", r.Label(), describeRule(r))
	}
	return nil
}

func describeRule(r *routing.LocationRule) string {
	switch {
	case r.ProxyTarget != "":
		return "proxy " + r.ProxyTarget
	case len(r.TryFiles) > 0:
		return "static, try_files " + strings.Join(r.TryFiles, " ")
	case r.RootOverride != "":
		return "static, root " + r.RootOverride
	default:
		return "static"
	}
}
