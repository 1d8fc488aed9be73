package cli

import (
	"github.com/spf13/cobra"

	"github.com/ngxkit/ngxpreview/internal/previewserver"
)

type serveOptions struct {
	settingsPath string
	confPath     string
	baseDir      string
	listenHost   string
	port         int
	watch        bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve requests routed through an nginx-style config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return previewserver.Run(previewserver.Options{
				SettingsPath: opts.settingsPath,
				ConfPath:     opts.confPath,
				BaseDir:      opts.baseDir,
				ListenHost:   opts.listenHost,
				Port:         opts.port,
				Watch:        opts.watch,
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.settingsPath, "settings", "s", "", "settings yaml path")
	fs.StringVarP(&opts.confPath, "conf", "c", "", "nginx-style config file to preview")
	fs.StringVar(&opts.baseDir, "base-dir", "", "base directory for relative roots (default: conf file's directory)")
	fs.StringVar(&opts.listenHost, "listen-host", "", "bind host (default 127.0.0.1)")
	fs.IntVarP(&opts.port, "port", "p", 0, "listen port override (0 = use config-derived port)")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "restart when the config file changes")
	return cmd
}
