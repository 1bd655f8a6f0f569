package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/peerpath/internal/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "peerpath",
		Short:         "Peer-based course recommendations from alumni outcomes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $PEERPATH_CONFIG_PATH or ./config/config.yaml)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newRecommendCmd(opts))
	return root
}

func (o *rootOptions) load(extra ...config.Option) (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath, extra...)
	}
	return config.Load(extra...)
}
