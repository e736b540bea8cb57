package main

import (
	"flag"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/buildstate/buildstate/common/log/hooks"
	"github.com/buildstate/buildstate/common/stats"
	"github.com/buildstate/buildstate/fs"
	"github.com/buildstate/buildstate/fs/hash"
	"github.com/buildstate/buildstate/snapshot/cli"
	"github.com/buildstate/buildstate/snapshot/mirror"
	"github.com/buildstate/buildstate/snapshot/snapshotter"
)

func main() {
	log.AddHook(hooks.NewContextHook())

	logLevelFlag := flag.String("log_level", "info", "Log everything at this level and above (error|info|debug)")
	flag.Parse()

	level, err := log.ParseLevel(*logLevelFlag)
	if err != nil {
		log.Error(err)
		return
	}
	log.SetLevel(level)

	cmd := cli.MakeCLI(&injector{})
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

type injector struct{}

func (i *injector) RegisterFlags(rootCmd *cobra.Command) {}

func (i *injector) Inject() (*snapshotter.Snapshotter, error) {
	stat := stats.NewStatsReceiver()
	disk := fs.Disk()
	return snapshotter.New(disk, hash.NewXXH3Hasher(disk), mirror.New(stat), stat), nil
}
