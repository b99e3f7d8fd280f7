// Command p1p2ctl is a demo front-end for the P1/P2 auxiliary-controller
// core. It plays the role of the bus driver and smart-home bridge that
// spec.md places out of scope: it only frames bytes off a real serial
// adapter and hands complete packets to the core, or prints/replays
// packets given on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	modelName string
	logLevel  string
	log       = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "p1p2ctl",
	Short: "Inspect and drive a Daikin P1/P2 auxiliary-controller core",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		log.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "BCL", "HVAC model family: BCL, P, or M")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logrus level: trace, debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("p1p2ctl failed")
		os.Exit(1)
	}
}
