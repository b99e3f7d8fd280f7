package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MadAppGang/p1p2aux/control"
)

func init() {
	rootCmd.AddCommand(respondCmd)
}

var respondCmd = &cobra.Command{
	Use:   "respond <hex-request>",
	Short: "Build the aux-controller reply for a single F-series control request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRespond,
}

func runRespond(cmd *cobra.Command, args []string) error {
	model, err := resolveModel(modelName)
	if err != nil {
		return err
	}
	req, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
	if err != nil {
		return fmt.Errorf("parsing request: %w", err)
	}

	engine := control.NewEngine(model)
	resp, ok := engine.Respond(req)
	if !ok {
		fmt.Println("no reply (unrecognised type or model mismatch)")
		return nil
	}
	fmt.Printf("% X\n", resp)
	return nil
}
