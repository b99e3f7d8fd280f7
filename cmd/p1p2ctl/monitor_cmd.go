package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/MadAppGang/p1p2aux/bus"
	"github.com/MadAppGang/p1p2aux/p1p2"
)

var (
	portName string
	baudRate int
)

func init() {
	monitorCmd.Flags().StringVar(&portName, "port", "", "serial device to open (e.g. /dev/ttyUSB0)")
	monitorCmd.Flags().IntVar(&baudRate, "baud", 9600, "serial baud rate")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Open a real P1/P2 USB-serial adapter and print decoded state as it changes",
	Long: `monitor plays the part of the bus driver this repository's core does not
implement itself: it reads already-framed F-series packets from a serial
adapter and hands them to the decoder and response engine, printing every
published delta. It does not perform UART bit-inversion or CRC-based
ingress rejection; it assumes the adapter has already done that.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if portName == "" {
		return fmt.Errorf("--port is required")
	}
	model, err := resolveModel(modelName)
	if err != nil {
		return err
	}

	mode := &serial.Mode{BaudRate: baudRate, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return fmt.Errorf("opening serial port %s: %w", portName, err)
	}
	defer port.Close()

	orch := bus.New(model, log)
	orch.StartPublishing()
	defer orch.Stop()

	go printDeltas(orch)

	return readFramedPackets(port, func(pkt p1p2.Packet) {
		reply, ok := orch.HandleInbound(pkt)
		if !ok {
			return
		}
		if _, err := port.Write(reply); err != nil {
			log.WithError(err).Warn("failed to write aux-controller reply")
		}
	})
}

func printDeltas(orch *bus.Orchestrator) {
	for state := range orch.Deltas() {
		log.WithFields(map[string]interface{}{
			"power":   state.Power,
			"mode":    state.Mode.String(),
			"running": state.Running.String(),
			"changed": uint32(state.Changed),
		}).Info("published delta")
	}
}

// readFramedPackets reads bytes from r and hands each completed Read as one
// packet to onPacket. Real P1/P2 framing — recognising packet boundaries
// from inter-byte timing on an inverted UART line — is the bus driver's
// job, explicitly out of scope per spec.md §1/§6; this assumes the serial
// adapter already delivers one packet per read, which holds for the
// common USB-to-P1P2 adapters this command targets.
func readFramedPackets(r interface {
	Read(p []byte) (int, error)
}, onPacket func(p1p2.Packet)) error {
	chunk := make([]byte, p1p2.MaxPacketLen)
	for {
		n, err := r.Read(chunk)
		if err != nil {
			return err
		}
		if n > 0 {
			onPacket(p1p2.NewPacket(chunk[:n], false))
		}
	}
}
