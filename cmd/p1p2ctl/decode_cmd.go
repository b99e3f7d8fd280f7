package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MadAppGang/p1p2aux/p1p2"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex-bytes>...",
	Short: "Decode one or more F-series packets and print the resulting HVAC state",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	var state p1p2.State
	for _, arg := range args {
		raw, err := hex.DecodeString(strings.ReplaceAll(arg, " ", ""))
		if err != nil {
			return fmt.Errorf("parsing packet %q: %w", arg, err)
		}
		pkt := p1p2.NewPacket(raw, false)
		p1p2.Decode(pkt, &state)
		log.WithFields(pkt.LogFields()).Info("decoded packet")
	}

	fmt.Printf("power=%v mode=%s running=%s\n", state.Power, state.Mode, state.Running)
	fmt.Printf("cool_setpoint=%.1fC heat_setpoint=%.1fC fan_cool=%s fan_heat=%s\n",
		float64(state.TargetTempCool)/10, float64(state.TargetTempHeat)/10,
		state.FanModeCool, state.FanModeHeat)
	fmt.Printf("room_temp=%.1fC outdoor_temp=%.1fC\n",
		float64(state.RoomTemp)/10, float64(state.OutdoorTemp)/10)
	fmt.Printf("dhw_active=%v dhw_target=%.1fC dhw_temp=%.1fC\n",
		state.DHWActive, float64(state.DHWTarget)/10, float64(state.DHWTemp)/10)
	fmt.Printf("packet_count=%d changed=0x%04X data_valid=%v\n",
		state.PacketCount, uint32(state.Changed), state.DataValid)
	return nil
}
