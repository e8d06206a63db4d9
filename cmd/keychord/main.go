// Package main is the entry point for the keychord CLI
package main

import (
	"fmt"
	"os"

	"github.com/keychord/keychord/pkg/api"
	"github.com/keychord/keychord/pkg/piano"
	"github.com/keychord/keychord/pkg/synth"
	"github.com/keychord/keychord/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	portName   string
	silentMode bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keychord",
	Short: "Record and play back piano performances as MIDI",
	Long: `keychord is a terminal piano that captures note and chord timing
into named recordings and plays them back or exports them as
standard MIDI files.

Examples:
  keychord tui
  keychord tui --port "FluidSynth virtual port"
  keychord tui --silent
  keychord ports
  keychord serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal piano",
	RunE:  runTUI,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI output ports",
	RunE:  runPorts,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	tuiCmd.Flags().StringVarP(&portName, "port", "p", "", "MIDI output port name (default: first available)")
	tuiCmd.Flags().BoolVar(&silentMode, "silent", false, "Run without MIDI output")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(serveCmd)
}

func openSynth() (synth.Synth, error) {
	if silentMode {
		return synth.Silent{}, nil
	}
	out, err := synth.Open(portName)
	if err != nil {
		// No output device is not fatal, capture still works.
		fmt.Fprintf(os.Stderr, "no MIDI output (%v), running silent\n", err)
		return synth.Silent{}, nil
	}
	return out, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	out, err := openSynth()
	if err != nil {
		return err
	}
	defer synth.Close()

	return tui.Run(piano.New(out))
}

func runPorts(cmd *cobra.Command, args []string) error {
	defer synth.Close()

	ports := synth.OutPorts()
	if len(ports) == 0 {
		fmt.Println("No MIDI output ports found.")
		return nil
	}
	for i, name := range ports {
		fmt.Printf("%d: %s\n", i, name)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, piano.New(synth.Silent{}))
}
