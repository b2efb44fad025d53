package main

import (
	gocontext "context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/erasetools/ataerase/pkg/erase"
	"github.com/erasetools/ataerase/pkg/preflight"
)

// context is the context struct required by kong command line parser
type context struct {
	ctrl *erase.Controller
	log  zerolog.Logger
}

type eraseCmd struct {
	Device string `arg:"" required:"" help:"Path to the block device (e.g. /dev/sda)"`
	Force  bool   `flag:"" short:"f" help:"Skip the interactive confirmation"`
}

type listCmd struct {
	Output   string `flag:"" default:"table" enum:"table,json,openmetrics" help:"Output format; one of [table, json, openmetrics]"`
	NoHeader bool   `flag:"" help:"Suppress the header in table format output"`
}

type reportCmd struct {
	Device string `arg:"" required:"" help:"Path to the block device (e.g. /dev/sda)"`
	Debug  bool   `flag:"" help:"Dump the parsed report struct"`
}

var cli struct {
	Erase    eraseCmd  `cmd:"" help:"Erase a drive with SECURITY ERASE UNIT"`
	List     listCmd   `cmd:"" help:"List drives that support SECURITY ERASE UNIT"`
	Report   reportCmd `cmd:"" help:"Show the parsed security report for a drive"`
	LogLevel string    `flag:"" default:"info" help:"Log level (debug, info, warn, error)"`
}

// runPreflight reports every unmet host condition before any security
// command is attempted.
func runPreflight(ctx *context) error {
	res := preflight.Run()
	if res.OK() {
		return nil
	}
	for _, c := range res.Failures() {
		ctx.log.Error().Str("check", c.Name).Msg(c.Detail)
	}
	return fmt.Errorf("%s: host environment is unusable", erase.PreflightFailed)
}

// Run executes when the erase command is invoked
func (e *eraseCmd) Run(ctx *context) error {
	if err := runPreflight(ctx); err != nil {
		return err
	}
	if !erase.IsBlockDevice(e.Device) {
		return fmt.Errorf("%s: %s: %s", erase.DeviceNotFound, e.Device, erase.DeviceNotFound.Remedy())
	}
	interactive := !e.Force
	if interactive && !term.IsTerminal(int(os.Stdin.Fd())) {
		ctx.log.Warn().Msg("stdin is not a terminal; reading confirmation from pipe")
	}

	outcome, err := ctx.ctrl.Erase(gocontext.Background(), e.Device, interactive)
	switch outcome {
	case erase.Success:
		fmt.Printf("SECURITY ERASE UNIT completed on %s\n", e.Device)
		return nil
	case erase.Cancelled:
		fmt.Println("Erase cancelled.")
		return nil
	}
	if r := outcome.Remedy(); r != "" {
		ctx.log.Warn().Msg(r)
	}
	if err != nil {
		return fmt.Errorf("erase %s: %s: %v", e.Device, outcome, err)
	}
	return fmt.Errorf("erase %s: %s", e.Device, outcome)
}

func (l *listCmd) Run(ctx *context) error {
	if err := runPreflight(ctx); err != nil {
		return err
	}
	devs, err := ctx.ctrl.ListEligible(gocontext.Background())
	if err != nil {
		return err
	}
	switch l.Output {
	case "json":
		return outputJSON(devs)
	case "openmetrics":
		return outputMetrics(devs)
	default:
		return outputTable(devs, l.NoHeader)
	}
}

func (r *reportCmd) Run(ctx *context) error {
	if err := runPreflight(ctx); err != nil {
		return err
	}
	if !erase.IsBlockDevice(r.Device) {
		return fmt.Errorf("%s: %s: %s", erase.DeviceNotFound, r.Device, erase.DeviceNotFound.Remedy())
	}
	sec, err := ctx.ctrl.QueryReport(gocontext.Background(), r.Device)
	if err != nil {
		return err
	}
	if r.Debug {
		spew.Dump(sec)
		return nil
	}
	fmt.Printf("Device:           %s\n", r.Device)
	fmt.Printf("Erase supported:  %t\n", sec.Supported)
	fmt.Printf("Frozen:           %t\n", sec.Frozen)
	fmt.Printf("Password enabled: %t\n", sec.PasswordEnabled)
	if sec.EraseEstimate != "" {
		fmt.Printf("Erase estimate:   %s\n", sec.EraseEstimate)
	}
	return nil
}

func outputJSON(devs []erase.Device) error {
	b, err := json.MarshalIndent(devs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal device list: %v", err)
	}
	os.Stdout.Write(b)
	fmt.Println()
	return nil
}

func outputTable(devs []erase.Device, noHeader bool) error {
	if len(devs) == 0 {
		fmt.Println("No drives with SECURITY ERASE UNIT support found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if !noHeader {
		fmt.Fprintf(w, "DEVICE\tMODEL\n")
	}
	for _, d := range devs {
		fmt.Fprintf(w, "%s\t%s\n", d.Path, d.Model)
	}
	return w.Flush()
}
