package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/erasetools/ataerase/pkg/erase"
	"github.com/erasetools/ataerase/pkg/hdparm"
	"github.com/erasetools/ataerase/pkg/logger"
	"github.com/erasetools/ataerase/pkg/report"
)

const (
	programName = "ataerase"
	programDesc = "ATA SECURITY ERASE UNIT control"
)

func main() {
	// Parse kong flags and sub-commands
	kctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	log := logger.New(cli.LogLevel)
	ctrl := erase.NewController(hdparm.CLI{}, report.IdentifyParser{}, erase.SysfsEnumerator{}, log)
	ctrl.SetPrompt(os.Stdin, os.Stdout)

	// Run the command
	err := kctx.Run(&context{ctrl: ctrl, log: log})
	kctx.FatalIfErrorf(err)
}
