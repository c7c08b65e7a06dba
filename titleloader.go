// This file is part of Titleloader.
//
// Titleloader is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Titleloader is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Titleloader.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jetsetilly/titleloader/announce"
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/environment"
	"github.com/jetsetilly/titleloader/kernel"
	"github.com/jetsetilly/titleloader/loader"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/notifications"
	"github.com/jetsetilly/titleloader/pkgfile"
	"github.com/jetsetilly/titleloader/preferences"
	"github.com/jetsetilly/titleloader/region"
	"github.com/jetsetilly/titleloader/smdh"
	"github.com/jetsetilly/titleloader/statsview"
	"github.com/jetsetilly/titleloader/status"
	"github.com/jetsetilly/titleloader/telemetry"
	"github.com/jetsetilly/titleloader/version"
)

// exit values
const (
	exitArgs  = 10
	exitError = 20
)

func main() {
	app := &cli.App{
		Name:    strings.ToLower(version.ApplicationName),
		Usage:   "load development title packages",
		Version: version.String(),

		// exit codes are handled by main()
		ExitErrHandler: func(_ *cli.Context, _ error) {},

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefs",
				Usage: "preferences file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "load a title and start its process",
				ArgsUsage: "PACKAGE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "update-root", Usage: "directory standing in for the SD card"},
					&cli.StringFlag{Name: "region", Usage: "console region: 0-6 or auto"},
					&cli.BoolFlag{Name: "log", Usage: "echo debugging log to stdout"},
					&cli.StringFlag{Name: "memviz", Usage: "write graph of the created process to file"},
					&cli.BoolFlag{Name: "statsview", Usage: "run runtime statistics server"},
				},
				Action: load,
			},
			{
				Name:      "info",
				Usage:     "show information about a title",
				ArgsUsage: "PACKAGE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "update-root", Usage: "directory standing in for the SD card"},
				},
				Action: info,
			},
			{
				Name:      "dump",
				Usage:     "write the asset store of a title to a directory",
				ArgsUsage: "PACKAGE DIR",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "update-root", Usage: "directory standing in for the SD card"},
					&cli.BoolFlag{Name: "update", Usage: "dump asset store of the update package"},
				},
				Action: dump,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("* error: %v\n", err)
		if ec, ok := err.(cli.ExitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		os.Exit(exitError)
	}
}

// parseRegion returns the preference value for the region argument.
func parseRegion(s string) (int, error) {
	if strings.EqualFold(s, "auto") {
		return preferences.RegionAutoSelect, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= smdh.NumRegions {
		return 0, fmt.Errorf("region must be auto or 0 to %d: %q", smdh.NumRegions-1, s)
	}
	return n, nil
}

// the preferences used by all commands. preferences are read from the file
// and then from the environment. command line flags are applied last
func setupPrefs(c *cli.Context) (*preferences.Preferences, error) {
	var p *preferences.Preferences
	var err error

	if pth := c.String("prefs"); pth != "" {
		p, err = preferences.NewPreferencesFromFile(pth)
	} else {
		p, err = preferences.NewPreferences()
	}
	if err != nil {
		return nil, err
	}

	if err := p.ApplyEnvironment(); err != nil {
		return nil, err
	}

	if root := c.String("update-root"); root != "" {
		if err := p.SDMC.Set(root); err != nil {
			return nil, err
		}
	}

	if c.IsSet("region") {
		n, err := parseRegion(c.String("region"))
		if err != nil {
			return nil, cli.Exit(err, exitArgs)
		}
		if err := p.RegionValue.Set(n); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// prints notices as they happen
type printNotify struct {
	output io.Writer
}

func (n printNotify) Notify(notice notifications.Notice) error {
	_, err := fmt.Fprintf(n.output, "* %s\n", notice)
	return err
}

func newLoader(c *cli.Context, notify notifications.Notify, k *kernel.Kernel) (*loader.Loader, error) {
	if c.NArg() < 1 {
		return nil, cli.Exit(fmt.Sprintf("package required for %s command", c.Command.Name), exitArgs)
	}

	p, err := setupPrefs(c)
	if err != nil {
		return nil, err
	}

	env, err := environment.NewEnvironment("main", p, notify)
	if err != nil {
		return nil, err
	}

	return loader.NewLoader(env, c.Args().Get(0), loader.Collaborators{
		Host:           k,
		ResourceLimits: k.Limits,
		FS:             k.FS,
		Archives:       k.Archives,
		Regions:        k.Config,
		Open:           pkgfile.Open,
	})
}

func load(c *cli.Context) error {
	if c.Bool("statsview") {
		stop := statsview.Launch(os.Stdout)
		defer stop()
	}

	k := kernel.NewKernel()

	p, err := setupPrefs(c)
	if err != nil {
		return err
	}

	if c.Bool("log") || p.LogEcho.Get().(bool) {
		z, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = z.Sync() }()
		logger.SetZapEcho(z)
	}

	if c.NArg() < 1 {
		return cli.Exit("package required for load command", exitArgs)
	}

	env, err := environment.NewEnvironment("main", p, printNotify{output: os.Stdout})
	if err != nil {
		return err
	}

	col := loader.Collaborators{
		Host:           k,
		ResourceLimits: k.Limits,
		FS:             k.FS,
		Archives:       k.Archives,
		Regions:        k.Config,
		Open:           pkgfile.Open,
	}

	var session *telemetry.Session
	if p.TelemetryEnabled.Get().(bool) {
		session = telemetry.NewSession(nil)
		col.Telemetry = session
	}

	ann := announce.NewAnnouncer(p.AnnounceServer.Get().(string))
	if ann.Enabled() {
		col.Announcer = ann
	}
	defer ann.Wait()

	ld, err := loader.NewLoader(env, c.Args().Get(0), col)
	if err != nil {
		return err
	}

	proc, err := ld.Load()
	if err != nil {
		if status.Of(err) == status.UnsupportedLegacyTitle {
			return cli.Exit(fmt.Sprintf("%v: title must be converted before it can be loaded", err), exitError)
		}
		return err
	}

	kp, ok := k.Process(proc.ID())
	if !ok {
		return fmt.Errorf("process %d not found", proc.ID())
	}

	cs := kp.CodeSet()

	fmt.Printf("process %d: %s\n", kp.ID(), kp.Status())
	fmt.Printf("  codeset: %s (%s)\n", cs.Name(), humanize.Bytes(uint64(len(cs.Memory))))
	fmt.Printf("  code: %s\n", cs.Code)
	fmt.Printf("  rodata: %s\n", cs.ROData)
	fmt.Printf("  data: %s\n", cs.Data)
	fmt.Printf("  entrypoint: %#08x\n", cs.Entrypoint)
	fmt.Printf("  update applied: %v\n", ld.IsUpdateApplied())
	fmt.Printf("  memory region: %d\n", kp.MemoryRegion())
	fmt.Printf("  preferred regions: %v\n", k.Config.PreferredRegions)

	if session != nil {
		for _, f := range session.Fields() {
			logger.Log(logger.Allow, "telemetry", f)
		}
	}

	if pth := c.String("memviz"); pth != "" {
		f, err := os.Create(pth)
		if err != nil {
			return err
		}
		memviz.Map(f, kp)
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("process graph written to %s\n", pth)
	}

	return nil
}

func info(c *cli.Context) error {
	k := kernel.NewKernel()

	ld, err := newLoader(c, nil, k)
	if err != nil {
		return err
	}

	id, err := ld.ReadProgramID()
	if err != nil {
		return err
	}
	fmt.Printf("program id: %016X\n", id)

	if title, err := ld.ReadTitle(); err == nil {
		fmt.Printf("title: %s\n", title)
	}

	if icon, err := ld.ReadIcon(); err == nil {
		if mask, err := smdh.RegionLockout(icon); err == nil {
			var codes []string
			for _, r := range smdh.Regions(mask) {
				codes = append(codes, region.Code(r).String())
			}
			fmt.Printf("regions: %s\n", strings.Join(codes, ", "))
		}
	}

	sections := []struct {
		name string
		read func() ([]byte, error)
	}{
		{container.SectionIcon, ld.ReadIcon},
		{container.SectionBanner, ld.ReadBanner},
		{container.SectionLogo, ld.ReadLogo},
	}
	for _, s := range sections {
		data, err := s.read()
		if err != nil {
			if !status.IsSuccessOrNotUsed(err) {
				return err
			}
			continue
		}
		fmt.Printf("%s: %s\n", s.name, humanize.Bytes(uint64(len(data))))
	}

	exec, err := ld.IsExecutable()
	if err != nil {
		return err
	}
	fmt.Printf("executable: %v\n", exec)

	if exec {
		code, err := ld.ReadCode()
		if err != nil {
			return err
		}
		fmt.Printf("code: %s\n", humanize.Bytes(uint64(len(code))))

		mode, err := ld.LoadKernelSystemMode()
		if err != nil {
			return err
		}
		fmt.Printf("system mode: %d\n", mode)

		mode, err = ld.LoadNewHardwareMode()
		if err != nil {
			return err
		}
		fmt.Printf("new hardware mode: %d\n", mode)
	}

	st, err := ld.ReadUpdateAssetStore()
	if err == nil {
		fmt.Printf("assets: %s files\n", humanize.Comma(int64(len(st.Files()))))
	} else if !status.IsSuccessOrNotUsed(err) {
		return err
	}

	return nil
}

func dump(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("package and target directory required for dump command", exitArgs)
	}

	k := kernel.NewKernel()

	ld, err := newLoader(c, nil, k)
	if err != nil {
		return err
	}

	target := c.Args().Get(1)

	if c.Bool("update") {
		err = ld.DumpUpdateAssetStore(target)
	} else {
		err = ld.DumpAssetStore(target)
	}
	if err != nil {
		return err
	}

	fmt.Printf("assets written to %s\n", target)

	return nil
}
