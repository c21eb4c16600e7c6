// The rbxmesh-stat command displays stats for mesh, mesh-data and
// physics-data files.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	pkgerrors "github.com/pkg/errors"
	"github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/internal/asset"
	"github.com/robloxapi/rbxmesh/internal/config"
	"github.com/robloxapi/rbxmesh/internal/logger"
	"go.uber.org/zap"
)

const usage = `usage: rbxmesh-stat [FLAGS] [INPUT...]

Reads each mesh, mesh-data, or physics-data file from INPUT, and writes to
stdout statistics for the file as JSON.

INPUT is a path to a file. If INPUT is "-" or unspecified, then stdin is used.
Warnings and errors are written to stderr.

FLAGS:
`

var dumpConfig = spew.ConfigState{
	Indent:                  "\t",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func stat(loader asset.Loader, name string, dump bool, je *json.Encoder, output io.Writer) error {
	b, err := readInput(name)
	if err != nil {
		return pkgerrors.Wrap(err, "read input")
	}
	a, err := loader.Load(bytes.NewReader(b))
	if err != nil {
		return pkgerrors.Wrapf(err, "decode %s", name)
	}
	stats := Stats{File: name}
	stats.Fill(a)
	if err := je.Encode(stats); err != nil {
		return pkgerrors.Wrap(err, "write stats")
	}
	if dump {
		dumpConfig.Fdump(output, a.Value)
	}
	return nil
}

func main() {
	var flags config.Flags
	flags.Register(flag.CommandLine)
	family := flag.String("family", "", "decode inputs as the given family (mesh, meshdata, physicsdata)")
	dump := flag.Bool("dump", false, "dump the decoded structure after the stats")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(&flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		File:    logger.DefaultFileConfig(cfg.Logging.LogFile),
		Console: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	loader := asset.Loader{Raw: cfg.Decode.Raw, Logger: log}
	if loader.Family, err = asset.ParseFamily(*family); err != nil {
		log.Error("invalid flag", zap.Error(err))
		os.Exit(2)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	je := json.NewEncoder(os.Stdout)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	var errs errors.Errors
	for _, name := range inputs {
		if err := stat(loader, name, *dump, je, os.Stdout); err != nil {
			log.Error("stat failed", zap.String("file", name), zap.Error(err))
			errs = errs.Append(err)
		}
	}
	if err := errs.Return(); err != nil {
		log.Sync()
		os.Exit(1)
	}
}
