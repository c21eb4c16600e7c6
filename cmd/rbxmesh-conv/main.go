// The rbxmesh-conv command converts mesh, mesh-data and physics-data files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	rbxerrors "github.com/robloxapi/rbxmesh/errors"
	"github.com/robloxapi/rbxmesh/export"
	"github.com/robloxapi/rbxmesh/internal/asset"
	"github.com/robloxapi/rbxmesh/internal/config"
	"github.com/robloxapi/rbxmesh/internal/logger"
	"github.com/robloxapi/rbxmesh/mesh"
	"github.com/robloxapi/rbxmesh/meshdata"
	"go.uber.org/zap"
)

const usage = `usage: rbxmesh-conv [FLAGS] [INPUT] [OUTPUT]

Reads a mesh, mesh-data, or physics-data file from INPUT, and writes to OUTPUT
the file converted according to MODE:

	export       the geometry of the file as OBJ or binary glTF
	deobfuscate  a mesh-data file with its obfuscation removed
	encode       the file decoded and encoded again

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

FLAGS:
`

// Options configures a conversion.
type Options struct {
	Mode   string
	Name   string
	Config *config.Config
	Loader asset.Loader
}

func convert(w io.Writer, input []byte, opts Options) error {
	switch opts.Mode {
	case "deobfuscate":
		b := append([]byte(nil), input...)
		if _, err := meshdata.Deobfuscate(b); err != nil {
			return errors.Wrap(err, "deobfuscate")
		}
		_, err := w.Write(b)
		return err

	case "encode":
		a, err := opts.Loader.Load(bytes.NewReader(input))
		if err != nil {
			return errors.Wrap(err, "decode")
		}
		return errors.Wrap(a.Encode(w, opts.Config.Decode.Raw), "encode")

	case "export":
		color, err := opts.Config.Decode.Color()
		if err != nil {
			return err
		}
		loader := opts.Loader
		loader.Color = &color
		a, err := loader.Load(bytes.NewReader(input))
		if err != nil {
			return errors.Wrap(err, "decode")
		}
		v, err := a.View()
		if err != nil {
			return errors.Wrapf(err, "%s %s", a.Family, a.Revision())
		}
		switch opts.Config.Export.Format {
		case "gltf":
			gopts := export.GLTFOptions{Name: opts.Name}
			if m, ok := a.Value.(mesh.Mesh); ok && opts.Config.Export.Skeleton {
				gopts.Joints = export.Skeleton(m)
			}
			return export.WriteGLTF(w, v, gopts)
		default:
			return export.WriteOBJ(w, v, opts.Name)
		}
	}
	return errors.Errorf("unknown mode %q", opts.Mode)
}

func run(args []string, cfg *config.Config, opts Options, log *zap.Logger) error {
	var input []byte
	var err error
	if len(args) >= 1 && args[0] != "-" {
		input, err = os.ReadFile(args[0])
		if opts.Name == "" {
			opts.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	var output io.Writer = os.Stdout
	var out *os.File
	if len(args) >= 2 && args[1] != "-" {
		if out, err = os.Create(args[1]); err != nil {
			return errors.Wrap(err, "create output")
		}
		output = out
	}

	log.Debug("converting",
		zap.String("mode", opts.Mode),
		zap.String("format", cfg.Export.Format),
		zap.Int("size", len(input)),
	)
	err = convert(output, input, opts)
	if out != nil {
		err = rbxerrors.Union(err,
			errors.Wrap(out.Sync(), "sync output"),
			errors.Wrap(out.Close(), "close output"),
		)
	}
	return err
}

func main() {
	var flags config.Flags
	flags.Register(flag.CommandLine)
	flags.RegisterFormat(flag.CommandLine)
	mode := flag.String("mode", "export", "conversion mode (export, deobfuscate, encode)")
	family := flag.String("family", "", "decode input as the given family (mesh, meshdata, physicsdata)")
	name := flag.String("name", "", "name of the exported object; defaults to the input file name")
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

	opts := Options{
		Mode:   *mode,
		Name:   *name,
		Config: cfg,
		Loader: asset.Loader{Raw: cfg.Decode.Raw, Logger: log},
	}
	if opts.Loader.Family, err = asset.ParseFamily(*family); err == nil {
		err = run(flag.Args(), cfg, opts, log)
	}
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}
