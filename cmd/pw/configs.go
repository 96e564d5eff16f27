package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/patchwork/encode"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	WireOut bool `cli:"name=wire desc='output json in compact format'"`

	J bool `cli:"name=j aliases=json desc='output json'"`
	Y bool `cli:"name=y aliases=yaml desc='output yaml'"`

	OutFormat *encode.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **encode.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := encode.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) format() encode.Format {
	var f encode.Format
	switch {
	case cfg.Y:
		f = encode.YAMLFormat
	case cfg.J:
		f = encode.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

// encOpts returns the options for encoding to w. Colors are used when
// asked for, or when -color is not given and w is a terminal.
func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format()),
		encode.EncodeCompact(cfg.WireOut),
	}
	if c := cfg.colors(w); c != nil {
		res = append(res, encode.EncodeColors(c))
	}
	return res
}

func (cfg *MainConfig) colors(w io.Writer) *encode.Colors {
	if cfg.Color {
		return encode.NewColors()
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return nil
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return encode.NewColors()
	}
	return nil
}

type PatchConfig struct {
	*MainConfig
	Source     string `cli:"name=s aliases=source desc='source document file'"`
	Directives string `cli:"name=d aliases=directives desc='directive list file'"`
	Log        bool   `cli:"name=log desc='print the patch log to stderr'"`
	Diff       bool   `cli:"name=diff desc='print a line diff of the target instead of the result'"`

	Patch *cli.Command
}

type ExpandConfig struct {
	*MainConfig
	Strict bool `cli:"name=strict desc='only list paths which exist'"`

	Expand *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type OpsConfig struct {
	*MainConfig

	Ops *cli.Command
}
