package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/signadot/patchwork"
	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/parse"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Source == "" || cfg.Directives == "" {
		return fmt.Errorf("%w: patch requires -s <source> and -d <directives>", cli.ErrUsage)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: patch takes at most one target file", cli.ErrUsage)
	}
	source, err := parse.File(cfg.Source)
	if err != nil {
		return fmt.Errorf("error decoding source %s: %w", cfg.Source, err)
	}
	directives, err := parse.File(cfg.Directives)
	if err != nil {
		return fmt.Errorf("error decoding directives %s: %w", cfg.Directives, err)
	}
	ds, err := patchwork.DirectivesFromIR(directives)
	if err != nil {
		return fmt.Errorf("error in %s: %w", cfg.Directives, err)
	}
	target := ir.EmptyObject()
	if len(args) == 1 {
		target, err = parse.File(args[0])
		if err != nil {
			return fmt.Errorf("error decoding target %s: %w", args[0], err)
		}
	}
	var before string
	if cfg.Diff {
		before, err = plain(cfg.MainConfig, target)
		if err != nil {
			return err
		}
	}

	log := &patchwork.Log{}
	p := patchwork.New(patchwork.WithRegistry(registry()))
	_, err = p.Patch(target, source, ds, patchwork.PatchLog(log))
	if cfg.Log {
		if lErr := writeLog(os.Stderr, log, cfg.colors(os.Stderr)); lErr != nil {
			return lErr
		}
	}
	if err != nil {
		return fmt.Errorf("error patching: %w", err)
	}

	if cfg.Diff {
		after, err := plain(cfg.MainConfig, target)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cc.Out, lineDiff(before, after, cfg.colors(cc.Out) != nil))
		return err
	}
	if err := encode.Encode(target, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// plain encodes node in the output format without colors.
func plain(cfg *MainConfig, node *ir.Node) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(node, buf, encode.EncodeFormat(cfg.format())); err != nil {
		return "", fmt.Errorf("error encoding: %w", err)
	}
	return buf.String(), nil
}

func writeLog(w io.Writer, log *patchwork.Log, colors *encode.Colors) error {
	if colors == nil {
		colors = &encode.Colors{Default: fmt.Sprintf}
	}
	for _, e := range log.Entries() {
		from := "-"
		if e.From != nil {
			from = e.From.String()
		}
		v := "<missing>"
		if e.Value != nil {
			s, err := encode.JSON(e.Value)
			if err != nil {
				return err
			}
			v = s
		}
		_, err := fmt.Fprintf(w, "%s %s %s %s\n",
			colors.Sprintf(ir.ObjectType, encode.FieldColor, "%s", e.To),
			colors.Sprintf(ir.ObjectType, encode.SepColor, "<-"),
			colors.Sprintf(ir.ObjectType, encode.FieldColor, "%s", from),
			v)
		if err != nil {
			return err
		}
	}
	return nil
}
