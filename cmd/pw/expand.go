package main

import (
	"fmt"

	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/ir"
	"github.com/signadot/patchwork/ir/spath"
	"github.com/signadot/patchwork/parse"

	"github.com/scott-cotton/cli"
)

func expand(cfg *ExpandConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Expand.Parse(cc, args)
	if err != nil {
		cfg.Expand.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: expand requires a path and at most one file", cli.ErrUsage)
	}
	file := "-"
	if len(args) == 2 {
		file = args[1]
	}
	doc, err := parse.File(file)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	paths := spath.ExpandString(doc, args[0], cfg.Strict)
	res := make([]*ir.Node, len(paths))
	for i, p := range paths {
		res[i] = ir.FromString(p)
	}
	if err := encode.Encode(ir.FromSlice(res), cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
