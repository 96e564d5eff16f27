package main

import (
	"fmt"

	"github.com/signadot/patchwork"
	"github.com/signadot/patchwork/encode"
	"github.com/signadot/patchwork/parse"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for i, file := range files {
		doc, err := parse.File(file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		v := patchwork.Get(doc, path, nil)
		if v == nil {
			return fmt.Errorf("no value at %s in %s", path, file)
		}
		if i > 0 && !cfg.format().IsJSON() {
			fmt.Fprintln(cc.Out, "---")
		}
		if err := encode.Encode(v, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	return nil
}
