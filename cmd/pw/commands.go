package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "pw").
		WithSynopsis("pw [opts] command [opts]").
		WithDescription("pw applies patchwork directives to documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pwMain(cfg, cc, args)
		}).
		WithSubs(
			PatchCommand(cfg),
			ExpandCommand(cfg),
			GetCommand(cfg),
			OpsCommand(cfg))
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("patch").
		WithAliases("p", "pa").
		WithSynopsis("patch -s <source> -d <directives> [opts] [target]").
		WithDescription("patch a target document from a source document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
	cfg.Patch = cmd
	return cmd
}

func ExpandCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExpandConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Expand, "expand").
		WithAliases("x").
		WithSynopsis("expand [-strict] <path> [file]").
		WithDescription("list the concrete paths a wildcard path expands to").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return expand(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("get the value at a path in documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
	cfg.Get = cmd
	return cmd
}

func OpsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &OpsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Ops, "ops").
		WithSynopsis("ops").
		WithDescription("list available operations").
		WithRun(func(cc *cli.Context, args []string) error {
			return listOps(cfg, cc, args)
		})
}
