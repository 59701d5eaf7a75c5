// Command toyvm loads a compiled .toyc bytecode image and runs it. It is a
// thin host over the vm package: no lexer, parser, compiler, or REPL lives
// here, matching this repository's scope — those stages produce the image
// this binary consumes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/GruelingPine185/Toy/version"
	"github.com/GruelingPine185/Toy/vm"
)

func main() {
	app := &cli.Command{
		Name:  "toyvm",
		Usage: "run a compiled Toy bytecode image",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "print the VM build and image format version",
			},
			&cli.IntFlag{
				Name:  "max-call-depth",
				Usage: "maximum grouping/function-call recursion depth",
				Value: vm.DefaultMaxCallDepth,
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "toyvm: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Println(version.Version())
		return nil
	}

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: toyvm [flags] <file.toyc>")
	}

	bytecode, err := os.ReadFile(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	cfg := vm.NewConfig()
	if depth := int(cmd.Int("max-call-depth")); depth > 0 {
		cfg.MaxCallDepth = depth
	}

	return vm.RunInterpreter(bytecode, cfg)
}
