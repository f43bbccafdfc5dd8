package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inspect/internal/bytecode"
	"inspect/internal/config"
	"inspect/internal/dump"
	"inspect/internal/export"
	"inspect/internal/sink"
)

// runOptions is the merged view of flags and manifest values for one run.
type runOptions struct {
	atoms     bool
	objects   bool
	functions bool
	noFile    bool
	dumpDir   string
	export    string
	color     colorMode
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	opts, err := resolveOptions(cmd, inputPath)
	if err != nil {
		return err
	}

	// Validate the input before touching the destination, so a bad input
	// never leaves a stale dump file behind.
	container, err := bytecode.Load(inputPath)
	if err != nil {
		return err
	}

	out := sink.Console(cmd.OutOrStdout())
	if !opts.noFile {
		dumpPath := deriveDumpPath(inputPath)
		if opts.dumpDir != "" {
			dumpPath = dumpPathInDir(inputPath, opts.dumpDir)
		}
		fileOut, err := sink.File(dumpPath)
		if err != nil {
			// Fatal before any decoding: a console-only run and a teed run
			// must never diverge in what they attempted to produce.
			return err
		}
		out = sink.Multi(out, fileOut)
	}
	defer out.Close()

	sess := bytecode.NewSession()
	root, err := sess.DecodeRoot(container)
	if err != nil {
		// Whatever already reached the sink stays flushed; the failure only
		// stops further traversal.
		return fmt.Errorf("decode of %q failed: %w", inputPath, err)
	}

	renderer := dump.NewRenderer(out, sess.Atoms)
	if opts.atoms {
		if err := renderer.Atoms(); err != nil {
			return err
		}
	}
	if opts.objects {
		if err := renderer.HeapObjects(sess.Heap); err != nil {
			return err
		}
	}
	if opts.functions {
		if err := dump.Walk(root, renderer); err != nil {
			return err
		}
	}

	if opts.export != "" {
		if err := export.Write(opts.export, export.Build(container, sess, root)); err != nil {
			return err
		}
	}

	printSummary(os.Stderr, renderer.Stats(), shouldColor(opts.color))
	return nil
}

// resolveOptions merges the manifest (if any) with the command line. Flags
// explicitly set on the command line always win; when no section is selected
// anywhere, the run defaults to the full recursive function dump.
func resolveOptions(cmd *cobra.Command, inputPath string) (runOptions, error) {
	var opts runOptions

	var cfg config.Config
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return opts, err
	}
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return opts, err
		}
	} else {
		cfg, _, err = config.Discover(inputPath)
		if err != nil {
			return opts, err
		}
	}

	opts.atoms = cfg.Dump.Atoms
	opts.objects = cfg.Dump.Objects
	opts.functions = cfg.Dump.Functions
	opts.noFile = cfg.Output.NoFile
	opts.dumpDir = cfg.Output.Dir

	flagBool := func(name string, dst *bool) error {
		v, err := cmd.Flags().GetBool(name)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed(name) {
			*dst = v
		}
		return nil
	}
	if err := flagBool("atoms", &opts.atoms); err != nil {
		return opts, err
	}
	if err := flagBool("objects", &opts.objects); err != nil {
		return opts, err
	}
	if err := flagBool("functions", &opts.functions); err != nil {
		return opts, err
	}
	if err := flagBool("no-file", &opts.noFile); err != nil {
		return opts, err
	}

	opts.export, err = cmd.Flags().GetString("export")
	if err != nil {
		return opts, err
	}

	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return opts, err
	}
	if !cmd.Root().PersistentFlags().Changed("color") && cfg.Output.Color != "" {
		colorValue = cfg.Output.Color
	}
	opts.color, err = readColorMode(colorValue)
	if err != nil {
		return opts, err
	}

	if !opts.atoms && !opts.objects && !opts.functions {
		opts.functions = true
	}
	return opts, nil
}
