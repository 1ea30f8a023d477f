package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-ui/weft/pkg/protocol"
	"github.com/weft-ui/weft/pkg/vdom"
)

func diffCmd() *cobra.Command {
	var (
		binary bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "diff <before.json> <after.json>",
		Short: "Diff two JSON trees",
		Long: `Reconcile two trees given as JSON files and print the resulting
patches, one per line. With --binary the encoded patch frame is
written instead, for feeding into other tools.

Examples:
  weft diff before.json after.json
  weft diff before.json after.json --binary -o patches.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], binary, output)
		},
	}

	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "Emit the encoded patch frame")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func runDiff(beforePath, afterPath string, binary bool, output string) error {
	before, err := loadTree(beforePath)
	if err != nil {
		return err
	}
	after, err := loadTree(afterPath)
	if err != nil {
		return err
	}

	patches := vdom.Diff(before, after)

	if binary {
		frames, err := protocol.EncodePassFrames(1, patches)
		if err != nil {
			return err
		}
		var raw []byte
		for _, f := range frames {
			raw = append(raw, f.Encode()...)
		}
		if output == "" {
			_, err := os.Stdout.Write(raw)
			return err
		}
		if err := os.WriteFile(output, raw, 0o644); err != nil {
			return err
		}
		success("wrote %d patches, %d bytes to %s", len(patches), len(raw), output)
		return nil
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	for _, p := range patches {
		fmt.Fprintln(out, p.String())
	}
	if output == "" && len(patches) == 0 {
		info("trees are identical")
	}
	return nil
}

func loadTree(path string) (*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	node, err := vdom.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}
