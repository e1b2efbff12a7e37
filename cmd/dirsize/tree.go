package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dirsize/internal/app"
	"dirsize/internal/query"
	"dirsize/internal/tree"
)

func newTreeCmd(c *cli) *cobra.Command {
	var (
		human bool
		top   int
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Показать дерево каталогов с размерами",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := app.Load(c.options(cmd))
			if err != nil {
				return err
			}
			if top > 0 {
				return writeLargest(cmd.OutOrStdout(), query.Largest(t, top), human)
			}
			return writeTree(cmd.OutOrStdout(), t, human)
		},
	}
	cmd.Flags().BoolVar(&human, "human", false, "Размеры в читаемом виде (kB, MB)")
	cmd.Flags().IntVar(&top, "top", 0, "Вместо дерева показать N самых больших каталогов")
	return cmd
}

func formatSize(size uint64, human bool) string {
	if human {
		return humanize.Bytes(size)
	}
	return fmt.Sprint(size)
}

func writeTree(w io.Writer, t *tree.Tree[uint64], human bool) error {
	var err error
	t.Walk(func(_, depth int, n tree.Node[uint64]) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%s- %s (%s)\n", strings.Repeat("  ", depth), n.Label, formatSize(n.Size, human))
		return true
	})
	return err
}

func writeLargest(w io.Writer, dirs []query.Dir[uint64], human bool) error {
	for _, d := range dirs {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", formatSize(d.Size, human), d.Path); err != nil {
			return err
		}
	}
	return nil
}
