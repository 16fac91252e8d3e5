package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func (a *app) newOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "画面のパスへ遷移し、表示されるルートを確認する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.navigate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ルート: %s\n", res.Route.Name)
			fmt.Fprintf(out, "パス:   %s\n", res.Path)
			for _, k := range slices.Sorted(maps.Keys(res.Params)) {
				fmt.Fprintf(out, "  %s=%s\n", k, res.Params[k])
			}
			if res.Redirected() {
				fmt.Fprintf(out, "振り替え元: %s\n", res.RedirectedFrom)
			}
			return nil
		},
	}
}
