package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) newShoppingListsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shopping-lists",
		Aliases: []string{"shopping"},
		Short:   "買い物リストを閲覧する",
	}
	cmd.AddCommand(a.newShoppingListsListCommand(), a.newShoppingListsShowCommand())
	return cmd
}

func (a *app) newShoppingListsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "自分の買い物リストを一覧表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.navigate(cmd.Context(), "/shopping-list"); err != nil {
				return err
			}
			lists, err := a.api.ShoppingLists(cmd.Context())
			if err != nil {
				return a.apiError(err, "買い物リストの取得")
			}

			out := cmd.OutOrStdout()
			if len(lists) == 0 {
				fmt.Fprintln(out, "買い物リストがありません")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\t状態\t材料数\t更新日時")
			for _, l := range lists {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", l.ID, l.Status, len(l.Ingredients), l.UpdatedAt)
			}
			return w.Flush()
		},
	}
}

func (a *app) newShoppingListsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "買い物リストの材料を表示する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.navigate(cmd.Context(), "/shopping-list"); err != nil {
				return err
			}
			l, err := a.api.ShoppingList(cmd.Context(), args[0])
			if err != nil {
				return a.apiError(err, "買い物リストの取得")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", l.ID, l.Status)
			for _, in := range l.Ingredients {
				fmt.Fprintf(out, "  [ ] %s (%s)\n", in.Name, in.Category)
			}
			return nil
		},
	}
}
