package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) newIngredientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "材料を閲覧する",
	}
	cmd.AddCommand(a.newIngredientsListCommand(), a.newIngredientsCategoriesCommand())
	return cmd
}

func (a *app) newIngredientsListCommand() *cobra.Command {
	var (
		page, size       int
		search, category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "材料を一覧表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.navigate(cmd.Context(), "/ingredients"); err != nil {
				return err
			}
			p, err := a.api.Ingredients(cmd.Context(), page, size, search, category)
			if err != nil {
				return a.apiError(err, "材料の取得")
			}

			out := cmd.OutOrStdout()
			if len(p.Content) == 0 {
				fmt.Fprintln(out, "材料がありません")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\t名前\tカテゴリ\t代替")
			for _, in := range p.Content {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", in.ID, in.Name, in.Category, len(in.Substitutes))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d件中 %dページ目\n", p.TotalElements, p.Index()+1)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "ページ番号（0始まり）")
	cmd.Flags().IntVar(&size, "size", 0, "1ページの件数")
	cmd.Flags().StringVar(&search, "search", "", "名前で絞り込む")
	cmd.Flags().StringVar(&category, "category", "", "カテゴリで絞り込む")
	return cmd
}

func (a *app) newIngredientsCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "材料のカテゴリを一覧表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.navigate(cmd.Context(), "/ingredients"); err != nil {
				return err
			}
			categories, err := a.api.Categories(cmd.Context())
			if err != nil {
				return a.apiError(err, "カテゴリの取得")
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
