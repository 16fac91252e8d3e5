package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/kooking/internal/api"
)

func (a *app) newRecipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "レシピを閲覧する",
	}
	cmd.AddCommand(
		a.newRecipesTrendingCommand(),
		a.newRecipesSearchCommand(),
		a.newRecipesShowCommand(),
		a.newRecipesFavoritesCommand(),
		a.newRecipesFavoriteCommand(true),
		a.newRecipesFavoriteCommand(false),
	)
	return cmd
}

func (a *app) newRecipesTrendingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "人気のレシピを表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.navigate(cmd.Context(), "/dashboard"); err != nil {
				return err
			}
			cards, err := a.api.Trending(cmd.Context())
			if err != nil {
				return a.apiError(err, "人気のレシピの取得")
			}
			return writeRecipeCards(cmd.OutOrStdout(), cards)
		},
	}
}

func (a *app) newRecipesSearchCommand() *cobra.Command {
	var q api.RecipeQuery
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "レシピを検索する",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Search = args[0]
			}
			if _, err := a.navigate(cmd.Context(), "/search?"+url.Values{"q": {q.Search}}.Encode()); err != nil {
				return err
			}
			page, err := a.api.SearchRecipes(cmd.Context(), q)
			if err != nil {
				return a.apiError(err, "レシピの検索")
			}
			if err := writeRecipeCards(cmd.OutOrStdout(), page.Content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d件中 %dページ目\n", page.TotalElements, page.Index()+1)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 0, "ページ番号（0始まり）")
	cmd.Flags().IntVar(&q.Size, "size", 0, "1ページの件数")
	cmd.Flags().StringVar(&q.SortBy, "sort-by", "", "並び替えの項目")
	cmd.Flags().StringVar(&q.SortDirection, "direction", "", "並び替えの方向（asc/desc）")
	return cmd
}

func (a *app) newRecipesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "レシピの詳細を表示する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.navigateTo(cmd.Context(), "RecipeDetail", "id", args[0])
			if err != nil {
				return err
			}
			r, err := a.api.Recipe(cmd.Context(), res.Params["id"])
			if err != nil {
				return a.apiError(err, "レシピの取得")
			}

			out := cmd.OutOrStdout()
			fav := ""
			if r.IsFavorite {
				fav = " ★"
			}
			fmt.Fprintf(out, "%s%s\n", r.Name, fav)
			if r.Description != "" {
				fmt.Fprintf(out, "%s\n", r.Description)
			}
			fmt.Fprintf(out, "料理: %s / 食事: %s / 難易度: %s / %d分 / 評価 %.1f\n",
				r.Cuisine, r.MealType, r.Difficulty, r.CookingTime, r.Rating)
			if r.Author != nil {
				fmt.Fprintf(out, "作成者: %s %s\n", r.Author.FirstName, r.Author.LastName)
			}
			fmt.Fprintln(out, "\n材料:")
			for _, in := range r.Ingredients {
				name := in.IngredientName
				if name == "" {
					name = in.IngredientID
				}
				fmt.Fprintf(out, "  - %s %g%s\n", name, in.Quantity, in.Unit)
			}
			if r.Instructions != "" {
				fmt.Fprintf(out, "\n手順:\n%s\n", r.Instructions)
			}
			return nil
		},
	}
}

func (a *app) newRecipesFavoritesCommand() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "お気に入りのレシピを表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.navigate(cmd.Context(), "/favorites"); err != nil {
				return err
			}
			p, err := a.api.FavoriteRecipes(cmd.Context(), page, size)
			if err != nil {
				return a.apiError(err, "お気に入りの取得")
			}
			return writeRecipeCards(cmd.OutOrStdout(), p.Content)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "ページ番号（0始まり）")
	cmd.Flags().IntVar(&size, "size", 0, "1ページの件数")
	return cmd
}

func (a *app) newRecipesFavoriteCommand(add bool) *cobra.Command {
	use, short, action := "favorite <id>", "レシピをお気に入りに登録する", "お気に入りの登録"
	if !add {
		use, short, action = "unfavorite <id>", "レシピをお気に入りから外す", "お気に入りの解除"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.navigateTo(cmd.Context(), "RecipeDetail", "id", args[0]); err != nil {
				return err
			}
			call := a.api.Favorite
			if !add {
				call = a.api.Unfavorite
			}
			if err := call(cmd.Context(), args[0]); err != nil {
				return a.apiError(err, action)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sが完了しました: %s\n", action, args[0])
			return nil
		},
	}
}

// writeRecipeCards はレシピの一覧を表形式で出力する。
func writeRecipeCards(out io.Writer, cards []api.RecipeCard) error {
	if len(cards) == 0 {
		fmt.Fprintln(out, "レシピがありません")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t名前\t料理\t時間\t評価")
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d分\t%.1f\n", c.ID, c.Name, strings.ToUpper(c.Cuisine), c.CookingTime, c.Rating)
	}
	return w.Flush()
}
