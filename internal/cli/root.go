package cli

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/kooking/pkg/logs"
)

// annotationNoSession が付いたコマンドはセッションを開かない。
const annotationNoSession = "kooking/no-session"

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kooking",
		Short:         "Kookingのレシピをターミナルから閲覧する",
		Long:          "KookingのAPIゲートウェイに接続し、ログイン、レシピの検索、お気に入り、買い物リストの確認を行う。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logs.SetVerbose(a.verbose)
			if _, ok := cmd.Annotations[annotationNoSession]; ok {
				return nil
			}
			return a.open(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "詳細なログを出力する")
	flags.StringVar(&a.cfg.APIURL, "api-url", a.cfg.APIURL, "APIゲートウェイのURL")
	flags.StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "セッションを保存するディレクトリ")

	root.AddCommand(
		a.newLoginCommand(),
		a.newRegisterCommand(),
		a.newLogoutCommand(),
		a.newWhoamiCommand(),
		a.newOpenCommand(),
		a.newRecipesCommand(),
		a.newIngredientsCommand(),
		a.newShoppingListsCommand(),
		a.newProxyCommand(),
	)
	return root
}
