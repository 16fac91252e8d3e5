package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/kooking/internal/api"
	"github.com/nao1215/kooking/internal/router"
	"github.com/nao1215/kooking/internal/session"
)

func (a *app) newLoginCommand() *cobra.Command {
	var (
		email         string
		passwordStdin bool
		force         bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "メールアドレスとパスワードでログインする",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if force && a.session.IsAuthenticated() {
				a.session.Logout(ctx)
			}
			res, err := a.navigate(ctx, router.PathLogin)
			if err != nil {
				return err
			}
			if res.Redirected() {
				fmt.Fprintf(out, "既にログインしています: %s\n", a.displayName())
				return nil
			}

			if email == "" {
				if email, err = a.readLine(cmd.InOrStdin(), out, "メールアドレス: "); err != nil {
					return err
				}
			}
			password, err := a.password(cmd, passwordStdin, "パスワード: ")
			if err != nil {
				return err
			}

			user, err := a.session.Login(ctx, session.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("ログインに失敗しました: %s", a.session.LastError())
			}
			if _, err := a.navigate(ctx, router.PathDashboard); err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(out, "ログインしました（ユーザー情報は取得できませんでした）")
				return nil
			}
			fmt.Fprintf(out, "ログインしました: %s\n", a.displayName())
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "メールアドレス")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "パスワードを標準入力から読み取る")
	cmd.Flags().BoolVar(&force, "force", false, "ログイン済みでもログインし直す")
	return cmd
}

func (a *app) newRegisterCommand() *cobra.Command {
	var (
		req           api.RegisterRequest
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "ユーザーを登録する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			res, err := a.navigate(ctx, "/register")
			if err != nil {
				return err
			}
			if res.Redirected() {
				fmt.Fprintf(out, "既にログインしています: %s\n", a.displayName())
				return nil
			}

			if req.Email == "" {
				if req.Email, err = a.readLine(cmd.InOrStdin(), out, "メールアドレス: "); err != nil {
					return err
				}
			}
			if req.Password, err = a.password(cmd, passwordStdin, "パスワード: "); err != nil {
				return err
			}
			if req.ConfirmPassword, err = a.password(cmd, passwordStdin, "パスワード（確認）: "); err != nil {
				return err
			}

			user, err := a.session.Register(ctx, req)
			if err != nil {
				return fmt.Errorf("ユーザー登録に失敗しました: %s", a.session.LastError())
			}
			fmt.Fprintf(out, "登録しました: %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			fmt.Fprintln(out, "kooking login でログインしてください")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "名")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "姓")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "メールアドレス")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "パスワードと確認用パスワードを標準入力から1行ずつ読み取る")
	return cmd
}

func (a *app) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "ログアウトして保存済みのトークンを削除する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session.Logout(cmd.Context())
			if _, err := a.navigate(cmd.Context(), router.PathWelcome); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ログアウトしました")
			return nil
		},
	}
}

func (a *app) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "ログイン中のユーザーを表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.navigate(cmd.Context(), "/profile"); err != nil {
				return err
			}
			if !a.session.IsAuthenticated() {
				return errNotLoggedIn
			}

			out := cmd.OutOrStdout()
			if user := a.session.User(); user != nil {
				fmt.Fprintf(out, "名前:   %s\n", a.session.UserFullName())
				fmt.Fprintf(out, "メール: %s\n", user.Email)
			}
			fmt.Fprintf(out, "状態:   %s\n", a.session.State())
			if claims, err := a.session.Claims(); err == nil && claims.ExpiresAt != nil {
				fmt.Fprintf(out, "有効期限: %s\n", claims.ExpiresAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

// password はパスワードを読み取る。fromStdinが真の場合は標準入力の1行を使う。
func (a *app) password(cmd *cobra.Command, fromStdin bool, prompt string) (string, error) {
	if fromStdin {
		return a.readLine(cmd.InOrStdin(), cmd.OutOrStdout(), "")
	}
	return a.readPassword(prompt)
}

// displayName は表示用のユーザー名を返す。プロフィール未取得の場合は状態名を返す。
func (a *app) displayName() string {
	if name := a.session.UserFullName(); name != "" {
		return name
	}
	return a.session.State().String()
}
