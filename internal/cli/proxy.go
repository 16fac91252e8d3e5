package cli

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/kooking/internal/devproxy"
	"github.com/nao1215/kooking/internal/mockapi"
	"github.com/nao1215/kooking/internal/telemetry"
	"github.com/nao1215/kooking/pkg/logs"
)

func (a *app) newProxyCommand() *cobra.Command {
	var (
		mock      bool
		verifyTLS bool
	)
	cmd := &cobra.Command{
		Use:         "proxy",
		Short:       "フロントエンド開発用に /api をバックエンドへ転送する",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoSession: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.shutdown = telemetry.Setup(cmd.Context(), serviceName+"-proxy", a.cfg.OTLPEndpoint, a.cfg.OTLPInsecure)

			opts := devproxy.Options{
				Port:        a.cfg.ProxyPort,
				Target:      a.cfg.ProxyTarget,
				FrontendURL: a.cfg.FrontendURL,
				VerifyTLS:   verifyTLS,
			}
			if mock {
				opts.Backend = mockapi.New(a.cfg.JWTSecret, true).Handler()
				logs.Printf("モックAPIを使用します（ユーザー: %s / %s）", mockapi.DemoEmail, mockapi.DemoPassword)
			}

			server, err := devproxy.NewServer(opts)
			if err != nil {
				return err
			}
			if mock {
				logs.Printf("開発用プロキシを起動します: :%s -> mock", a.cfg.ProxyPort)
			} else {
				logs.Printf("開発用プロキシを起動します: :%s -> %s", a.cfg.ProxyPort, a.cfg.ProxyTarget)
			}
			return server.Run()
		},
	}
	cmd.Flags().StringVarP(&a.cfg.ProxyPort, "port", "p", a.cfg.ProxyPort, "リッスンポート")
	cmd.Flags().StringVar(&a.cfg.ProxyTarget, "target", a.cfg.ProxyTarget, "転送先のURL")
	cmd.Flags().StringVar(&a.cfg.FrontendURL, "frontend-url", a.cfg.FrontendURL, "CORSで許可するオリジン")
	cmd.Flags().BoolVar(&mock, "mock", false, "転送せずにモックAPIで応答する")
	cmd.Flags().BoolVar(&verifyTLS, "verify-tls", false, "転送先の証明書を検証する")
	return cmd
}
