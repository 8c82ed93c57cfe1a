package capitalist

import (
	"go.uber.org/fx"

	"github.com/digideal/paygate/pkg/config"
)

func NewSignerFromConfig(cfg *config.Config) (*Signer, error) {
	return NewSigner(cfg.Capitalist.SecretKey)
}

func NewBuilderFromConfig(cfg *config.Config, signer *Signer) (*Builder, error) {
	return NewBuilder(BuilderOptions{
		MerchantAddress: cfg.Capitalist.MerchantAddress,
		PayURL:          cfg.Capitalist.PayURL,
		SiteURL:         cfg.Capitalist.SiteURL,
		InteractionURL:  cfg.Capitalist.WebhookURL(),
		DefaultLang:     cfg.Capitalist.DefaultLang,
	}, signer)
}

var Module = fx.Options(
	fx.Provide(NewSignerFromConfig),
	fx.Provide(NewBuilderFromConfig),
)
