package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/medipay/relayfn/config"
	"github.com/medipay/relayfn/mail"
	"github.com/medipay/relayfn/proxy"
	"github.com/medipay/relayfn/sms"
	"github.com/medipay/relayfn/staticmap"
)

// MailTransport returns the transport selected by cfg.
func MailTransport(cfg *config.Config) (mail.Transport, error) {
	switch cfg.Mail.Transport {
	case config.TransportSMTP:
		return mail.NewSMTPTransport(cfg.Mail, cfg.UpstreamTimeout), nil
	case config.TransportSES:
		t, err := mail.NewSESTransport(cfg.Mail.AWSRegion)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, errors.Errorf("unknown mail transport '%s'", cfg.Mail.Transport)
	}
}

// FromConfig builds every relay described by cfg and returns the router
// serving them. It is called once per process.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*proxy.Router, error) {
	transport, err := MailTransport(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating mail transport")
	}

	client := &http.Client{Timeout: cfg.UpstreamTimeout}

	var ip sms.IPResolver
	if cfg.SMS.IPLookupEnabled {
		ip = sms.NewIPLookup(cfg.SMS.IPLookupURL, client)
	}

	naver := staticmap.NewNaver(cfg.Map, client)

	router := New(Deps{
		Mail:   mail.NewRelay(cfg.Mail, transport, logger.Named("mail")),
		SMS:    sms.NewRelay(sms.NewGateway(cfg.SMS, client), ip, logger.Named("sms")),
		Map:    staticmap.NewProxy(naver, naver, cfg.Map.DefaultAddress, logger.Named("map")),
		Logger: logger,
	})

	if !router.Valid() {
		return nil, router.BuildErrors()
	}

	return router, nil
}
