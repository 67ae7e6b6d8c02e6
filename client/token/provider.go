package token

import (
	"context"
	"errors"
	"fmt"

	"reservas-edge/internal/logging"

	"go.uber.org/zap"
)

var ErrNotSignedIn = errors.New("token: no signed-in identity")

// Identity é a identidade logada no provedor de identidade.
type Identity interface {
	SignedIn() bool
	// Token devolve um token assinado. force=true ignora o cache do provedor.
	Token(ctx context.Context, force bool) (string, error)
	SignOut(ctx context.Context) error
}

type Provider struct {
	identity   Identity
	session    Cache
	persistent Cache
	log        *zap.Logger
}

type Options struct {
	Identity   Identity
	Session    Cache
	Persistent Cache
	Logger     *zap.Logger
}

func NewProvider(opts Options) *Provider {
	if opts.Session == nil {
		opts.Session = NewMemoryCache()
	}
	return &Provider{
		identity:   opts.Identity,
		session:    opts.Session,
		persistent: opts.Persistent,
		log:        logging.OrNop(opts.Logger),
	}
}

// Bearer devolve o token a enviar, ou "" quando não há nenhum.
//
// Com identidade logada e force=true sempre pede um token novo ao provedor; um
// erro aí é devolvido ao chamador, que pode tentar de novo com force=false.
// Com force=false a identidade é consultada sem forçar e, se falhar, recorre
// aos caches (sessão, depois persistente).
func (p *Provider) Bearer(ctx context.Context, force bool) (string, error) {
	if p.identity != nil && p.identity.SignedIn() {
		tok, err := p.identity.Token(ctx, force)
		if err == nil && tok != "" {
			p.remember(ctx, tok)
			return tok, nil
		}
		if force {
			if err == nil {
				err = errors.New("empty token")
			}
			return "", fmt.Errorf("refresh token: %w", err)
		}
		p.log.Debug("identity token unavailable, using cache", zap.Error(err))
	}
	return p.cached(ctx), nil
}

// Logout limpa os caches e encerra a sessão no provedor de identidade.
func (p *Provider) Logout(ctx context.Context) error {
	var errs []error
	for _, c := range []Cache{p.session, p.persistent} {
		if c == nil {
			continue
		}
		if err := c.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if p.identity != nil {
		if err := p.identity.SignOut(ctx); err != nil {
			errs = append(errs, fmt.Errorf("sign out: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (p *Provider) cached(ctx context.Context) string {
	for _, c := range []Cache{p.session, p.persistent} {
		if c == nil {
			continue
		}
		tok, ok, err := c.Get(ctx)
		if err != nil {
			p.log.Warn("token cache read failed", zap.Error(err))
			continue
		}
		if ok {
			return tok
		}
	}
	return ""
}

func (p *Provider) remember(ctx context.Context, tok string) {
	for _, c := range []Cache{p.session, p.persistent} {
		if c == nil {
			continue
		}
		if err := c.Set(ctx, tok); err != nil {
			p.log.Warn("token cache write failed", zap.Error(err))
		}
	}
}
