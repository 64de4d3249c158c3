package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/aiground/linkdigest/internal/config"
	"github.com/aiground/linkdigest/internal/db"
	"github.com/aiground/linkdigest/internal/enrich"
	"github.com/aiground/linkdigest/internal/ollama"
	"github.com/aiground/linkdigest/internal/scrape"
	"github.com/aiground/linkdigest/internal/service"
	"github.com/aiground/linkdigest/internal/share"
	"github.com/aiground/linkdigest/internal/transport"
)

func main() {
	app := fx.New(
		config.Module,
		db.Module,
		ollama.Module,
		scrape.Module,
		enrich.Module,
		share.Module,
		service.Module,
		transport.Module,
		fx.Provide(
			func() (*zap.SugaredLogger, error) {
				l, err := zap.NewDevelopment()
				if err != nil {
					return nil, err
				}

				s := l.Sugar()
				return s, nil
			},
			func(c *ollama.Client) scrape.Translator { return c },
			func(c *ollama.Client) enrich.Summarizer { return c },
			func(s *enrich.GormStore) enrich.Store { return s },
			func(e *scrape.Extractor) service.Extractor { return e },
			func(e *enrich.Enricher) service.Enricher { return e },
			func(n *share.Notifier) service.Sharer { return n },
		),
		fx.Invoke(func(server *transport.HTTPServer) {}),
	)

	app.Run()
}
