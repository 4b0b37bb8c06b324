package service

import (
	"github.com/dom/league-rest-explorer/internal/config"
	"github.com/dom/league-rest-explorer/internal/repository"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Services struct {
	Champion *ChampionService
	Proxy    *ProxyService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, riotAPI RiotAPI, dd DataDragon, tracer trace.Tracer, logger *zap.Logger) *Services {
	return &Services{
		Champion: NewChampionService(repos.Champion, dd, logger),
		Proxy:    NewProxyService(riotAPI, repos.Champion, cfg, tracer, logger),
	}
}
