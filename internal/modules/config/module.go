package config

import "go.uber.org/fx"

// Module конфиг читается до fx (нужен логгеру), сюда кладём готовый.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
