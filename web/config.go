package web

import "time"

// ServerConfig holds the HTTP server settings. The hosting application
// binds it from its configuration tree and seeds it into the container
// before the web module configures itself.
type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

// Options collects the hooks applications pass to Module.
type Options struct {
	// Routes are called during Configure to register handlers.
	Routes []func(r Router)
	// Middlewares run after the built-in middleware chain.
	Middlewares []Handler
}

type Option func(*Options)

func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}
