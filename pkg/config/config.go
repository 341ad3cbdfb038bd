// Package config defines the application configuration, loaded from the
// environment, and the dependency bundle handed to the service layer.
package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[conto]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

// Bonus configures the signup bonus granted from the root account to every
// user's first account.
type Bonus struct {
	Amount      int64  `envconfig:"AMOUNT" default:"100"`
	Description string `envconfig:"DESCRIPTION" default:"Welcome to Conto!"`
	// RootMinimumBalance is set low enough that the minimum-balance check can
	// never block a bonus grant from the root account.
	RootMinimumBalance int64 `envconfig:"ROOT_MINIMUM_BALANCE" default:"-1000000000000"`
}

type App struct {
	Env    string  `envconfig:"APP_ENV" default:"development"`
	Server *Server `envconfig:"SERVER"`
	Log    *Log    `envconfig:"LOG"`
	DB     *DB     `envconfig:"DATABASE"`
	Jwt    *Jwt    `envconfig:"JWT"`
	Bonus  *Bonus  `envconfig:"BONUS"`
}
