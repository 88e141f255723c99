package main

import "time"

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	NatsURL         string        `env:"NATS_URL,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	TokenSecret     string        `env:"TOKEN_SECRET,required=true"`
	TokenDuration   time.Duration `env:"TOKEN_DURATION,default=24h"`
	HistoryPageSize int           `env:"HISTORY_PAGE_SIZE,default=20"`
}
