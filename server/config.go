package server

import "time"

type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`          // Addr is the address the server listens on.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`    // ReadTimeout is the maximum duration for reading the entire request.
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`   // WriteTimeout is the maximum duration before timing out writes of the response.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"` // ShutdownTimeout is the time allowed for graceful shutdown.
}
