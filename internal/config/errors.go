package config

import "errors"

var errWorkerThreads = errors.New("config: worker_threads must be positive")
