package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	Once       bool
	Interval   time.Duration
}

type Route struct {
	Url     string
	Handler http.Handler
}
