package signal

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	URL            string        `mapstructure:"url" validate:"required,url"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`

	// outbound data messages per second and burst allowance
	SendRate  float64 `mapstructure:"send_rate"`
	SendBurst int     `mapstructure:"send_burst"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("url"), "ws://localhost:8081/signal")
	v.SetDefault(p("dial_timeout"), "10s")
	v.SetDefault(p("request_timeout"), "10s")
	v.SetDefault(p("write_timeout"), "3s")
	v.SetDefault(p("send_rate"), 20.0)
	v.SetDefault(p("send_burst"), 40)
}
