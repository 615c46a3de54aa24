// Package config holds the configuration of the product service.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/skuservice/pkg/config"
	"github.com/abgdnv/skuservice/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Redis      config.RedisConfig      `koanf:"redis"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Broker     config.BrokerConfig     `koanf:"broker"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Kafka      config.KafkaConfig      `koanf:"kafka"`
	Subscriber config.SubscriberConfig `koanf:"subscriber"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

// String returns the configuration with secrets masked. Only the selected broker is printed.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.Redis.String())
	b.WriteString(c.Broker.String())
	switch c.Broker.Driver {
	case config.BrokerKafka:
		b.WriteString(c.Kafka.String())
	default:
		b.WriteString(c.Nats.String())
	}
	b.WriteString(c.Subscriber.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Database,
		&c.Redis,
		&c.Log,
		&c.PProf,
		&c.Broker,
		&c.Subscriber,
		&c.Resilience,
		&c.Telemetry,
		&c.Shutdown,
	}
	switch c.Broker.Driver {
	case config.BrokerNATS:
		validators = append(validators, &c.Nats)
	case config.BrokerKafka:
		validators = append(validators, &c.Kafka)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	// the stream is provisioned once with both subjects bound
	if c.Subscriber.Enabled && c.Broker.Driver == config.BrokerNATS && c.Subscriber.Stream != c.Broker.Stream {
		return fmt.Errorf("subscriber stream %q must match broker stream %q", c.Subscriber.Stream, c.Broker.Stream)
	}
	return nil
}
