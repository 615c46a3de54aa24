package config

import (
	"fmt"
	"strings"
)

const (
	BrokerNATS  = "nats"
	BrokerKafka = "kafka"
)

// BrokerConfig selects the message broker and names the outbound channel.
type BrokerConfig struct {
	Driver  string `koanf:"driver"`
	Stream  string `koanf:"stream"`
	Subject string `koanf:"subject"`
}

// String returns a string representation of the broker configuration.
func (c *BrokerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Broker ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	b.WriteString(fmt.Sprintf("  subject: %s\n", c.Subject))
	return b.String()
}

func (c *BrokerConfig) Validate() error {
	switch c.Driver {
	case BrokerNATS:
		if c.Stream == "" {
			return fmt.Errorf("broker stream is not configured")
		}
	case BrokerKafka:
	default:
		return fmt.Errorf("unsupported broker driver: %q", c.Driver)
	}
	if c.Subject == "" {
		return fmt.Errorf("broker outbound subject is not configured")
	}
	return nil
}
