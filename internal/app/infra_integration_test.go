package app

import (
	"context"
	"log/slog"
	"os"
	"testing"

	pnats "github.com/abgdnv/skuservice/pkg/nats"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/nats"
)

const skipIntegrationTests = "PRODUCT_SVC_SKIP_INTEGRATION_TESTS"

type BrokerSuite struct {
	suite.Suite
	natsContainer *nats.NATSContainer
	natsURL       string
	ctx           context.Context
}

func (s *BrokerSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.natsContainer, err = nats.Run(s.ctx, "nats:2.11.6-alpine")
	s.Require().NoError(err, "Failed to run NATS container")
	s.natsURL, err = s.natsContainer.ConnectionString(s.ctx)
	s.Require().NoError(err)
}

func (s *BrokerSuite) TearDownSuite() {
	if s.natsContainer != nil {
		_ = s.natsContainer.Terminate(s.ctx)
	}
}

func TestBrokerIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(BrokerSuite))
}

func (s *BrokerSuite) connect() *natsgo.Conn {
	nc, err := natsgo.Connect(s.natsURL)
	s.Require().NoError(err)
	s.T().Cleanup(nc.Close)
	return nc
}

func (s *BrokerSuite) TestStreamFailureClosesConnection() {
	// given another stream already owns the outbound subject
	admin := s.connect()
	js, err := pnats.NewJetStreamContext(admin)
	s.Require().NoError(err)
	_, err = js.CreateOrUpdateStream(s.ctx, jetstream.StreamConfig{Name: "OTHER", Subjects: []string{"taken-out"}})
	s.Require().NoError(err)
	cfg := testConfig()
	cfg.Broker.Subject = "taken-out"
	nc := s.connect()

	// when
	broker, err := newNATSBroker(s.ctx, nc, cfg, slog.New(slog.DiscardHandler))

	// then
	s.Require().Error(err)
	s.Nil(broker)
	s.True(nc.IsClosed())
	s.False(admin.IsClosed())
}

func (s *BrokerSuite) TestSuccessKeepsConnectionOpen() {
	// given
	cfg := testConfig()
	cfg.Broker.Stream = "PRODUCTS_OK"
	cfg.Broker.Subject = "ok-out"
	nc := s.connect()

	// when
	broker, err := newNATSBroker(s.ctx, nc, cfg, slog.New(slog.DiscardHandler))

	// then
	s.Require().NoError(err)
	s.NotNil(broker.Publisher)
	s.False(nc.IsClosed())
	broker.Close()
}
