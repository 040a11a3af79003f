package api

import (
	"net/http"
	"strconv"

	eventsdb "github.com/MinterTeam/minter-go-ledger/core/events"
	"github.com/MinterTeam/minter-go-ledger/core/state"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// Blockchain is the part of the ledger the API reads from
type Blockchain interface {
	Height() uint64
	Hash() []byte
	CurrentState() *state.CheckState
	GetStateForHeight(height uint64) (*state.CheckState, error)
	GetEventsDB() eventsdb.IEventsDB
}

// Service serves read-only queries over the ledger state
type Service struct {
	blockchain Blockchain
	gatherer   prometheus.Gatherer
	metrics    *Metrics
	version    string
	logger     log.Logger
}

// NewService creates the query service. gatherer may be nil, then /metrics
// is not exposed.
func NewService(blockchain Blockchain, gatherer prometheus.Gatherer, metrics *Metrics, version string, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Service{
		blockchain: blockchain,
		gatherer:   gatherer,
		metrics:    metrics,
		version:    version,
		logger:     logger.With("module", "api"),
	}
}

// Handler returns the http routes of the service
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.observe)

	r.GET("/status", s.status)
	r.GET("/address/:address", s.address)
	r.GET("/issuance", s.issuance)
	r.GET("/events", s.events)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func (s *Service) getStateForRequest(c *gin.Context) (*state.CheckState, bool) {
	height, err := queryHeight(c)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}

	cState, err := s.blockchain.GetStateForHeight(height)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": map[string]string{
				"message": err.Error(),
			},
		})
		return nil, false
	}

	return cState, true
}

func queryHeight(c *gin.Context) (uint64, error) {
	height := c.Query("height")
	if height == "" {
		return 0, nil
	}
	return strconv.ParseUint(height, 10, 64)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": map[string]string{
			"message": err.Error(),
		},
	})
}
