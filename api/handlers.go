package api

import (
	"fmt"
	"net/http"

	"github.com/MinterTeam/minter-go-ledger/core/code"
	"github.com/MinterTeam/minter-go-ledger/core/types"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type StatusResponse struct {
	Version            string `json:"version"`
	LatestBlockHeight  uint64 `json:"latest_block_height"`
	LatestAppHash      string `json:"latest_app_hash"`
	TotalIssuance      string `json:"total_issuance"`
	ExistentialDeposit string `json:"existential_deposit"`
}

type AddressResponse struct {
	Address   types.Address  `json:"address"`
	Free      string         `json:"free"`
	Total     string         `json:"total"`
	Staked    string         `json:"staked"`
	Holds     []HoldResponse `json:"holds"`
	Locks     []LockResponse `json:"locks"`
	Providers uint32         `json:"providers"`
	Frozen    bool           `json:"frozen"`
}

type HoldResponse struct {
	Reason types.HoldReason `json:"reason"`
	Amount string           `json:"amount"`
}

type LockResponse struct {
	ID     types.LockID `json:"id"`
	Amount string       `json:"amount"`
}

type EventResponse struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

func (s *Service) status(c *gin.Context) {
	cState := s.blockchain.CurrentState()
	a := cState.Asset()

	c.JSON(http.StatusOK, StatusResponse{
		Version:            s.version,
		LatestBlockHeight:  s.blockchain.Height(),
		LatestAppHash:      fmt.Sprintf("%X", s.blockchain.Hash()),
		TotalIssuance:      a.TotalIssuance().String(),
		ExistentialDeposit: a.ExistentialDeposit().String(),
	})
}

func (s *Service) address(c *gin.Context) {
	address, err := types.ParseAddress(c.Param("address"))
	if err != nil {
		badRequest(c, err)
		return
	}

	cState, ok := s.getStateForRequest(c)
	if !ok {
		return
	}

	a := cState.Asset()
	account := cState.Balances().GetAccount(address)
	providers := cState.System().Providers(address)
	if account == nil && providers == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": map[string]interface{}{
				"message": "account not found",
				"data":    code.NewAccountNotFound(address.String()),
			},
		})
		return
	}

	response := AddressResponse{
		Address:   address,
		Free:      a.FreeBalance(address).String(),
		Total:     a.TotalBalance(address).String(),
		Staked:    a.Staked(address).String(),
		Holds:     []HoldResponse{},
		Locks:     []LockResponse{},
		Providers: providers,
		Frozen:    cState.System().IsFrozen(address),
	}
	if account != nil {
		for _, hold := range account.GetHolds() {
			response.Holds = append(response.Holds, HoldResponse{Reason: hold.Reason, Amount: hold.Amount.String()})
		}
		for _, lock := range account.GetLocks() {
			response.Locks = append(response.Locks, LockResponse{ID: lock.ID, Amount: lock.Amount.String()})
		}
	}

	c.JSON(http.StatusOK, response)
}

func (s *Service) issuance(c *gin.Context) {
	cState, ok := s.getStateForRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"height":              cState.Height(),
		"total_issuance":      cState.Asset().TotalIssuance().String(),
		"existential_deposit": cState.Asset().ExistentialDeposit().String(),
	})
}

func (s *Service) events(c *gin.Context) {
	height, err := queryHeight(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if height == 0 {
		badRequest(c, errors.New("height is required"))
		return
	}
	if height > uint64(^uint32(0)) {
		badRequest(c, errors.Errorf("height %d is out of range", height))
		return
	}

	loaded := s.blockchain.GetEventsDB().LoadEvents(uint32(height))
	result := make([]EventResponse, 0, len(loaded))
	for _, event := range loaded {
		result = append(result, EventResponse{
			Type:  event.Type(),
			Value: event,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"events": result,
	})
}
