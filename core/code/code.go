package code

import (
	"strconv"
)

// Codes for balance and stake operation responses
const (
	// general
	OK                uint32 = 0
	InsufficientFunds uint32 = 107
	WrongAmount       uint32 = 108

	// balance
	Underflow       uint32 = 120
	DeadAccount     uint32 = 121
	AccountNotFound uint32 = 122

	// stake
	ProviderIncrementFailed uint32 = 401
	ProviderDecrementFailed uint32 = 402
	HoldUpdateFailed        uint32 = 403
	StakeNotFound           uint32 = 404
)

type underflow struct {
	Code  string `json:"code,omitempty"`
	Value string `json:"value,omitempty"`
	Held  string `json:"held,omitempty"`
}

func NewUnderflow(value string, held string) *underflow {
	return &underflow{Code: strconv.Itoa(int(Underflow)), Value: value, Held: held}
}

type holdUpdateFailed struct {
	Code      string `json:"code,omitempty"`
	Address   string `json:"address,omitempty"`
	Requested string `json:"requested,omitempty"`
	Free      string `json:"free,omitempty"`
}

func NewHoldUpdateFailed(address string, requested string, free string) *holdUpdateFailed {
	return &holdUpdateFailed{Code: strconv.Itoa(int(HoldUpdateFailed)), Address: address, Requested: requested, Free: free}
}

type providerChangeFailed struct {
	Code      string `json:"code,omitempty"`
	Address   string `json:"address,omitempty"`
	Providers string `json:"providers,omitempty"`
}

func NewProviderIncrementFailed(address string, providers string) *providerChangeFailed {
	return &providerChangeFailed{Code: strconv.Itoa(int(ProviderIncrementFailed)), Address: address, Providers: providers}
}

func NewProviderDecrementFailed(address string, providers string) *providerChangeFailed {
	return &providerChangeFailed{Code: strconv.Itoa(int(ProviderDecrementFailed)), Address: address, Providers: providers}
}

type accountNotFound struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewAccountNotFound(address string) *accountNotFound {
	return &accountNotFound{Code: strconv.Itoa(int(AccountNotFound)), Address: address}
}
