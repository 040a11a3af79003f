// Package imbalance holds the values returned by operations that change
// account balances without changing total issuance (or the other way round).
// Each value must be consumed exactly once: merged, split, offset against an
// opposite one, handed to an account, or dropped into total issuance.
package imbalance

import (
	"fmt"
	"math/big"
)

// Issuance settles dropped imbalances.
type Issuance interface {
	IncreaseIssuance(amount *big.Int)
	DecreaseIssuance(amount *big.Int)
}

type imbalance struct {
	amount   *big.Int
	issuance Issuance
	consumed bool
}

func newImbalance(amount *big.Int, issuance Issuance) imbalance {
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		panic(fmt.Sprintf("negative imbalance amount %s", amount))
	}

	return imbalance{amount: big.NewInt(0).Set(amount), issuance: issuance}
}

// Peek returns the amount without consuming the imbalance
func (i *imbalance) Peek() *big.Int {
	return big.NewInt(0).Set(i.amount)
}

func (i *imbalance) IsZero() bool {
	return i.amount.Sign() == 0
}

func (i *imbalance) IsConsumed() bool {
	return i.consumed
}

func (i *imbalance) consume() *big.Int {
	if i.consumed {
		panic("imbalance is already consumed")
	}
	i.consumed = true

	return i.amount
}

// Positive is funds credited to an account that are not yet accounted for in
// total issuance. Dropping it increases issuance.
type Positive struct {
	imbalance
}

func NewPositive(amount *big.Int, issuance Issuance) *Positive {
	return &Positive{newImbalance(amount, issuance)}
}

func ZeroPositive(issuance Issuance) *Positive {
	return NewPositive(nil, issuance)
}

// Merge consumes both imbalances and returns their sum
func (p *Positive) Merge(other *Positive) *Positive {
	sum := big.NewInt(0).Add(p.consume(), other.consume())
	return NewPositive(sum, p.issuance)
}

// Split consumes the imbalance and returns two parts, the first one is at
// most amount
func (p *Positive) Split(amount *big.Int) (*Positive, *Positive) {
	total := p.consume()
	first := min(total, amount)
	return NewPositive(first, p.issuance), NewPositive(big.NewInt(0).Sub(total, first), p.issuance)
}

// Offset consumes both imbalances and returns what is left on each side.
// At least one of the results is zero.
func (p *Positive) Offset(other *Negative) (*Positive, *Negative) {
	positive, negative := offset(p.consume(), other.consume())
	return NewPositive(positive, p.issuance), NewNegative(negative, p.issuance)
}

// Drop settles the imbalance by increasing total issuance
func (p *Positive) Drop() {
	amount := p.consume()
	if amount.Sign() == 0 {
		return
	}
	p.issuance.IncreaseIssuance(amount)
}

func (p *Positive) String() string {
	return fmt.Sprintf("Positive(%s)", p.amount)
}

// Negative is funds removed from an account that are still counted in total
// issuance. Dropping it decreases issuance.
type Negative struct {
	imbalance
}

func NewNegative(amount *big.Int, issuance Issuance) *Negative {
	return &Negative{newImbalance(amount, issuance)}
}

func ZeroNegative(issuance Issuance) *Negative {
	return NewNegative(nil, issuance)
}

// Merge consumes both imbalances and returns their sum
func (n *Negative) Merge(other *Negative) *Negative {
	sum := big.NewInt(0).Add(n.consume(), other.consume())
	return NewNegative(sum, n.issuance)
}

// Split consumes the imbalance and returns two parts, the first one is at
// most amount
func (n *Negative) Split(amount *big.Int) (*Negative, *Negative) {
	total := n.consume()
	first := min(total, amount)
	return NewNegative(first, n.issuance), NewNegative(big.NewInt(0).Sub(total, first), n.issuance)
}

// Offset consumes both imbalances and returns what is left on each side.
// At least one of the results is zero.
func (n *Negative) Offset(other *Positive) (*Positive, *Negative) {
	positive, negative := offset(other.consume(), n.consume())
	return NewPositive(positive, n.issuance), NewNegative(negative, n.issuance)
}

// Take consumes the imbalance and returns its amount. The caller becomes
// responsible for crediting it somewhere.
func (n *Negative) Take() *big.Int {
	return big.NewInt(0).Set(n.consume())
}

// Drop settles the imbalance by decreasing total issuance
func (n *Negative) Drop() {
	amount := n.consume()
	if amount.Sign() == 0 {
		return
	}
	n.issuance.DecreaseIssuance(amount)
}

func (n *Negative) String() string {
	return fmt.Sprintf("Negative(%s)", n.amount)
}

func offset(positive, negative *big.Int) (*big.Int, *big.Int) {
	if positive.Cmp(negative) >= 0 {
		return big.NewInt(0).Sub(positive, negative), big.NewInt(0)
	}
	return big.NewInt(0), big.NewInt(0).Sub(negative, positive)
}

func min(a, b *big.Int) *big.Int {
	if b.Sign() < 0 {
		return big.NewInt(0)
	}
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}
