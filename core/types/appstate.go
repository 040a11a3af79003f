package types

import (
	"math/big"

	"github.com/MinterTeam/minter-go-ledger/helpers"
	"github.com/pkg/errors"
)

// AppState is the initial (or exported) ledger consumed at chain start.
type AppState struct {
	Note               string    `json:"note"`
	ExistentialDeposit string    `json:"existential_deposit"`
	TotalIssuance      string    `json:"total_issuance"`
	Accounts           []Account `json:"accounts,omitempty"`
}

type Account struct {
	Address   Address `json:"address"`
	Free      string  `json:"free"`
	Holds     []Hold  `json:"holds,omitempty"`
	Locks     []Lock  `json:"locks,omitempty"`
	Providers uint32  `json:"providers"`
	Frozen    bool    `json:"frozen,omitempty"`
}

type Hold struct {
	Reason HoldReason `json:"reason"`
	Amount string     `json:"amount"`
}

type Lock struct {
	ID     LockID `json:"id"`
	Amount string `json:"amount"`
}

func (s *AppState) Verify() error {
	if !helpers.IsValidBigInt(s.ExistentialDeposit) {
		return errors.New("existential deposit is not valid BigInt")
	}

	if !helpers.IsValidBigInt(s.TotalIssuance) {
		return errors.New("total issuance is not valid BigInt")
	}

	ed := helpers.StringToBigInt(s.ExistentialDeposit)
	volume := big.NewInt(0)

	accounts := map[Address]struct{}{}
	for _, acc := range s.Accounts {
		// check for account duplication
		if _, exists := accounts[acc.Address]; exists {
			return errors.Errorf("duplicated account %s", acc.Address.String())
		}
		accounts[acc.Address] = struct{}{}

		if !helpers.IsValidBigInt(acc.Free) {
			return errors.Errorf("not valid free balance for account %s", acc.Address.String())
		}

		total := helpers.StringToBigInt(acc.Free)
		staked := false

		holds := map[HoldReason]struct{}{}
		for _, hold := range acc.Holds {
			if !hold.Reason.IsValid() {
				return errors.Errorf("unknown hold reason %d for account %s", hold.Reason, acc.Address.String())
			}
			if _, exists := holds[hold.Reason]; exists {
				return errors.Errorf("duplicated hold %s for account %s", hold.Reason, acc.Address.String())
			}
			holds[hold.Reason] = struct{}{}

			if !helpers.IsValidBigInt(hold.Amount) {
				return errors.Errorf("not valid hold %s for account %s", hold.Reason, acc.Address.String())
			}
			amount := helpers.StringToBigInt(hold.Amount)
			if hold.Reason == HoldReasonStaking && amount.Sign() > 0 {
				staked = true
			}
			total.Add(total, amount)
		}

		locks := map[LockID]struct{}{}
		for _, lock := range acc.Locks {
			if _, exists := locks[lock.ID]; exists {
				return errors.Errorf("duplicated lock %q for account %s", lock.ID.String(), acc.Address.String())
			}
			locks[lock.ID] = struct{}{}

			if !helpers.IsValidBigInt(lock.Amount) {
				return errors.Errorf("not valid lock %q for account %s", lock.ID.String(), acc.Address.String())
			}
			amount := helpers.StringToBigInt(lock.Amount)
			if amount.Cmp(total) > 0 {
				return errors.Errorf("lock %q exceeds balance of account %s", lock.ID.String(), acc.Address.String())
			}
			if lock.ID == StakingLockID && amount.Sign() > 0 {
				staked = true
			}
		}

		// the provider of a stake is given back on unstake
		if staked && acc.Providers == 0 {
			return errors.Errorf("staked account %s has no providers", acc.Address.String())
		}

		if total.Sign() > 0 && total.Cmp(ed) < 0 {
			return errors.Errorf("account %s holds %s which is below existential deposit %s", acc.Address.String(), total, ed)
		}

		volume.Add(volume, total)
	}

	if issuance := helpers.StringToBigInt(s.TotalIssuance); volume.Cmp(issuance) != 0 {
		return errors.Errorf("wrong total issuance: declared %s, accounts hold %s", issuance, volume)
	}

	return nil
}
