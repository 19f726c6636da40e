/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/keyedstore/datastore"
	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/lineimport"
)

// AccountKind selects the rules a transaction is checked against.
type AccountKind int

const (
	// Unconstrained accounts accept any transaction.
	Unconstrained AccountKind = iota
	// BalanceLimited accounts reject transactions that take the balance below Floor.
	BalanceLimited
)

var accountKindNames = map[AccountKind]string{
	Unconstrained:  "unconstrained",
	BalanceLimited: "balance_limited",
}

func (k AccountKind) String() string {
	if name, ok := accountKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AccountKind(%d)", int(k))
}

// ParseAccountKind parses the name produced by String
func ParseAccountKind(s string) (AccountKind, error) {
	for k, name := range accountKindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown account kind %q", s)
}

func (k AccountKind) MarshalText() ([]byte, error) {
	if _, ok := accountKindNames[k]; !ok {
		return nil, fmt.Errorf("unknown account kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *AccountKind) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Account is a ledger account.
type Account struct {

	// Account number.
	// Required: true
	ID string `json:"Id" yaml:"Id"`

	// Account holder.
	// Required: true
	Owner string `json:"Owner" yaml:"Owner"`

	// Rules applied to transactions.
	// Enum: [unconstrained balance_limited]
	Kind AccountKind `json:"Kind" yaml:"Kind"`

	// Current balance.
	Balance float64 `json:"Balance" yaml:"Balance"`

	// Lowest balance a BalanceLimited account may reach.
	Floor float64 `json:"Floor,omitempty" yaml:"Floor,omitempty"`
}

func (a Account) EntityKey() string { return a.ID }

func (a Account) Validate() error {
	if err := required("Id", a.ID); err != nil {
		return err
	}
	if err := required("Owner", a.Owner); err != nil {
		return err
	}
	switch a.Kind {
	case Unconstrained:
		return nil
	case BalanceLimited:
		if a.Balance < a.Floor {
			return errors.NewInvalidValueError("Balance", fmt.Sprint(a.Balance), fmt.Sprintf("below floor %v", a.Floor))
		}
		return nil
	default:
		return errors.NewInvalidValueError("Kind", a.Kind.String(), "unknown account kind")
	}
}

// Transaction moves Amount into (positive) or out of (negative) an account.
type Transaction struct {

	// Transaction number.
	// Required: true
	ID int `json:"Id" yaml:"Id"`

	// Account the amount is booked on.
	// Required: true
	AccountID string `json:"AccountId" yaml:"AccountId"`

	// Signed amount.
	Amount float64 `json:"Amount" yaml:"Amount"`

	// Booking date.
	// Format: date
	Date strfmt.Date `json:"Date" yaml:"Date"`
}

func (t Transaction) EntityKey() int { return t.ID }

func (t Transaction) Validate() error {
	if err := required("AccountId", t.AccountID); err != nil {
		return err
	}
	if t.Amount == 0 {
		return errors.NewInvalidValueError("Amount", "0", "must not be zero")
	}
	return nil
}

// ApplyTransaction returns the balance change tx makes to its account.
func ApplyTransaction(tx Transaction) datastore.Patch[Account] {
	return transactionPatch{tx: tx}
}

type transactionPatch struct {
	tx Transaction
}

func (p transactionPatch) Field() string { return "Balance" }

func (p transactionPatch) Validate(current Account) error {
	if p.tx.AccountID != current.ID {
		return errors.NewInvalidValueError("AccountId", p.tx.AccountID, fmt.Sprintf("transaction %d is not booked on account %s", p.tx.ID, current.ID))
	}
	next := current.Balance + p.tx.Amount
	switch current.Kind {
	case Unconstrained:
		return nil
	case BalanceLimited:
		if next < current.Floor {
			return errors.NewInvalidValueError("Balance", fmt.Sprint(next), fmt.Sprintf("would fall below floor %v", current.Floor))
		}
		return nil
	default:
		return errors.NewInvalidValueError("Kind", current.Kind.String(), "unknown account kind")
	}
}

func (p transactionPatch) Apply(a *Account) {
	a.Balance += p.tx.Amount
}

// reversalPatch takes a booked amount back off the balance. It skips the
// floor check since it only restores an earlier balance.
type reversalPatch struct {
	tx Transaction
}

func (p reversalPatch) Field() string { return "Balance" }

func (p reversalPatch) Validate(Account) error { return nil }

func (p reversalPatch) Apply(a *Account) {
	a.Balance -= p.tx.Amount
}

// Post books tx on its account and records it in the journal. The journal
// is checked for a duplicate before the balance changes, and the balance
// change is reversed when the journal rejects tx.
func Post(accounts datastore.DataStore[string, Account], journal datastore.DataStore[int, Transaction], tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, err := journal.GetByID(tx.ID); err == nil {
		return errors.NewDuplicateKeyError("transaction", fmt.Sprint(tx.ID))
	} else if !errors.IsNotFound(err) {
		return err
	}
	if err := accounts.UpdateField(tx.AccountID, ApplyTransaction(tx)); err != nil {
		return err
	}
	if err := journal.Add(tx); err != nil {
		if rerr := accounts.UpdateField(tx.AccountID, reversalPatch{tx: tx}); rerr != nil {
			return errors.Join(err, fmt.Errorf("reverse transaction %d: %w", tx.ID, rerr))
		}
		return err
	}
	return nil
}

// AccountSchema reads "id,owner,kind,balance,floor" lines.
var AccountSchema = lineimport.Schema[Account]{
	Arity: 5,
	Build: func(r lineimport.Record) (Account, error) {
		id, err := r.NonEmpty(0, "id")
		if err != nil {
			return Account{}, err
		}
		owner, err := r.NonEmpty(1, "owner")
		if err != nil {
			return Account{}, err
		}
		kind, err := ParseAccountKind(r.String(2))
		if err != nil {
			return Account{}, errors.NewBadFormatError(r.Line, "kind", r.String(2), err)
		}
		balance, err := r.Float(3, "balance")
		if err != nil {
			return Account{}, err
		}
		var floor float64
		if r.String(4) != "" {
			if floor, err = r.Float(4, "floor"); err != nil {
				return Account{}, err
			}
		}
		return Account{ID: id, Owner: owner, Kind: kind, Balance: balance, Floor: floor}, nil
	},
}

// TransactionSchema reads "id,account,amount,date" lines.
var TransactionSchema = lineimport.Schema[Transaction]{
	Arity: 4,
	Build: func(r lineimport.Record) (Transaction, error) {
		id, err := r.Int(0, "id")
		if err != nil {
			return Transaction{}, err
		}
		account, err := r.NonEmpty(1, "account")
		if err != nil {
			return Transaction{}, err
		}
		amount, err := r.Float(2, "amount")
		if err != nil {
			return Transaction{}, err
		}
		date, err := r.Date(3, "date")
		if err != nil {
			return Transaction{}, err
		}
		return Transaction{ID: id, AccountID: account, Amount: amount, Date: date}, nil
	},
}
