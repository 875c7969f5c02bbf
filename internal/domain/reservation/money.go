package reservation

import (
	"errors"
	"fmt"
)

var ErrNegativePrice = errors.New("price cannot be negative")

// Money is an amount in cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Times(n int64) Money {
	return Money{cents: m.cents * n}
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
