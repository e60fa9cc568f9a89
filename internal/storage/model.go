package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type dbSession struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpireAt  time.Time
	UserID    string
}

type dbTransaction struct {
	ID           string
	AccountID    string
	Type         string
	SubType      string
	Amount       decimal.Decimal
	Description  string
	Date         string
	EnableEMI    bool
	EMINumbers   int
	EMIAmount    decimal.Decimal
	EMIType      string
	IsEMIPayment bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}
