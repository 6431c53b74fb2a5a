package model

import (
	"time"
)

// Transaction represents the database model for payment transactions
type Transaction struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionNo     string    `gorm:"uniqueIndex;not null;size:64"`
	MerchantRequestID string    `gorm:"not null;size:128"`
	CheckoutRequestID string    `gorm:"uniqueIndex;not null;size:128"`
	Phone             string    `gorm:"not null;size:15;index"`
	Amount            string    `gorm:"not null;size:50"`
	AmountInCents     int64     `gorm:"not null"`
	Reference         string    `gorm:"size:40"`
	Description       string    `gorm:"size:100"`
	Status            string    `gorm:"not null;size:20;index"`
	ResultCode        *int      `gorm:""`
	ResultDescription string    `gorm:"type:text"`
	ReceiptNumber     string    `gorm:"size:64"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
