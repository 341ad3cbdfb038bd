package infra

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	Role      string    `gorm:"type:varchar(16);not null;default:'user'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Owner          uuid.UUID `gorm:"type:uuid;index"`
	Description    string
	MinimumBalance int64  `gorm:"not null"`
	Balance        *int64 // NULL means uncalculated; derive from the ledger
	Root           bool   `gorm:"not null;default:false;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transfer rows are append-only; Seq fixes ledger insertion order.
type Transfer struct {
	Seq             int64     `gorm:"primaryKey;autoIncrement"`
	ID              uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	DebitAccountID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CreditAccountID uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount          int64     `gorm:"not null"`
	Description     string
	CreatedAt       time.Time
}
