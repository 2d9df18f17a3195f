package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCliente Role = "cliente"
	RoleAdmin   Role = "admin"
)

// Tier is the borrower's loyalty level, stored as its ordinal.
type Tier int

const (
	TierHierro Tier = iota
	TierPlata
	TierOro
	TierPlatino
	TierDiamante
	TierEsmeralda
)

const TopTier = TierEsmeralda

var tierNames = [...]string{"hierro", "plata", "oro", "platino", "diamante", "esmeralda"}

// grace days added to each installment due date, snapshotted at generation
var tierGraceDays = [...]int{0, 2, 3, 4, 5, 7}

func (t Tier) Valid() bool { return t >= TierHierro && t <= TopTier }

func (t Tier) String() string {
	if !t.Valid() {
		return "desconocido"
	}
	return tierNames[t]
}

func (t Tier) GraceDays() int {
	if !t.Valid() {
		return 0
	}
	return tierGraceDays[t]
}

// Next is the tier after one approval, capped at TopTier.
func (t Tier) Next() Tier {
	if t >= TopTier {
		return TopTier
	}
	if t < TierHierro {
		return TierHierro
	}
	return t + 1
}

func ParseTier(s string) (Tier, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range tierNames {
		if n == s {
			return Tier(i), true
		}
	}
	return TierHierro, false
}

type User struct {
	ID                 uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID             string    `gorm:"size:32;uniqueIndex:ux_users_user_id;column:user_id" json:"user_id"`
	Name               string    `gorm:"size:120;column:name" json:"name"`
	Email              string    `gorm:"size:190;uniqueIndex:ux_users_email;column:email" json:"email"`
	Role               Role      `gorm:"type:varchar(16);default:'cliente';column:role" json:"role"`
	Tier               Tier      `gorm:"not null;default:0;column:tier" json:"tier"`
	DocumentStatusCode int       `gorm:"not null;default:0;column:document_status_code" json:"document_status_code"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Actor is the caller of a usecase, resolved from the request.
type Actor struct {
	ID   uint64
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccess reports whether the actor may read data owned by ownerID.
func (a Actor) CanAccess(ownerID uint64) bool { return a.IsAdmin() || a.ID == ownerID }
