package models

import "time"

// Anulacion holds the void columns shared by attendance, participation and
// cash movements. Once Anulado is set the record no longer changes.
type Anulacion struct {
	Anulado         bool       `json:"anulado" db:"anulado"`
	AnuladoAt       *time.Time `json:"anuladoAt" db:"anulado_at"`
	AnuladoByUser   *int64     `json:"anuladoByUser,string" db:"anulado_by_user"`
	MotivoAnulacion *string    `json:"motivoAnulacion" db:"motivo_anulacion"`
}

func (a Anulacion) IsAnulado() bool { return a.Anulado }

type AnularRequest struct {
	MotivoAnulacion string `json:"motivoAnulacion"`
}

// Audit columns stamped on create and update.
type Audit struct {
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	CreatedByUser int64      `json:"createdByUser,string" db:"created_by_user"`
	UpdatedAt     *time.Time `json:"updatedAt" db:"updated_at"`
	UpdatedByUser *int64     `json:"updatedByUser,string" db:"updated_by_user"`
}
