package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/brandquill/brandquill-backend/pkg/enums"
)

// SignatureImage stores a party's signature bitmap inline. Payloads are
// capped at 50 KB and sniffed to png/jpeg before they reach this table.
type SignatureImage struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractID uuid.UUID           `gorm:"column:contract_id;type:uuid;not null;index"`
	Party      enums.ContractParty `gorm:"column:party;type:contract_party;not null"`
	MimeType   string              `gorm:"column:mime_type;type:text;not null"`
	ByteSize   int                 `gorm:"column:byte_size;not null"`
	Data       []byte              `gorm:"column:data;type:bytea;not null"`
	UploadedBy uuid.UUID           `gorm:"column:uploaded_by;type:uuid;not null"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}
