package clubdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxLicenseNo is the highest club license number the federation hands out.
const MaxLicenseNo = 99

// Club represents an affiliated club. The license number is assigned once and
// never reused while the club exists.
type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:c"`

	UUID               uuid.UUID  `bun:"uuid,pk,type:uuid,default:gen_random_uuid()" json:"uuid"`
	Name               string     `bun:"name,notnull" json:"name"`
	LicenseNo          int        `bun:"license_no,notnull,unique" json:"license_no"`
	AffiliationYear    int        `bun:"affiliation_year,notnull" json:"affiliation_year"`
	DischargeDate      *time.Time `bun:"discharge_date,nullzero" json:"discharge_date,omitempty"`
	PossibleResumeDate *time.Time `bun:"possible_resume_date,nullzero" json:"possible_resume_date,omitempty"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// FullLicenseNo renders the federation-wide identifier, e.g. license 5 -> "05-000".
func (c *Club) FullLicenseNo() string {
	return fmt.Sprintf("%02d-000", c.LicenseNo)
}
