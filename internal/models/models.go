package models

import "time"

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Property struct {
	ID          string    `db:"id" json:"id"`
	Address     string    `db:"address" json:"address"`
	MonthlyRent int64     `db:"monthly_rent" json:"monthly_rent"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Unit struct {
	ID          string    `db:"id" json:"id"`
	PropertyID  string    `db:"property_id" json:"property_id"`
	UnitNumber  string    `db:"unit_number" json:"unit_number"`
	UnitType    string    `db:"unit_type" json:"unit_type"`
	MonthlyRent int64     `db:"monthly_rent" json:"monthly_rent"`
	Bedrooms    int       `db:"bedrooms" json:"bedrooms"`
	Bathrooms   int       `db:"bathrooms" json:"bathrooms"`
	SurfaceArea int       `db:"surface_area" json:"surface_area"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Tenant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Lease assigns a tenant to a unit over [StartDate, EndDate). A nil EndDate
// means the lease is ongoing.
type Lease struct {
	ID          string     `db:"id" json:"id"`
	TenantID    string     `db:"tenant_id" json:"tenant_id"`
	UnitID      string     `db:"unit_id" json:"unit_id"`
	PropertyID  string     `db:"property_id" json:"property_id"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date"`
	MonthlyRent int64      `db:"monthly_rent" json:"monthly_rent"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// LeaseView is a lease joined with the names needed to display it.
type LeaseView struct {
	Lease
	TenantName      string `db:"tenant_name" json:"tenant_name"`
	UnitNumber      string `db:"unit_number" json:"unit_number"`
	PropertyAddress string `db:"property_address" json:"property_address"`
}

// Payment is one rent instalment for a lease period. Its status is never
// stored; see ledger.StatusOf.
type Payment struct {
	ID          string     `db:"id" json:"id"`
	LeaseID     string     `db:"lease_id" json:"lease_id"`
	TenantID    string     `db:"tenant_id" json:"tenant_id"`
	UnitID      string     `db:"unit_id" json:"unit_id"`
	PropertyID  string     `db:"property_id" json:"property_id"`
	PeriodYear  int        `db:"period_year" json:"period_year"`
	PeriodMonth int        `db:"period_month" json:"period_month"`
	Amount      int64      `db:"amount" json:"amount"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type Receipt struct {
	ID             string    `db:"id" json:"id"`
	ReceiptNumber  string    `db:"receipt_number" json:"receipt_number"`
	TenantID       string    `db:"tenant_id" json:"tenant_id"`
	PaymentID      string    `db:"payment_id" json:"payment_id"`
	PaymentMethod  string    `db:"payment_method" json:"payment_method"`
	Notes          string    `db:"notes" json:"notes"`
	PaymentDate    time.Time `db:"payment_date" json:"payment_date"`
	Amount         int64     `db:"amount" json:"amount"`
	Currency       string    `db:"currency" json:"currency"`
	CurrencySymbol string    `db:"currency_symbol" json:"currency_symbol"`
	PeriodYear     int       `db:"period_year" json:"period_year"`
	PeriodMonth    int       `db:"period_month" json:"period_month"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ReceiptView is a receipt joined with tenant and property details.
type ReceiptView struct {
	Receipt
	TenantName      string `db:"tenant_name" json:"tenant_name"`
	PropertyAddress string `db:"property_address" json:"property_address"`
	UnitNumber      string `db:"unit_number" json:"unit_number"`
}

type Settings struct {
	AppName   string    `db:"app_name" json:"app_name"`
	Currency  string    `db:"currency" json:"currency"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type AuditLog struct {
	ID          string    `db:"id" json:"id"`
	ActorUserID *string   `db:"actor_user_id" json:"actor_user_id"`
	Action      string    `db:"action" json:"action"`
	EntityType  string    `db:"entity_type" json:"entity_type"`
	EntityID    string    `db:"entity_id" json:"entity_id"`
	Data        string    `db:"data" json:"data"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
