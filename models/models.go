package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Load statuses. The first four are "active": only active loads are eligible
// for first-time row expansion on the dispatch board.
const (
	StatusNew           = "new"
	StatusAssigned      = "assigned"
	StatusAccepted      = "accepted"
	StatusInProgress    = "in_progress"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
	StatusRefused       = "refused"
	StatusOtherArchived = "other_archived"
)

// ActiveStatuses lists the statuses that permit expanding a collapsed row.
var ActiveStatuses = []string{StatusNew, StatusAssigned, StatusAccepted, StatusInProgress}

// IsActiveStatus reports whether status permits first-time row expansion.
func IsActiveStatus(status string) bool {
	for _, s := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Load is a shipment/booking record, the unit of work for the dispatch board.
// Its ID is immutable and is the sole key correlating per-row viewer state.
type Load struct {
	bun.BaseModel `bun:"table:loads,alias:l"`

	ID              int64  `bun:"id,pk,autoincrement"`
	LoadNumber      string `bun:"load_number,notnull"`
	ReferenceNumber string `bun:"reference_number"`

	CustomerName    string `bun:"customer_name,notnull"`
	CustomerContact string `bun:"customer_contact"`
	CustomerPhone   string `bun:"customer_phone"`
	CustomerEmail   string `bun:"customer_email"`

	PickupCity    string     `bun:"pickup_city"`
	PickupState   string     `bun:"pickup_state"`
	PickupZip     string     `bun:"pickup_zip"`
	PickupAddress string     `bun:"pickup_address"`
	PickupDate    *time.Time `bun:"pickup_date"`
	PickupTime    string     `bun:"pickup_time"`
	PickupContact string     `bun:"pickup_contact"`
	PickupPhone   string     `bun:"pickup_phone"`

	DeliveryCity    string     `bun:"delivery_city"`
	DeliveryState   string     `bun:"delivery_state"`
	DeliveryZip     string     `bun:"delivery_zip"`
	DeliveryAddress string     `bun:"delivery_address"`
	DeliveryDate    *time.Time `bun:"delivery_date"`
	DeliveryTime    string     `bun:"delivery_time"`
	DeliveryContact string     `bun:"delivery_contact"`
	DeliveryPhone   string     `bun:"delivery_phone"`

	Status string `bun:"status,notnull,default:'new'"`

	// Rate arrives from upstream systems as either a number or a numeric
	// string; it is stored as text and parsed at formatting time.
	Rate *string `bun:"rate"`

	Commodity     string `bun:"commodity"`
	Weight        string `bun:"weight"`
	Distance      string `bun:"distance"`
	Pieces        int64  `bun:"pieces"`
	EquipmentType string `bun:"equipment_type"`
	Notes         string `bun:"notes"`
	Instructions  string `bun:"instructions"`

	RateConfirmationPDFURL string `bun:"rate_confirmation_pdf_url"`

	Assignments []DriverAssignment `bun:"rel:has-many,join:id=load_id"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// CustomerDisplay returns the customer line for documents: the plain name,
// or "name (contact)" when a structured contact record is present.
func (l Load) CustomerDisplay() string {
	name := strings.TrimSpace(l.CustomerName)
	contact := strings.TrimSpace(l.CustomerContact)
	if name == "" {
		return contact
	}
	if contact == "" {
		return name
	}
	return name + " (" + contact + ")"
}

// DocumentReference returns the identifier used in generated document
// filenames: the reference number when present, else the load number.
func (l Load) DocumentReference() string {
	if ref := strings.TrimSpace(l.ReferenceNumber); ref != "" {
		return ref
	}
	return strings.TrimSpace(l.LoadNumber)
}

// Driver is a driver profile referenced by load assignments.
type Driver struct {
	bun.BaseModel `bun:"table:drivers,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Phone     string    `bun:"phone"`
	Email     string    `bun:"email"`
	TruckUnit string    `bun:"truck_unit"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// DriverAssignment links a driver to a load with a primary/secondary flag.
type DriverAssignment struct {
	bun.BaseModel `bun:"table:driver_assignments,alias:da"`

	ID        int64     `bun:"id,pk,autoincrement"`
	LoadID    int64     `bun:"load_id,notnull"`
	DriverID  int64     `bun:"driver_id,notnull"`
	Driver    Driver    `bun:"rel:belongs-to,join:driver_id=id"`
	IsPrimary bool      `bun:"is_primary,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// LoadComment stores free-text dispatcher comments against a load.
type LoadComment struct {
	bun.BaseModel `bun:"table:load_comments,alias:lc"`

	ID        int64     `bun:"id,pk,autoincrement"`
	LoadID    int64     `bun:"load_id,notnull"`
	Author    string    `bun:"author,notnull"`
	Body      string    `bun:"body,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for load mutations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
