package models

import (
	"time"
)

type User struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string `gorm:"size:50;not null" json:"name"`
	Email string `gorm:"size:320;uniqueIndex;not null" json:"email"`

	PasswordHash string    `gorm:"size:72;not null" json:"-"`
	Role         Role      `gorm:"type:text;not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	TokenHash string    `gorm:"not null" json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// Coach is the profile attached 1:1 to a user with role COACH.
type Coach struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	ExperienceYears int       `gorm:"not null" json:"experience_years"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	ProfileImageURL *string   `gorm:"size:2048" json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Skill struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CoachLinkSkill: table "coach_link_skills", composite PK (coach_id, skill_id).
type CoachLinkSkill struct {
	CoachID   string    `gorm:"type:uuid;primaryKey" json:"coach_id"`
	SkillID   string    `gorm:"type:uuid;primaryKey" json:"skill_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CoachLinkSkill) TableName() string { return "coach_link_skills" }

// Course.UserID is the owning coach's user id.
type Course struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"type:uuid;index;not null" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	SkillID         string    `gorm:"type:uuid;index;not null" json:"skill_id"`
	Skill           Skill     `gorm:"foreignKey:SkillID;references:ID" json:"-"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	StartAt         time.Time `gorm:"not null" json:"start_at"`
	EndAt           time.Time `gorm:"not null" json:"end_at"`
	MaxParticipants int       `gorm:"not null" json:"max_participants"`
	MeetingURL      string    `gorm:"size:2048;not null" json:"meeting_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CourseBooking rows are never deleted. Status is the lifecycle discriminant;
// CancelledAt only records when the transition happened.
// At most one active row per (user_id, course_id), enforced by a partial unique index.
type CourseBooking struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string        `gorm:"type:uuid;not null;index;uniqueIndex:idx_course_bookings_active,where:status = 'active'" json:"user_id"`
	CourseID    string        `gorm:"type:uuid;not null;index;uniqueIndex:idx_course_bookings_active,where:status = 'active'" json:"course_id"`
	Course      Course        `gorm:"foreignKey:CourseID;references:ID" json:"-"`
	Status      BookingStatus `gorm:"type:text;not null;default:'active';index" json:"status"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at"`
}

func (b CourseBooking) Active() bool { return b.Status == BookingActive }

type CreditPackage struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CreditAmount int       `gorm:"not null" json:"credit_amount"`
	Price        int       `gorm:"not null" json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreditPurchase snapshots credits and price at purchase time, so later package
// edits or deletes never change what a user owns.
type CreditPurchase struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string        `gorm:"type:uuid;index;not null" json:"user_id"`
	CreditPackageID  string        `gorm:"type:uuid;index;not null" json:"credit_package_id"`
	CreditPackage    CreditPackage `gorm:"foreignKey:CreditPackageID;references:ID" json:"-"`
	PurchasedCredits int           `gorm:"not null" json:"purchased_credits"`
	PricePaid        int           `gorm:"not null" json:"price_paid"`
	PurchaseAt       time.Time     `gorm:"not null" json:"purchase_at"`
	CreatedAt        time.Time     `json:"created_at"`
}
