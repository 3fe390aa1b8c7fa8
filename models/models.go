package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique" json:"username"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	DataPermission bool      `gorm:"default:false" json:"data_permission"`
	Role           string    `gorm:"default:user" json:"role"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	Events         []Event   `gorm:"foreignKey:UserID"`
}

// Event - одна конкретная дата привычки. "Еженедельная привычка на 8 недель"
// превращается в 8 независимых строк с общим заголовком.
type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `json:"user_id"`
	Title        string    `json:"title"`
	AssignedDate time.Time `json:"assigned_date"`
	Completed    bool      `gorm:"default:false" json:"completed"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type JournalEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `json:"user_id"`
	DateCreated time.Time `json:"date_created"`
	Entry       string    `gorm:"type:text" json:"entry"`
	Angry       float64   `json:"angry"`
	Fear        float64   `json:"fear"`
	Happy       float64   `json:"happy"`
	Sad         float64   `json:"sad"`
	Surprise    float64   `json:"surprise"`
}

type Affirmation struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"unique" json:"text"`
}
