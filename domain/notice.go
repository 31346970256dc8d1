package domain

import "time"

const (
	NoticeKindNotice = "notice"
	NoticeKindFAQ    = "faq"
)

// Notice covers both shop announcements and FAQ entries.
type Notice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"column:kind;index;default:notice" json:"kind"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Body      string    `gorm:"column:body;type:text" json:"body"`
	IsPinned  bool      `gorm:"column:is_pinned;default:false" json:"is_pinned"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Notice) TableName() string {
	return "notices"
}
