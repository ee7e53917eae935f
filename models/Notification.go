package models

import "gorm.io/gorm"

// Notification is an in-app notification row, written best-effort by the
// event publisher after a booking transaction commits.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	RefType string `json:"refType"`
	RefID   uint   `json:"refID"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
