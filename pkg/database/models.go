package database

import (
	"time"

	"gorm.io/gorm"
)

// MeasurementReport records one relayed SSB measurement
type MeasurementReport struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SFN        uint16    `gorm:"index;not null" json:"sfn"`
	Slot       uint8     `gorm:"not null" json:"slot"`
	PhysCellID uint16    `gorm:"index;not null" json:"phys_cell_id"`
	SsbIndex   uint8     `json:"ssb_index"`
	Rsrp       uint16    `gorm:"not null" json:"rsrp"`
	ReportedAt time.Time `gorm:"index;not null" json:"reported_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for MeasurementReport
func (MeasurementReport) TableName() string {
	return "measurement_reports"
}

// BeforeCreate hook to ensure timestamps are set
func (m *MeasurementReport) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.ReportedAt.IsZero() {
		m.ReportedAt = time.Now()
	}
	return nil
}

// RachEvent records one outbound RACH.indication
type RachEvent struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	SFN           uint16    `gorm:"index;not null" json:"sfn"`
	Slot          uint8     `gorm:"not null" json:"slot"`
	PhysCellID    uint16    `gorm:"index" json:"phys_cell_id"`
	PreambleIndex uint8     `json:"preamble_index"`
	TimingAdvance uint16    `json:"timing_advance"`
	SentAt        time.Time `gorm:"index;not null" json:"sent_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for RachEvent
func (RachEvent) TableName() string {
	return "rach_events"
}

// BeforeCreate hook to ensure timestamps are set
func (r *RachEvent) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.SentAt.IsZero() {
		r.SentAt = time.Now()
	}
	return nil
}
