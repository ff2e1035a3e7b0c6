package database

import (
	"time"

	"gorm.io/gorm"
)

// MeasurementRepository handles measurement-report database operations
type MeasurementRepository struct {
	db *gorm.DB
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(db *gorm.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// Create adds a new measurement record
func (r *MeasurementRepository) Create(m *MeasurementReport) error {
	return r.db.Create(m).Error
}

// GetRecent retrieves the most recent N measurements
func (r *MeasurementRepository) GetRecent(limit int) ([]MeasurementReport, error) {
	var reports []MeasurementReport
	err := r.db.Order("reported_at DESC").Limit(limit).Find(&reports).Error
	return reports, err
}

// GetByCell retrieves measurements for a specific cell
func (r *MeasurementRepository) GetByCell(physCellID uint16, limit int) ([]MeasurementReport, error) {
	var reports []MeasurementReport
	err := r.db.Where("phys_cell_id = ?", physCellID).
		Order("reported_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// GetByTimeRange retrieves measurements within a time range
func (r *MeasurementRepository) GetByTimeRange(start, end time.Time, limit int) ([]MeasurementReport, error) {
	var reports []MeasurementReport
	err := r.db.Where("reported_at BETWEEN ? AND ?", start, end).
		Order("reported_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// DeleteOlderThan deletes measurements older than the specified time
func (r *MeasurementRepository) DeleteOlderThan(before time.Time) (int64, error) {
	result := r.db.Where("reported_at < ?", before).Delete(&MeasurementReport{})
	return result.RowsAffected, result.Error
}

// RachRepository handles RACH-event database operations
type RachRepository struct {
	db *gorm.DB
}

// NewRachRepository creates a new RACH-event repository
func NewRachRepository(db *gorm.DB) *RachRepository {
	return &RachRepository{db: db}
}

// Create adds a new RACH event record
func (r *RachRepository) Create(ev *RachEvent) error {
	return r.db.Create(ev).Error
}

// GetRecent retrieves the most recent N RACH events
func (r *RachRepository) GetRecent(limit int) ([]RachEvent, error) {
	var events []RachEvent
	err := r.db.Order("sent_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// CountSince counts RACH events sent after the given time
func (r *RachRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&RachEvent{}).Where("sent_at > ?", since).Count(&count).Error
	return count, err
}
